package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type transferCmd struct {
	desc string
	date string
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "move an amount between two accounts" }
func (*transferCmd) Usage() string {
	return `zkt transfer [-m <memo>] [-d <date>] <from> <to> <amount>

  Moves the amount from one account to another, converting through the
  accounts' exchange rates and preserving the age of the moved lots.

Usage Examples:
$ zkt transfer safe bank 500
`
}

func (p *transferCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.desc, "m", "", "Memo stored with the log entries.")
	f.StringVar(&p.date, "d", "", "Value date (2006-01-02), defaults to now.")
}

func (p *transferCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		fmt.Fprintln(os.Stderr, "Error: expected <from> <to> <amount>")
		return subcommands.ExitUsageError
	}
	v, err := OpenVault()
	if err != nil {
		return fail(err)
	}
	from, err := parseAccount(v, f.Arg(0))
	if err != nil {
		return fail(err)
	}
	to, err := parseAccount(v, f.Arg(1))
	if err != nil {
		return fail(err)
	}
	amount, err := parseAmount(f.Arg(2))
	if err != nil {
		return fail(err)
	}
	when, err := parseDate(p.date)
	if err != nil {
		return fail(err)
	}
	report, err := v.Transfer(amount, from, to, p.desc, when)
	if err != nil {
		return fail(err)
	}
	if err := CloseVault(v); err != nil {
		return fail(err)
	}
	fmt.Printf("Transferred %s from account %d to account %d\n", display(amount), from, to)
	for _, t := range report.Times {
		fmt.Printf("  new lot %d (log %d)\n", t.Box, t.Log)
	}
	return subcommands.ExitSuccess
}
