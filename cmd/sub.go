package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type subCmd struct {
	desc string
	date string
}

func (*subCmd) Name() string     { return "sub" }
func (*subCmd) Synopsis() string { return "withdraw an amount from an account" }
func (*subCmd) Usage() string {
	return `zkt sub [-m <memo>] [-d <date>] <account> <amount>

  Withdraws the amount, draining the account's lots newest first. When
  the lots cannot cover it, the shortfall is kept as an overdraft lot.

Usage Examples:
$ zkt sub safe 250
$ zkt sub -m "rent" bank 1200
`
}

func (p *subCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.desc, "m", "", "Memo stored with the log entry.")
	f.StringVar(&p.date, "d", "", "Value date (2006-01-02), defaults to now.")
}

func (p *subCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: expected <account> <amount>")
		return subcommands.ExitUsageError
	}
	v, err := OpenVault()
	if err != nil {
		return fail(err)
	}
	account, err := parseAccount(v, f.Arg(0))
	if err != nil {
		return fail(err)
	}
	amount, err := parseAmount(f.Arg(1))
	if err != nil {
		return fail(err)
	}
	when, err := parseDate(p.date)
	if err != nil {
		return fail(err)
	}
	_, ages, err := v.Subtract(amount, p.desc, account, when)
	if err != nil {
		return fail(err)
	}
	if err := CloseVault(v); err != nil {
		return fail(err)
	}
	fmt.Printf("Subtracted %s from account %d across %d lot(s)\n", display(amount), account, len(ages))
	for _, age := range ages {
		fmt.Printf("  lot %d: %s\n", age.Box, display(age.Value))
	}
	return subcommands.ExitSuccess
}
