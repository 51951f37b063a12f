package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/vzool/zakat"
)

type trackCmd struct {
	desc string
	date string
}

func (*trackCmd) Name() string     { return "track" }
func (*trackCmd) Synopsis() string { return "record a deposit into an account" }
func (*trackCmd) Usage() string {
	return `zkt track [-m <memo>] [-d <date>] <account> <amount>

  Records a deposit: the amount is logged and stored as a new dated lot
  on the account. The account is created on first use.

Usage Examples:
$ zkt track safe 1000
$ zkt track -d 2025-03-01 -m "salary" bank 2500.50
`
}

func (p *trackCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.desc, "m", "", "Memo stored with the log entry.")
	f.StringVar(&p.date, "d", "", "Value date (2006-01-02), defaults to now.")
}

// parseDate reads an optional -d flag into a timestamp, 0 meaning now.
func parseDate(arg string) (zakat.Timestamp, error) {
	if arg == "" {
		return 0, nil
	}
	t, err := time.Parse("2006-01-02", arg)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", arg, err)
	}
	return zakat.FromTime(t), nil
}

func (p *trackCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	ref, err := v.Track(amount, p.desc, account, when)
	if err != nil {
		return fail(err)
	}
	if err := CloseVault(v); err != nil {
		return fail(err)
	}
	fmt.Printf("Tracked %s on account %d (lot %d)\n", display(amount), account, ref)
	return subcommands.ExitSuccess
}
