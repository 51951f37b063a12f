package cmd

import (
	"context"
	"flag"
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"

	"github.com/google/subcommands"
)

type exchangeCmd struct {
	desc string
	date string
	list bool
}

func (*exchangeCmd) Name() string     { return "exchange" }
func (*exchangeCmd) Synopsis() string { return "set or list an account's exchange rates" }
func (*exchangeCmd) Usage() string {
	return `zkt exchange [-m <memo>] [-d <date>] <account> <rate>
zkt exchange -list <account>

  Sets the account's exchange rate effective from the given date, or
  lists the stored rate series. Rates express the account's currency in
  the base currency.

Usage Examples:
$ zkt exchange gold 310.50
$ zkt exchange -list gold
`
}

func (p *exchangeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.desc, "m", "", "Memo stored with the rate.")
	f.StringVar(&p.date, "d", "", "Effective date (2006-01-02), defaults to now.")
	f.BoolVar(&p.list, "list", false, "List the account's stored rates instead of setting one.")
}

func (p *exchangeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	v, err := OpenVault()
	if err != nil {
		return fail(err)
	}

	if p.list {
		if f.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "Error: expected <account>")
			return subcommands.ExitUsageError
		}
		account, err := parseAccount(v, f.Arg(0))
		if err != nil {
			return fail(err)
		}
		rates := v.Exchanges(account)
		times := slices.Collect(maps.Keys(rates))
		slices.Sort(times)
		for _, t := range times {
			day := t.Time().Format("2006-01-02")
			fmt.Printf("%s  %.6f  %s\n", day, rates[t].Rate, rates[t].Description)
		}
		return subcommands.ExitSuccess
	}

	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: expected <account> <rate>")
		return subcommands.ExitUsageError
	}
	account, err := parseAccount(v, f.Arg(0))
	if err != nil {
		return fail(err)
	}
	rate, err := strconv.ParseFloat(f.Arg(1), 64)
	if err != nil {
		return fail(fmt.Errorf("invalid rate %q: %w", f.Arg(1), err))
	}
	when, err := parseDate(p.date)
	if err != nil {
		return fail(err)
	}
	info := v.SetExchange(account, when, rate, p.desc)
	if err := CloseVault(v); err != nil {
		return fail(err)
	}
	fmt.Printf("Rate for account %d is %.6f from %s\n", account, info.Rate, info.Time.Time().Format("2006-01-02"))
	return subcommands.ExitSuccess
}
