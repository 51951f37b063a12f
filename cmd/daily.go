package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

// dailyCmd holds the flags for the 'daily' subcommand.
type dailyCmd struct {
	days int
}

func (*dailyCmd) Name() string     { return "daily" }
func (*dailyCmd) Synopsis() string { return "display ledger activity grouped by day" }
func (*dailyCmd) Usage() string {
	return `zkt daily [-n <days>]

  Displays deposits and withdrawals grouped by civil day, most recent
  first.

Usage Examples:
$ zkt daily -n 7
`
}

func (p *dailyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&p.days, "n", 0, "Show only the most recent N days.")
}

func (p *dailyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	v, err := OpenVault()
	if err != nil {
		return fail(err)
	}
	days := v.DailyLogs()
	if p.days > 0 && len(days) > p.days {
		days = days[:p.days]
	}
	for _, day := range days {
		fmt.Printf("%04d-%02d-%02d  in %s  out %s  net %s\n",
			day.Year, day.Month, day.Day,
			display(day.In), display(day.Out), display(day.Total()))
		for _, row := range day.Rows {
			fmt.Printf("  account %d  %12s  %s\n", row.Account, display(row.Value), row.Desc)
		}
	}
	return subcommands.ExitSuccess
}
