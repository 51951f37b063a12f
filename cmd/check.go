package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/vzool/zakat"
)

type checkCmd struct {
	gramPrice float64
	nisab     float64
	date      string
}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "assess the zakat due on the ledger" }
func (*checkCmd) Usage() string {
	return `zkt check [-gold <price>] [-nisab <threshold>] [-d <date>]

  Walks every zakatable account and reports the lots that have completed
  a full lunar-year holding cycle above the nisab threshold, with the
  amount due per lot. A valid report is kept pending for "zkt pay".

Usage Examples:
$ zkt check -gold 85.50
$ zkt check -nisab 5000
`
}

func (p *checkCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&p.gramPrice, "gold", 0, "Gold gram price used to derive the nisab threshold.")
	f.Float64Var(&p.nisab, "nisab", 0, "Explicit nisab threshold, overrides -gold.")
	f.StringVar(&p.date, "d", "", "Assessment date (2006-01-02), defaults to now.")
}

func (p *checkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	v, err := OpenVault()
	if err != nil {
		return fail(err)
	}
	when, err := parseDate(p.date)
	if err != nil {
		return fail(err)
	}
	report := v.Check(p.gramPrice, p.nisab, when, 0)
	if err := CloseVault(v); err != nil {
		return fail(err)
	}

	fmt.Printf("Wealth:    %s across %d lot(s)\n", display(zakat.Scale(report.Summary.Wealth)), report.Summary.NumWealthLots)
	fmt.Printf("Zakatable: %s\n", display(zakat.Scale(report.Summary.ZakatableSum)))
	if !report.Valid {
		fmt.Println("No zakat is due.")
		return subcommands.ExitSuccess
	}
	fmt.Printf("Due:       %s across %d lot(s)\n", display(zakat.Scale(report.Summary.ZakatSum)), report.Summary.NumZakatLots)
	for _, plan := range report.Plan {
		day := plan.Box.Time().Format("2006-01-02")
		fmt.Printf("  account %d lot %s: %s (%d cycle(s))\n",
			plan.Account, day, display(zakat.Scale(plan.Total)), plan.Count)
	}
	for _, plan := range report.BelowNisab {
		day := plan.Box.Time().Format("2006-01-02")
		fmt.Printf("  account %d lot %s: below nisab, due only if paid from pooled wealth\n",
			plan.Account, day)
	}
	return subcommands.ExitSuccess
}
