package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type accountsCmd struct {
	hidden bool
}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list accounts and their balances" }
func (*accountsCmd) Usage() string {
	return `zkt accounts [-all]

  Lists every account with its cached balance, lot count and zakatable
  flag. Hidden accounts are skipped unless -all is set.

Usage Examples:
$ zkt accounts
`
}

func (p *accountsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.hidden, "all", false, "Include hidden accounts.")
}

func (p *accountsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	v, err := OpenVault()
	if err != nil {
		return fail(err)
	}
	for id, balance := range v.Accounts() {
		if !p.hidden && v.Hide(id) {
			continue
		}
		name := v.Name(id)
		if name == "" {
			name = "-"
		}
		mark := "yes"
		if !v.Zakatable(id) {
			mark = "no"
		}
		fmt.Printf("%6d  %-20s %12s  %3d lot(s)  zakatable:%s\n",
			id, name, display(balance), v.BoxSize(id), mark)
	}
	return subcommands.ExitSuccess
}
