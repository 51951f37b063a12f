package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type recallCmd struct {
	dry bool
}

func (*recallCmd) Name() string     { return "recall" }
func (*recallCmd) Synopsis() string { return "undo the most recent ledger session" }
func (*recallCmd) Usage() string {
	return `zkt recall [-n]

  Rolls back the most recent recorded session, action by action, in
  reverse order. With -n, only reports whether something can be undone.

Usage Examples:
$ zkt recall
$ zkt recall -n
`
}

func (p *recallCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.dry, "n", false, "Dry run, change nothing.")
}

func (p *recallCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	v, err := OpenVault()
	if err != nil {
		return fail(err)
	}
	if !v.Recall(p.dry) {
		fmt.Println("Nothing to undo.")
		return subcommands.ExitSuccess
	}
	if p.dry {
		fmt.Println("One session can be undone.")
		return subcommands.ExitSuccess
	}
	if err := CloseVault(v); err != nil {
		return fail(err)
	}
	fmt.Println("Undid the last session.")
	return subcommands.ExitSuccess
}
