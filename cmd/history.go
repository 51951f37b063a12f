package cmd

import (
	"context"
	"flag"
	"fmt"
	"maps"
	"slices"

	"github.com/google/subcommands"
)

type historyCmd struct{}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the recorded action journal" }
func (*historyCmd) Usage() string {
	return `zkt history

  Displays the recorded sessions and their journaled actions, the
  material "zkt recall" works from.
`
}

func (*historyCmd) SetFlags(f *flag.FlagSet) {}

func (p *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	v, err := OpenVault()
	if err != nil {
		return fail(err)
	}
	steps := v.Steps()
	sessions := slices.Collect(maps.Keys(steps))
	slices.Sort(sessions)
	for _, session := range sessions {
		fmt.Printf("session %d (%s)\n", session, session.Time().Format("2006-01-02 15:04:05"))
		bucket := steps[session]
		keys := slices.Collect(maps.Keys(bucket))
		slices.Sort(keys)
		for _, key := range keys {
			e := bucket[key]
			action, _ := e.Action.MarshalText()
			fmt.Printf("  %-12s account=%d ref=%d value=%d %s\n",
				string(action), e.Account, e.Ref, e.Value, e.Text)
		}
	}
	return subcommands.ExitSuccess
}
