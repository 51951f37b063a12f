package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type snapshotCmd struct {
	list bool
}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "take or list database snapshots" }
func (*snapshotCmd) Usage() string {
	return `zkt snapshot [-list]

  Copies the database file into the snapshots folder under its content
  hash. An unchanged database is never copied twice. With -list, shows
  the known snapshots instead.

Usage Examples:
$ zkt snapshot
$ zkt snapshot -list
`
}

func (p *snapshotCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.list, "list", false, "List the stored snapshots.")
}

func (p *snapshotCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	v, err := OpenVault()
	if err != nil {
		return fail(err)
	}
	if p.list {
		for _, info := range v.Snapshots(false) {
			mark := "ok"
			if !info.Exists {
				mark = "missing"
			}
			fmt.Printf("%s  %s  %s\n", info.Hash, info.Path, mark)
		}
		return subcommands.ExitSuccess
	}
	if err := v.Snapshot(); err != nil {
		return fail(err)
	}
	fmt.Println("Snapshot stored.")
	return subcommands.ExitSuccess
}
