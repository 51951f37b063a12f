package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "dump the whole ledger state as JSON" }
func (*exportCmd) Usage() string {
	return `zkt export [-o <file>]

  Writes an indented JSON dump of the whole ledger state to stdout or to
  a file.

Usage Examples:
$ zkt export -o backup.json
`
}

func (p *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.output, "o", "", "Write to this file instead of stdout.")
}

func (p *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	v, err := OpenVault()
	if err != nil {
		return fail(err)
	}
	out := os.Stdout
	if p.output != "" {
		out, err = os.Create(p.output)
		if err != nil {
			return fail(fmt.Errorf("cannot create %q: %w", p.output, err))
		}
		defer out.Close()
	}
	if err := v.ExportJSON(out); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
