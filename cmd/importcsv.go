package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import a CSV bank statement" }
func (*importCmd) Usage() string {
	return `zkt import <file.csv>

  Books the statement's rows into the ledger. Rows are
  account,desc,value,date[,rate]; opposite equal amounts at the same
  date become one transfer. Rows imported in a previous run are skipped.

Usage Examples:
$ zkt import statement.csv
`
}

func (*importCmd) SetFlags(f *flag.FlagSet) {}

func (p *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected <file.csv>")
		return subcommands.ExitUsageError
	}
	v, err := OpenVault()
	if err != nil {
		return fail(err)
	}
	file, err := os.Open(f.Arg(0))
	if err != nil {
		return fail(err)
	}
	defer file.Close()

	stats, err := v.ImportCSV(file)
	if err != nil {
		return fail(err)
	}
	if err := CloseVault(v); err != nil {
		return fail(err)
	}
	fmt.Printf("Imported %d row(s), skipped %d already booked\n", stats.Created, stats.Found)
	for _, bad := range stats.Bad {
		fmt.Fprintf(os.Stderr, "line %d: %v\n", bad.Line, bad.Err)
	}
	if len(stats.Bad) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
