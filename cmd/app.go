// Package cmd implements the CLI application to manage a zakat ledger.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/Rhymond/go-money"
	"github.com/google/subcommands"
	"github.com/vzool/zakat"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&trackCmd{}, "ledger")
	c.Register(&subCmd{}, "ledger")
	c.Register(&transferCmd{}, "ledger")
	c.Register(&exchangeCmd{}, "ledger")
	c.Register(&recallCmd{}, "ledger")

	c.Register(&checkCmd{}, "zakat")
	c.Register(&payCmd{}, "zakat")

	c.Register(&accountsCmd{}, "reports")
	c.Register(&dailyCmd{}, "reports")
	c.Register(&historyCmd{}, "reports")

	c.Register(&importCmd{}, "data")
	c.Register(&exportCmd{}, "data")
	c.Register(&snapshotCmd{}, "data")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var dbFile = flag.String("db", "zakat.json", "Path to the ledger database file")
var currencyCode = flag.String("currency", "USD", "Currency code used to display amounts")

// OpenVault is the central function to open the ledger database.
func OpenVault() (*zakat.Vault, error) {
	v, err := zakat.Open(*dbFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open ledger %q: %w", *dbFile, err)
	}
	return v, nil
}

// CloseVault persists the ledger back to the app database file.
func CloseVault(v *zakat.Vault) error {
	return v.Save("", true)
}

// display renders a scaled amount in the app display currency.
func display(amount int64) string {
	return money.New(amount, *currencyCode).Display()
}

// parseAccount resolves an account argument: a pure numeric string is an
// id, anything else a name looked up (or created) in the registry.
func parseAccount(v *zakat.Vault, arg string) (zakat.AccountID, error) {
	if id, err := zakat.ParseAccountID(arg); err == nil {
		return id, nil
	}
	return v.Account(arg)
}

// parseAmount reads a major-unit decimal amount into scaled minor units.
func parseAmount(arg string) (int64, error) {
	x, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", arg, err)
	}
	return zakat.Scale(x), nil
}

// fail prints an error and maps it to the failure exit status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}
