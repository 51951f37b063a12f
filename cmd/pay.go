package cmd

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/subcommands"
	"github.com/vzool/zakat"
)

type payCmd struct {
	from   string
	exceed bool
}

func (*payCmd) Name() string     { return "pay" }
func (*payCmd) Synopsis() string { return "commit the pending zakat report" }
func (*payCmd) Usage() string {
	return `zkt pay [-from <account>:<amount>,...] [-exceed]

  Commits the report produced by the last "zkt check". By default each
  due lot funds its own cut; with -from, the total is paid from the
  named accounts instead, each amount in that account's own currency.
  -exceed allows a funding account to be overdrawn.

Usage Examples:
$ zkt pay
$ zkt pay -from bank:120.50,safe:30
`
}

func (p *payCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.from, "from", "", "Comma separated account:amount pairs funding the payment.")
	f.BoolVar(&p.exceed, "exceed", false, "Allow a funding account to be overdrawn.")
}

// parseParts turns the -from flag into a payment plan against the
// pending report's demand, snapshotting each account's balance and
// current rate the way BuildPaymentParts does.
func parseParts(v *zakat.Vault, arg string, demand float64, exceed bool) (*zakat.PaymentParts, error) {
	now := zakat.FromTime(time.Now())
	parts := &zakat.PaymentParts{Demand: demand, Exceed: exceed}
	for _, pair := range strings.Split(arg, ",") {
		name, amount, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok {
			return nil, fmt.Errorf("invalid pair %q, want account:amount", pair)
		}
		account, err := parseAccount(v, name)
		if err != nil {
			return nil, err
		}
		x, err := strconv.ParseFloat(amount, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
		}
		parts.Parts = append(parts.Parts, zakat.PaymentPart{
			Account: account,
			Balance: zakat.Unscale(v.Balance(account, true)),
			Rate:    v.ExchangeAt(account, now).Rate,
			Part:    x,
		})
	}
	return parts, nil
}

func (p *payCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	v, err := OpenVault()
	if err != nil {
		return fail(err)
	}
	report := v.Pending()
	if report == nil {
		return fail(fmt.Errorf("no pending report, run \"zkt check\" first"))
	}

	var parts *zakat.PaymentParts
	if p.from != "" {
		parts, err = parseParts(v, p.from, report.Summary.ZakatSum, p.exceed)
		if err != nil {
			return fail(err)
		}
	}
	if err := v.Zakat(report, parts); err != nil {
		return fail(err)
	}
	if err := CloseVault(v); err != nil {
		return fail(err)
	}
	fmt.Printf("Paid %s of zakat\n", display(zakat.Scale(report.Summary.ZakatSum)))
	return subcommands.ExitSuccess
}
