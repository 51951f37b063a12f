package zakat

import (
	"errors"
	"maps"
	"reflect"
	"slices"

	"github.com/shopspring/decimal"
)

// TimeCycle is one lunar year, the holding period after which a lot
// becomes due.
const TimeCycle = 355 * nsPerDay

// ZakatCut returns the due portion of x, 2.5%.
func ZakatCut(x float64) float64 { return 0.025 * x }

// Nisab returns the exemption threshold for a given gold gram price,
// 595 grams of silver-equivalent by the common gold basis.
func Nisab(gramPrice float64) float64 { return 595 * gramPrice }

var (
	// ErrStaleReport reports a commit attempted against a report that is
	// not the vault's pending report.
	ErrStaleReport = errors.New("report is not the pending report")

	// ErrInvalidParts reports a payment-parts plan that failed
	// validation.
	ErrInvalidParts = errors.New("invalid payment parts")
)

// BoxPlan is one due lot in a report's commit plan: which account and box
// owes, how much, and the bookkeeping to apply on commit. Last records
// the box's last-paid time as it stood at check time.
type BoxPlan struct {
	Account  AccountID `json:"account"`
	Box      Timestamp `json:"box"`
	Total    float64   `json:"total"`
	Count    int64     `json:"count"`
	Last     Timestamp `json:"last"`
	Exchange float64   `json:"exchange"`
	Below    bool      `json:"below,omitempty"`
}

// Summary aggregates a report.
type Summary struct {
	Wealth        float64 `json:"wealth"`
	ZakatableSum  float64 `json:"zakatable_sum"`
	ZakatSum      float64 `json:"zakat_sum"`
	NumWealthLots int64   `json:"num_wealth_lots"`
	NumZakatLots  int64   `json:"num_zakat_lots"`
}

// Report is the outcome of a zakat check: whether anything is due, a
// summary of holdings, and the per-box commit plan. BelowNisab lists
// lots that are individually under the threshold but due when holdings
// are pooled; they are shown for visibility and never debited.
type Report struct {
	Time       Timestamp `json:"time"`
	Valid      bool      `json:"valid"`
	Summary    Summary   `json:"summary"`
	Plan       []BoxPlan `json:"plan,omitempty"`
	BelowNisab []BoxPlan `json:"below_nisab,omitempty"`
}

// Check walks every zakatable account and builds a report of lots that
// have completed at least one holding cycle. gramPrice sets the nisab
// threshold unless nisab overrides it directly; now and cycle default to
// the clock and TimeCycle when zero.
//
// Each qualifying lot owes one cut per completed cycle, compounding: the
// cut of each successive cycle is taken on the remainder left by the
// previous one. Lot values are compared against the threshold in the
// base currency, converted at the account's current rate. A due lot
// under the threshold on its own records a single non-compounded cut and
// still owes when the pooled value of all such lots clears the
// threshold; they are reported under BelowNisab but are excluded from
// the commit plan.
//
// A valid report is cached as the vault's pending report for Zakat to
// consume.
func (v *Vault) Check(gramPrice float64, nisab float64, now Timestamp, cycle int64) *Report {
	if now == 0 {
		now = v.clock.Now()
	}
	if cycle <= 0 {
		cycle = TimeCycle
	}
	if nisab <= 0 {
		nisab = Nisab(gramPrice)
	}
	report := &Report{Time: now}

	// belowNisab pools the converted rests of due lots that miss the
	// threshold on their own; crossing it makes the report valid even
	// with an empty commit plan.
	var belowNisab float64

	ids := slices.Collect(maps.Keys(v.accounts))
	slices.Sort(ids)
	for _, id := range ids {
		acc := v.accounts[id]
		if !acc.Zakatable {
			continue
		}
		rate := v.ExchangeAt(id, now)
		boxes := slices.Collect(maps.Keys(acc.Box))
		slices.Sort(boxes)
		slices.Reverse(boxes)
		for _, ref := range boxes {
			box := acc.Box[ref]
			if box.Rest <= 0 {
				continue
			}
			converted := Unscale(box.Rest) * rate.Rate
			report.Summary.Wealth += converted
			report.Summary.NumWealthLots++

			since := box.Zakat.Last
			if since == 0 {
				since = ref
			}
			epochs := (int64(now) - int64(since)) / cycle
			if epochs <= 0 {
				continue
			}
			report.Summary.ZakatableSum += converted
			plan := BoxPlan{
				Account:  id,
				Box:      ref,
				Count:    epochs,
				Last:     box.Zakat.Last,
				Exchange: rate.Rate,
			}
			if converted < nisab {
				// A single non-compounded cut, recorded for visibility
				// only; the lot owes when the pool clears the threshold.
				chunk := ZakatCut(converted)
				if chunk <= 0 {
					continue
				}
				belowNisab += converted
				plan.Total = chunk
				plan.Below = true
				report.Summary.ZakatSum += chunk
				report.BelowNisab = append(report.BelowNisab, plan)
				continue
			}
			var total float64
			for range epochs {
				total += ZakatCut(converted - total)
			}
			if total <= 0 {
				continue
			}
			plan.Total = total
			report.Summary.ZakatSum += total
			report.Summary.NumZakatLots++
			report.Plan = append(report.Plan, plan)
		}
	}

	switch {
	case len(report.Plan) > 0:
		report.Valid = true
	case belowNisab >= nisab:
		// Due only because the under-threshold lots pool over the
		// threshold. Nothing is debited automatically; the plan stays
		// empty.
		report.Valid = true
	}
	if report.Valid {
		v.pending = report
	}
	return report
}

// PaymentPart is one account's share of an externally funded zakat
// payment, expressed in that account's own currency.
type PaymentPart struct {
	Account AccountID `json:"account"`
	Balance float64   `json:"balance"`
	Rate    float64   `json:"rate"`
	Part    float64   `json:"part"`
}

// PaymentParts is a plan for covering a zakat demand from chosen
// accounts instead of debiting the due boxes in place. Demand and Total
// are in the base currency; each part is in its account's currency.
// Exceed allows parts to overdraw their accounts.
type PaymentParts struct {
	Demand float64       `json:"demand"`
	Total  float64       `json:"total"`
	Exceed bool          `json:"exceed,omitempty"`
	Parts  []PaymentPart `json:"parts"`
}

// BuildPaymentParts drafts an empty plan covering demand: one zero part
// per account (positive-balance accounts only when positiveOnly is set),
// carrying each account's balance and current rate for the caller to
// fill in.
func (v *Vault) BuildPaymentParts(demand float64, positiveOnly bool) *PaymentParts {
	parts := &PaymentParts{Demand: demand}
	ids := slices.Collect(maps.Keys(v.accounts))
	slices.Sort(ids)
	now := v.clock.Now()
	for _, id := range ids {
		acc := v.accounts[id]
		if positiveOnly && acc.Balance <= 0 {
			continue
		}
		rate := v.ExchangeAt(id, now)
		parts.Parts = append(parts.Parts, PaymentPart{
			Account: id,
			Balance: Unscale(acc.Balance),
			Rate:    rate.Rate,
		})
		parts.Total += Unscale(acc.Balance) * rate.Rate
	}
	return parts
}

// CheckPaymentParts validates a filled plan against its own snapshots
// (balances and rates as BuildPaymentParts captured them). It returns 0
// when the plan is payable, or a diagnostic code:
//
//	2  a part names an unknown account
//	3  a part is negative
//	4  a part's account has no positive balance (unless Exceed)
//	5  a part exceeds its account's balance (unless Exceed)
//	6  the converted parts do not sum to the demand
func (v *Vault) CheckPaymentParts(parts *PaymentParts) int {
	var sum decimal.Decimal
	for _, p := range parts.Parts {
		if _, ok := v.accounts[p.Account]; !ok {
			return 2
		}
		if p.Part < 0 {
			return 3
		}
		if !parts.Exceed && p.Balance <= 0 {
			return 4
		}
		if !parts.Exceed && p.Part > p.Balance {
			return 5
		}
		sum = sum.Add(decimal.NewFromFloat(p.Part * p.Rate))
	}
	if !sum.Round(DecimalPlaces).Equal(decimal.NewFromFloat(parts.Demand).Round(DecimalPlaces)) {
		return 6
	}
	return 0
}

// Zakat commits a previously checked report: it stamps each planned box
// with its new last-paid time and accumulated totals, then settles the
// payment. With parts nil, each due box funds its own cut (its rest is
// debited and a negative log entry referencing the box is posted);
// otherwise the validated parts plan is executed by subtracting each
// part from its account.
//
// The report must be the vault's pending report, unchanged since Check
// produced it.
func (v *Vault) Zakat(report *Report, parts *PaymentParts) error {
	if report == nil || !report.Valid {
		return ErrStaleReport
	}
	if report != v.pending && !reflect.DeepEqual(report, v.pending) {
		return ErrStaleReport
	}
	if parts != nil {
		if code := v.CheckPaymentParts(parts); code != 0 {
			return ErrInvalidParts
		}
	}

	token, owned := v.begin()
	defer v.end(token, owned)
	v.record(Entry{Action: ActionReport, Ref: report.Time})

	// Paid lots restart their holding cycle from the commit time, not
	// from the epoch boundary the check derived.
	stamp := v.clock.Now()
	for _, plan := range report.Plan {
		acc := v.accounts[plan.Account]
		box := acc.Box[plan.Box]
		v.record(Entry{Action: ActionZakat, Account: plan.Account, Ref: plan.Box,
			Key: "last", Value: int64(box.Zakat.Last), Math: MathEqual})
		box.Zakat.Last = stamp
		amount := Scale(plan.Total / plan.Exchange)
		v.record(Entry{Action: ActionZakat, Account: plan.Account, Ref: plan.Box,
			Key: "total", Value: amount, Math: MathAdd})
		box.Zakat.Total += amount
		v.record(Entry{Action: ActionZakat, Account: plan.Account, Ref: plan.Box,
			Key: "count", Value: plan.Count, Math: MathAdd})
		box.Zakat.Count += plan.Count

		if parts == nil {
			// The funding log's box reference is what Recall uses to
			// restore this debit, so no separate SUBTRACT entry.
			box.Rest -= amount
			v.appendLog(plan.Account, -amount, "zakat-دفع-الزكاة", v.clock.Now(), plan.Box)
		}
	}
	if parts != nil {
		for _, p := range parts.Parts {
			if p.Part <= 0 {
				continue
			}
			// The part carries the rate it was planned at; converting
			// through the rate effective now absorbs any change between
			// planning and committing.
			cur := v.ExchangeAt(p.Account, stamp)
			amount := Scale(ExchangeCalc(p.Part, p.Rate, cur.Rate))
			if _, _, err := v.Subtract(amount, "zakat-دفع-الزكاة", p.Account, 0); err != nil {
				return err
			}
		}
	}
	v.pending = nil
	v.reports[report.Time] = report
	if v.AutoSave {
		return v.Save(v.path, true)
	}
	return nil
}
