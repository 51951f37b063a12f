package zakat

// Rate is one stored exchange entry: the value of the account's currency
// expressed in the base currency.
type Rate struct {
	Rate        float64 `json:"rate"`
	Description string  `json:"description,omitempty"`
}

// ExchangeInfo is the resolved rate effective for an account at a given
// time.
type ExchangeInfo struct {
	Time        Timestamp `json:"time"`
	Rate        float64   `json:"rate"`
	Description string    `json:"description,omitempty"`
}

// neutralRate is the default when an account has no stored rate at or
// before the requested time.
func neutralRate(t Timestamp) ExchangeInfo { return ExchangeInfo{Time: t, Rate: 1} }

// SetExchange stores a rate for an account effective from t. The series
// is append-only: entries are never overwritten in place.
//
// A rate <= 0 is rejected by returning the zero ExchangeInfo, with no
// write and no history entry. The very first entry of an account with a
// rate <= 1 is coerced to the neutral rate and returned immediately
// without storing (anti-bootstrap guard). Otherwise the entry is stored
// and an EXCHANGE action is journaled so that Recall can remove it by
// key.
func (v *Vault) SetExchange(account AccountID, t Timestamp, rate float64, description string) ExchangeInfo {
	if rate <= 0 {
		return ExchangeInfo{}
	}
	if t == 0 {
		t = v.clock.Now()
	}
	token, owned := v.begin()
	defer v.end(token, owned)
	acc := v.ensureAccount(account)
	if len(acc.Exchange) == 0 && rate <= 1 {
		return neutralRate(t)
	}
	acc.Exchange[t] = &Rate{Rate: rate, Description: description}
	v.record(Entry{Action: ActionExchange, Account: account, Ref: t, Rate: rate})
	return ExchangeInfo{Time: t, Rate: rate, Description: description}
}

// ExchangeAt resolves the rate effective for an account at time t: among
// all stored entries keyed at or before t, the one with the greatest key.
// Accounts with no matching entry resolve to the neutral rate 1.
func (v *Vault) ExchangeAt(account AccountID, t Timestamp) ExchangeInfo {
	if t == 0 {
		t = v.clock.Now()
	}
	acc, ok := v.accounts[account]
	if !ok {
		return neutralRate(t)
	}
	var (
		bestTime Timestamp
		best     *Rate
	)
	for when, r := range acc.Exchange {
		if when <= t && when > bestTime {
			bestTime, best = when, r
		}
	}
	if best == nil {
		return neutralRate(t)
	}
	return ExchangeInfo{Time: bestTime, Rate: best.Rate, Description: best.Description}
}

// Exchanges returns the raw rate series of an account, or nil if the
// account does not exist.
func (v *Vault) Exchanges(account AccountID) map[Timestamp]*Rate {
	acc, ok := v.accounts[account]
	if !ok {
		return nil
	}
	return acc.Exchange
}

// ExchangeCalc converts an amount between currencies given both rates
// against the base currency. Truncation to integer minor units is the
// caller's concern.
func ExchangeCalc(x, xRate, yRate float64) float64 { return x * xRate / yRate }
