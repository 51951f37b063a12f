package zakat

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	// ErrBadTimestamp reports a caller-supplied timestamp that is not
	// positive.
	ErrBadTimestamp = errors.New("timestamp must be positive")

	// ErrDuplicateBox reports a second box at the exact same timestamp
	// for one account. Collisions never overwrite silently.
	ErrDuplicateBox = errors.New("box already exists at this timestamp")

	// ErrDuplicateLog reports a second log entry at the exact same
	// timestamp for one account.
	ErrDuplicateLog = errors.New("log already exists at this timestamp")

	// ErrNonPositiveAmount reports a subtract or transfer of a zero or
	// negative amount.
	ErrNonPositiveAmount = errors.New("amount must be positive")

	// ErrSameAccount reports a transfer whose source and destination are
	// the same account.
	ErrSameAccount = errors.New("transfer to the same account is forbidden")
)

// ensureAccount returns the account, creating it (with a CREATE history
// entry) on first use. Must run inside a session.
func (v *Vault) ensureAccount(id AccountID) *Account {
	if acc, ok := v.accounts[id]; ok {
		return acc
	}
	acc := &Account{
		Created:   v.clock.Now(),
		Box:       make(map[Timestamp]*Box),
		Log:       make(map[Timestamp]*Log),
		Exchange:  make(map[Timestamp]*Rate),
		Zakatable: true,
	}
	v.accounts[id] = acc
	v.record(Entry{Action: ActionCreate, Account: id})
	return acc
}

// appendLog posts a log entry, updating the cached balance and the undo
// count, and journals the LOG action. Collision checks are the caller's
// responsibility; must run inside a session.
func (v *Vault) appendLog(id AccountID, value int64, desc string, created Timestamp, ref Timestamp) Timestamp {
	acc := v.accounts[id]
	acc.Balance += value
	acc.Count++
	acc.Log[created] = &Log{
		Value: value,
		Desc:  desc,
		Ref:   ref,
		File:  make(map[Timestamp]string),
	}
	v.record(Entry{Action: ActionLog, Account: id, Ref: created, Value: value})
	return created
}

// normalizeTime substitutes the clock for a zero timestamp and rejects
// negatives.
func (v *Vault) normalizeTime(t Timestamp) (Timestamp, error) {
	if t == 0 {
		return v.clock.Now(), nil
	}
	if t < 0 {
		return 0, fmt.Errorf("%w: %d", ErrBadTimestamp, t)
	}
	return t, nil
}

// Track records a deposit: it ensures the account exists, posts a
// positive log entry, and creates a new box (lot) keyed at created with
// capital and rest equal to value. A zero value only performs the
// ensure-exists step and returns 0. Passing created as 0 stamps the
// operation with the clock.
//
// Track fails without touching state when a box or log entry already
// exists at exactly that timestamp.
func (v *Vault) Track(value int64, desc string, account AccountID, created Timestamp) (Timestamp, error) {
	created, err := v.normalizeTime(created)
	if err != nil {
		return 0, err
	}
	token, owned := v.begin()
	defer v.end(token, owned)
	acc := v.ensureAccount(account)
	if value == 0 {
		return 0, nil
	}
	if _, ok := acc.Log[created]; ok {
		return 0, fmt.Errorf("%w: account %d time %d", ErrDuplicateLog, account, created)
	}
	if _, ok := acc.Box[created]; ok {
		return 0, fmt.Errorf("%w: account %d time %d", ErrDuplicateBox, account, created)
	}
	v.appendLog(account, value, desc, created, 0)
	acc.Box[created] = &Box{Capital: value, Rest: value}
	v.record(Entry{Action: ActionTrack, Account: account, Ref: created, Value: value})
	return created, nil
}

// Age is one slice of a subtraction: the box it was drawn from and the
// amount taken.
type Age struct {
	Box   Timestamp
	Value int64
}

// Subtract withdraws value from an account by draining its boxes from the
// most recently created to the oldest (last-in, first-consumed),
// journaling one SUBTRACT action per box touched. When the boxes cannot
// cover the amount, the shortfall becomes a synthetic overdraft box dated
// at created with a negative rest.
//
// It returns the timestamp of the posted log entry and one Age per box
// drawn from (the overdraft box included).
func (v *Vault) Subtract(value int64, desc string, account AccountID, created Timestamp) (Timestamp, []Age, error) {
	if value <= 0 {
		return 0, nil, fmt.Errorf("%w: %d", ErrNonPositiveAmount, value)
	}
	created, err := v.normalizeTime(created)
	if err != nil {
		return 0, nil, err
	}
	token, owned := v.begin()
	defer v.end(token, owned)
	acc := v.ensureAccount(account)
	if _, ok := acc.Log[created]; ok {
		return 0, nil, fmt.Errorf("%w: account %d time %d", ErrDuplicateLog, account, created)
	}

	// Fail before mutating: an overdraft would need a box at created.
	var available int64
	for _, b := range acc.Box {
		if b.Rest > 0 {
			available += b.Rest
		}
	}
	if available < value {
		if _, ok := acc.Box[created]; ok {
			return 0, nil, fmt.Errorf("%w: account %d time %d", ErrDuplicateBox, account, created)
		}
	}

	v.appendLog(account, -value, desc, created, 0)

	ids := slices.Collect(maps.Keys(acc.Box))
	slices.Sort(ids)
	target := value
	var ages []Age
	for i := len(ids) - 1; i >= 0 && target > 0; i-- {
		ref := ids[i]
		box := acc.Box[ref]
		rest := box.Rest
		switch {
		case rest >= target:
			box.Rest -= target
			v.record(Entry{Action: ActionSubtract, Account: account, Ref: ref, Value: target})
			ages = append(ages, Age{Box: ref, Value: target})
			target = 0
		case rest > 0:
			box.Rest = 0
			target -= rest
			v.record(Entry{Action: ActionSubtract, Account: account, Ref: ref, Value: rest})
			ages = append(ages, Age{Box: ref, Value: rest})
		}
	}
	if target > 0 {
		// Overdraft lot: capital and rest both carry the shortfall as a
		// negative value, dated at the subtraction time.
		acc.Box[created] = &Box{Capital: -target, Rest: -target}
		v.record(Entry{Action: ActionTrack, Account: account, Ref: created, Value: -target})
		ages = append(ages, Age{Box: created, Value: target})
	}
	return created, ages, nil
}

// TransferTime pairs the destination box of one transferred age slice
// with the log entry that recorded it.
type TransferTime struct {
	Box Timestamp `json:"box"`
	Log Timestamp `json:"log"`
}

// TransferReport accumulates the destination records of a transfer. Only
// age slices that created a brand-new destination box appear here; slices
// folded into an existing destination box mutate state without being
// reflected in the report.
type TransferReport struct {
	Times []TransferTime `json:"times"`
}

// Transfer moves value from one account to another, preserving the age of
// the funds. The amount is subtracted from the source (newest lots
// first), then each drawn slice is converted with the rates effective at
// created and applied to the destination:
//
//   - if the destination already holds a box keyed at the slice's age,
//     that box's rest grows by the converted amount; should the result
//     exceed the box's capital, the capital grows to match and the undo
//     reference is re-anchored to a fresh timestamp. An incoming log
//     entry records the arrival.
//   - otherwise a brand-new destination box is created at the source
//     lot's original age timestamp.
func (v *Vault) Transfer(value int64, from, to AccountID, desc string, created Timestamp) (*TransferReport, error) {
	if from == to {
		return nil, fmt.Errorf("%w: %d", ErrSameAccount, to)
	}
	if value <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrNonPositiveAmount, value)
	}
	created, err := v.normalizeTime(created)
	if err != nil {
		return nil, err
	}
	token, owned := v.begin()
	defer v.end(token, owned)

	_, ages, err := v.Subtract(value, desc, from, created)
	if err != nil {
		return nil, err
	}
	source := v.ExchangeAt(from, created)
	target := v.ExchangeAt(to, created)

	report := &TransferReport{}
	for _, age := range ages {
		amount := int64(ExchangeCalc(float64(age.Value), source.Rate, target.Rate))
		if dst, ok := v.accounts[to]; ok {
			if box, ok := dst.Box[age.Box]; ok {
				selected := age.Box
				if box.Rest+amount > box.Capital {
					box.Capital += amount
					selected = v.clock.Now()
				}
				box.Rest += amount
				v.record(Entry{Action: ActionBoxTransfer, Account: to, Ref: selected, Value: amount})
				v.appendLog(to, amount, fmt.Sprintf("transfer %d -> %d", from, to), v.clock.Now(), 0)
				continue
			}
		}
		ref, err := v.Track(amount, desc, to, age.Box)
		if err != nil {
			return nil, err
		}
		report.Times = append(report.Times, TransferTime{Box: age.Box, Log: ref})
	}
	return report, nil
}
