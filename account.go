package zakat

import (
	"errors"
	"fmt"
	"strconv"
)

// AccountID identifies an account. Ids are positive integers; on the wire
// they appear as plain digit strings without sign or leading zero.
type AccountID int64

var (
	// ErrInvalidAccountID reports an id string that is not a plain
	// positive integer.
	ErrInvalidAccountID = errors.New("invalid account id")

	// ErrInvalidName reports an account name that is empty or numeric.
	ErrInvalidName = errors.New("invalid account name")

	// ErrDuplicateName reports a rename to a name already registered to
	// another account.
	ErrDuplicateName = errors.New("account name already in use")
)

// ParseAccountID parses the wire form of an account id: digits only, no
// sign, no leading zero, value strictly positive.
func ParseAccountID(s string) (AccountID, error) {
	if s == "" || s[0] == '0' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAccountID, s)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAccountID, s)
		}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAccountID, s)
	}
	return AccountID(v), nil
}

// isNumericName reports whether a candidate account name would be
// indistinguishable from an account id on the wire.
func isNumericName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// BoxZakat is the per-lot Zakat bookkeeping: how many epochs were paid,
// when the lot was last evaluated, and the cumulative amount paid from it.
type BoxZakat struct {
	Count int64     `json:"count"`
	Last  Timestamp `json:"last"`
	Total int64     `json:"total"`
}

// Box is a single lot of funds: a discrete deposit with its own remaining
// value, aged from its creation timestamp. Capital is fixed at creation
// except when an incoming transfer tops the lot back up above it. Rest may
// go negative to represent an overdraft lot.
type Box struct {
	Capital int64    `json:"capital"`
	Rest    int64    `json:"rest"`
	Zakat   BoxZakat `json:"zakat"`
}

// Log is one entry of an account's transaction history. Ref, when not
// zero, links the entry to the box it funded (used to trace zakat debits
// and incoming transfers). File holds attachment references.
type Log struct {
	Value int64                `json:"value"`
	Desc  string               `json:"desc"`
	Ref   Timestamp            `json:"ref,omitempty"`
	File  map[Timestamp]string `json:"file"`
}

// Account owns a balance, a box table (lots) and a log table (history).
// Balance is a cached sum: outside of an in-flight mutation it always
// equals the sum of all log values. Count is undo bookkeeping, not the
// log length.
type Account struct {
	Balance   int64                `json:"balance"`
	Created   Timestamp            `json:"created"`
	Name      string               `json:"name,omitempty"`
	Box       map[Timestamp]*Box   `json:"box"`
	Count     int64                `json:"count"`
	Log       map[Timestamp]*Log   `json:"log"`
	Exchange  map[Timestamp]*Rate  `json:"exchange"`
	Hide      bool                 `json:"hide"`
	Zakatable bool                 `json:"zakatable"`
}

// normalize replaces nil maps by empty ones after a field-by-field decode.
func (a *Account) normalize() {
	if a.Box == nil {
		a.Box = make(map[Timestamp]*Box)
	}
	if a.Log == nil {
		a.Log = make(map[Timestamp]*Log)
	}
	if a.Exchange == nil {
		a.Exchange = make(map[Timestamp]*Rate)
	}
	for _, l := range a.Log {
		if l.File == nil {
			l.File = make(map[Timestamp]string)
		}
	}
}

// nameRegistry allocates sequential account ids for named accounts and
// maps names and ids both ways.
type nameRegistry struct {
	LastID AccountID            `json:"last_account"`
	ByName map[string]AccountID `json:"by_name"`
	ByID   map[AccountID]string `json:"by_id"`
}

func (r *nameRegistry) normalize() {
	if r.ByName == nil {
		r.ByName = make(map[string]AccountID)
	}
	if r.ByID == nil {
		r.ByID = make(map[AccountID]string)
	}
}
