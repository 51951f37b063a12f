package zakat

import (
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"maps"
	"os"
	"slices"
)

// Vault is the whole bookkeeping state: the account store, the per-account
// exchange series, the lock-scoped history log and the zakat report cache.
// It is a single-writer, in-memory structure persisted as one snapshot
// file; the host supplies the storage location and drives Save/Load.
type Vault struct {
	clock    *Clock
	path     string
	accounts map[AccountID]*Account
	names    nameRegistry
	history  map[Timestamp]map[Timestamp]Entry
	lock     Timestamp
	reports  map[Timestamp]*Report
	pending  *Report

	// HistoryEnabled toggles action journaling. With journaling off,
	// Recall has nothing to replay.
	HistoryEnabled bool

	// AutoSave persists the vault to its path whenever an auto-acquired
	// session is released.
	AutoSave bool
}

// New creates an empty vault persisted at path ("" for memory only).
func New(path string) *Vault {
	v := &Vault{
		clock:          NewClock(),
		path:           path,
		HistoryEnabled: true,
	}
	v.reset()
	return v
}

// reset drops every account, rate, history session and cached report.
func (v *Vault) reset() {
	v.accounts = make(map[AccountID]*Account)
	v.names = nameRegistry{}
	v.names.normalize()
	v.history = make(map[Timestamp]map[Timestamp]Entry)
	v.lock = 0
	v.reports = make(map[Timestamp]*Report)
	v.pending = nil
}

// Path returns the snapshot file location this vault persists to.
func (v *Vault) Path() string { return v.path }

// Clock exposes the vault's identifier source.
func (v *Vault) Clock() *Clock { return v.clock }

// AccountExists reports whether the account is present in the store.
func (v *Vault) AccountExists(id AccountID) bool {
	_, ok := v.accounts[id]
	return ok
}

// BoxExists reports whether the account holds a box at ref.
func (v *Vault) BoxExists(id AccountID, ref Timestamp) bool {
	acc, ok := v.accounts[id]
	if !ok {
		return false
	}
	_, ok = acc.Box[ref]
	return ok
}

// LogExists reports whether the account holds a log entry at ref.
func (v *Vault) LogExists(id AccountID, ref Timestamp) bool {
	acc, ok := v.accounts[id]
	if !ok {
		return false
	}
	_, ok = acc.Log[ref]
	return ok
}

// Balance returns the account's balance. With cached true it returns the
// maintained sum; otherwise it recomputes the balance from the boxes'
// remaining values.
func (v *Vault) Balance(id AccountID, cached bool) int64 {
	acc, ok := v.accounts[id]
	if !ok {
		return 0
	}
	if cached {
		return acc.Balance
	}
	var sum int64
	for _, b := range acc.Box {
		sum += b.Rest
	}
	return sum
}

// BoxSize returns the number of boxes of an account, or -1 if the account
// does not exist.
func (v *Vault) BoxSize(id AccountID) int {
	acc, ok := v.accounts[id]
	if !ok {
		return -1
	}
	return len(acc.Box)
}

// LogSize returns the number of log entries of an account, or -1 if the
// account does not exist.
func (v *Vault) LogSize(id AccountID) int {
	acc, ok := v.accounts[id]
	if !ok {
		return -1
	}
	return len(acc.Log)
}

// Boxes returns the box table of an account (nil if unknown). The map is
// the live table: callers must treat it as read only.
func (v *Vault) Boxes(id AccountID) map[Timestamp]*Box {
	acc, ok := v.accounts[id]
	if !ok {
		return nil
	}
	return acc.Box
}

// Logs returns the log table of an account (nil if unknown). The map is
// the live table: callers must treat it as read only.
func (v *Vault) Logs(id AccountID) map[Timestamp]*Log {
	acc, ok := v.accounts[id]
	if !ok {
		return nil
	}
	return acc.Log
}

// Accounts iterates account ids in ascending order with their cached
// balances.
func (v *Vault) Accounts() iter.Seq2[AccountID, int64] {
	return func(yield func(AccountID, int64) bool) {
		ids := slices.Collect(maps.Keys(v.accounts))
		slices.Sort(ids)
		for _, id := range ids {
			if !yield(id, v.accounts[id].Balance) {
				return
			}
		}
	}
}

// Hide returns the hide flag of an account, optionally setting it first.
// Unknown accounts report false.
func (v *Vault) Hide(id AccountID, status ...bool) bool {
	acc, ok := v.accounts[id]
	if !ok {
		return false
	}
	if len(status) > 0 {
		acc.Hide = status[0]
	}
	return acc.Hide
}

// Zakatable returns the zakatable flag of an account, optionally setting
// it first. Unknown accounts report false.
func (v *Vault) Zakatable(id AccountID, status ...bool) bool {
	acc, ok := v.accounts[id]
	if !ok {
		return false
	}
	if len(status) > 0 {
		acc.Zakatable = status[0]
	}
	return acc.Zakatable
}

// Name returns the registered name of an account, or "".
func (v *Vault) Name(id AccountID) string {
	acc, ok := v.accounts[id]
	if !ok {
		return ""
	}
	return acc.Name
}

// AccountByName resolves a registered name to its account id.
func (v *Vault) AccountByName(name string) (AccountID, bool) {
	id, ok := v.names.ByName[name]
	return id, ok
}

// Account returns the id registered for name, allocating a fresh account
// (next sequential id, created with a CREATE history entry) when the name
// is unknown. Names must be non-empty and non-numeric so that they can
// never be confused with a wire-form account id.
func (v *Vault) Account(name string) (AccountID, error) {
	if name == "" || isNumericName(name) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if id, ok := v.names.ByName[name]; ok {
		return id, nil
	}
	token, owned := v.begin()
	id := v.names.LastID + 1
	v.names.LastID = id
	v.setName(id, name)
	v.end(token, owned)
	return id, nil
}

// Rename registers a new name for an existing id, releasing the id's
// previous name. The prior name travels in the history entry so that
// Recall can restore it.
func (v *Vault) Rename(id AccountID, name string) error {
	if name == "" || isNumericName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if _, used := v.names.ByName[name]; used {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	if _, ok := v.accounts[id]; !ok {
		return fmt.Errorf("%w: %d", ErrInvalidAccountID, id)
	}
	token, owned := v.begin()
	if old, ok := v.names.ByID[id]; ok {
		delete(v.names.ByID, id)
		delete(v.names.ByName, old)
	}
	v.setName(id, name)
	v.end(token, owned)
	return nil
}

// setName binds a name to an id and records the NAME action. Must run
// inside a session.
func (v *Vault) setName(id AccountID, name string) {
	acc := v.ensureAccount(id)
	v.record(Entry{
		Action:  ActionName,
		Account: id,
		Key:     "name",
		Text:    acc.Name,
		Math:    MathEqual,
	})
	acc.Name = name
	v.names.ByName[name] = id
	v.names.ByID[id] = name
}

// Names returns a copy of the name to id registry.
func (v *Vault) Names() map[string]AccountID {
	return maps.Clone(v.names.ByName)
}

// Steps returns a copy of the history journal, session by session.
func (v *Vault) Steps() map[Timestamp]map[Timestamp]Entry {
	out := make(map[Timestamp]map[Timestamp]Entry, len(v.history))
	for session, bucket := range v.history {
		out[session] = maps.Clone(bucket)
	}
	return out
}

// Pending returns the currently cached zakat report, or nil.
func (v *Vault) Pending() *Report { return v.pending }

// Reports returns the committed zakat reports keyed by commit time.
func (v *Vault) Reports() map[Timestamp]*Report { return maps.Clone(v.reports) }

// Stats reports the size of the snapshot file on disk.
func (v *Vault) Stats() (size int64, err error) {
	info, err := os.Stat(v.path)
	if err != nil {
		return 0, fmt.Errorf("cannot stat database %q: %w", v.path, err)
	}
	return info.Size(), nil
}

// ExportJSON writes an indented JSON dump of the whole vault state.
func (v *Vault) ExportJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v.file())
}
