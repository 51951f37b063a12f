package zakat

import (
	"fmt"
	"maps"
	"slices"
)

// Action identifies the kind of a recorded mutation.
type Action uint8

const (
	ActionCreate Action = iota + 1
	ActionName
	ActionTrack
	ActionLog
	ActionSubtract
	ActionAddFile
	ActionRemoveFile
	ActionBoxTransfer
	ActionExchange
	ActionReport
	ActionZakat
)

var actionNames = map[Action]string{
	ActionCreate:      "CREATE",
	ActionName:        "NAME",
	ActionTrack:       "TRACK",
	ActionLog:         "LOG",
	ActionSubtract:    "SUBTRACT",
	ActionAddFile:     "ADD_FILE",
	ActionRemoveFile:  "REMOVE_FILE",
	ActionBoxTransfer: "BOX_TRANSFER",
	ActionExchange:    "EXCHANGE",
	ActionReport:      "REPORT",
	ActionZakat:       "ZAKAT",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return fmt.Sprintf("Action(%d)", uint8(a))
}

func (a Action) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Action) UnmarshalText(b []byte) error {
	for k, s := range actionNames {
		if s == string(b) {
			*a = k
			return nil
		}
	}
	return fmt.Errorf("unknown action %q", b)
}

// MathOp tags how a ZAKAT entry mutated a box field, so that Recall can
// invert it.
type MathOp uint8

const (
	MathNone MathOp = iota
	MathAdd
	MathEqual
	MathSub
)

var mathNames = map[MathOp]string{
	MathAdd:   "ADD",
	MathEqual: "EQUAL",
	MathSub:   "SUB",
}

func (m MathOp) String() string {
	if s, ok := mathNames[m]; ok {
		return s
	}
	return ""
}

func (m MathOp) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *MathOp) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*m = MathNone
		return nil
	}
	for k, s := range mathNames {
		if s == string(b) {
			*m = k
			return nil
		}
	}
	return fmt.Errorf("unknown math operation %q", b)
}

// Entry is one recorded action in a lock session. The schema is fixed:
// each action kind uses exactly the fields it needs (Value for scaled
// amounts, counts or prior timestamps; Rate for exchange rates; Text for
// prior names and removed file paths).
type Entry struct {
	Action  Action    `json:"action"`
	Account AccountID `json:"account,omitempty"`
	Ref     Timestamp `json:"ref,omitempty"`
	File    Timestamp `json:"file,omitempty"`
	Key     string    `json:"key,omitempty"`
	Value   int64     `json:"value,omitempty"`
	Rate    float64   `json:"rate,omitempty"`
	Text    string    `json:"text,omitempty"`
	Math    MathOp    `json:"math,omitempty"`
}

// Locked reports whether a mutation session is currently open.
func (v *Vault) Locked() bool { return v.lock != 0 }

// Lock opens an exclusive mutation session and returns its token. Every
// mutation recorded until the matching Free call belongs to this session
// and is undone as one unit by Recall. Opening a second session while one
// is held is a programming error and panics.
func (v *Vault) Lock() Timestamp {
	if v.lock != 0 {
		panic("zakat: lock already held")
	}
	v.lock = v.clock.Now()
	if v.HistoryEnabled {
		v.history[v.lock] = make(map[Timestamp]Entry)
	}
	return v.lock
}

// Free releases the session identified by token. It returns false, with
// no side effects, when the token does not match the current lock. An
// empty session bucket is dropped. When save is true the vault is
// persisted to its path after release.
func (v *Vault) Free(token Timestamp, save bool) bool {
	if token == 0 || token != v.lock {
		return false
	}
	if bucket, ok := v.history[token]; ok && len(bucket) == 0 {
		delete(v.history, token)
	}
	v.lock = 0
	if save && v.path != "" {
		return v.Save(v.path, true) == nil
	}
	return true
}

// begin folds into the caller's open session, or opens a fresh one when
// none is held. owned reports whether the caller of begin must release it.
func (v *Vault) begin() (token Timestamp, owned bool) {
	if v.lock != 0 {
		return v.lock, false
	}
	return v.Lock(), true
}

// end releases a session acquired by begin.
func (v *Vault) end(token Timestamp, owned bool) {
	if owned {
		v.Free(token, v.AutoSave)
	}
}

// record appends one entry to the current session's bucket, keyed by a
// fresh clock value. Recording requires an open session.
func (v *Vault) record(e Entry) {
	if !v.HistoryEnabled {
		return
	}
	if v.lock == 0 {
		panic("zakat: record without an open session")
	}
	bucket, ok := v.history[v.lock]
	if !ok {
		bucket = make(map[Timestamp]Entry)
		v.history[v.lock] = bucket
	}
	bucket[v.clock.Now()] = e
}

// CleanHistory removes empty session buckets and returns how many were
// dropped.
func (v *Vault) CleanHistory() int {
	count := 0
	for session, bucket := range v.history {
		if len(bucket) == 0 {
			delete(v.history, session)
			count++
		}
	}
	return count
}

// Recall reverse-applies the most recently opened session: entries replay
// in descending key order, each one undoing its forward action. It
// requires that no lock is held. With dry true only the consistency walk
// runs and nothing is mutated. On a wet run the session is deleted.
// Recall returns false when there is nothing to undo.
//
// A referenced entity that no longer exists makes that step a no-op; a
// shape violation (undoing CREATE on a non-empty account, or a log whose
// box funding value is not negative) is a corrupted-state panic.
func (v *Vault) Recall(dry bool) bool {
	if v.lock != 0 || len(v.history) == 0 {
		return false
	}
	session := slices.Max(slices.Collect(maps.Keys(v.history)))
	bucket := v.history[session]
	keys := slices.Collect(maps.Keys(bucket))
	slices.Sort(keys)
	slices.Reverse(keys)

	// One-shot coupling between a SUBTRACT undo and the LOG undo that
	// follows it: the restored chunk decides whether the log's count
	// increment is rolled back here or by the box-funding path.
	var subCoupling int64

	for _, key := range keys {
		e := bucket[key]
		switch e.Action {
		case ActionCreate:
			acc, ok := v.accounts[e.Account]
			if !ok {
				continue
			}
			if len(acc.Box) != 0 || acc.Balance != 0 || acc.Count != 0 {
				panic(fmt.Sprintf("zakat: recall CREATE on non-empty account %d", e.Account))
			}
			if dry {
				continue
			}
			delete(v.accounts, e.Account)

		case ActionName:
			acc, ok := v.accounts[e.Account]
			if !ok {
				continue
			}
			if dry {
				continue
			}
			if e.Math == MathEqual {
				acc.Name = e.Text
			}

		case ActionTrack:
			acc, ok := v.accounts[e.Account]
			if !ok {
				continue
			}
			if dry {
				continue
			}
			acc.Balance -= e.Value
			acc.Count--
			delete(acc.Box, e.Ref)

		case ActionLog:
			acc, ok := v.accounts[e.Account]
			if !ok {
				continue
			}
			lg, ok := acc.Log[e.Ref]
			if !ok {
				continue
			}
			if dry {
				continue
			}
			if subCoupling == -e.Value {
				acc.Count--
				subCoupling = 0
			}
			if lg.Ref != 0 {
				box, ok := acc.Box[lg.Ref]
				if !ok {
					panic(fmt.Sprintf("zakat: recall LOG %d references missing box %d", e.Ref, lg.Ref))
				}
				if lg.Value >= 0 {
					panic(fmt.Sprintf("zakat: recall LOG %d funding value %d is not negative", e.Ref, lg.Value))
				}
				box.Rest += -lg.Value
				acc.Balance += -lg.Value
				acc.Count--
			}
			delete(acc.Log, e.Ref)

		case ActionSubtract:
			acc, ok := v.accounts[e.Account]
			if !ok {
				continue
			}
			box, ok := acc.Box[e.Ref]
			if !ok {
				continue
			}
			if dry {
				continue
			}
			box.Rest += e.Value
			acc.Balance += e.Value
			subCoupling = e.Value

		case ActionAddFile:
			acc, ok := v.accounts[e.Account]
			if !ok {
				continue
			}
			lg, ok := acc.Log[e.Ref]
			if !ok {
				continue
			}
			if _, ok := lg.File[e.File]; !ok {
				continue
			}
			if dry {
				continue
			}
			delete(lg.File, e.File)

		case ActionRemoveFile:
			acc, ok := v.accounts[e.Account]
			if !ok {
				continue
			}
			lg, ok := acc.Log[e.Ref]
			if !ok {
				continue
			}
			if dry {
				continue
			}
			lg.File[e.File] = e.Text

		case ActionBoxTransfer:
			acc, ok := v.accounts[e.Account]
			if !ok {
				continue
			}
			box, ok := acc.Box[e.Ref]
			if !ok {
				continue
			}
			if dry {
				continue
			}
			box.Rest -= e.Value

		case ActionExchange:
			acc, ok := v.accounts[e.Account]
			if !ok {
				continue
			}
			if _, ok := acc.Exchange[e.Ref]; !ok {
				continue
			}
			if dry {
				continue
			}
			delete(acc.Exchange, e.Ref)

		case ActionReport:
			if _, ok := v.reports[e.Ref]; !ok {
				continue
			}
			if dry {
				continue
			}
			delete(v.reports, e.Ref)

		case ActionZakat:
			acc, ok := v.accounts[e.Account]
			if !ok {
				continue
			}
			box, ok := acc.Box[e.Ref]
			if !ok {
				continue
			}
			if dry {
				continue
			}
			undoZakatField(box, e)
		}
	}

	if !dry {
		delete(v.history, session)
	}
	return true
}

// undoZakatField inverts one math-logged mutation of a box's zakat
// bookkeeping field.
func undoZakatField(box *Box, e Entry) {
	apply := func(field *int64) {
		switch e.Math {
		case MathAdd:
			*field -= e.Value
		case MathEqual:
			*field = e.Value
		case MathSub:
			*field += e.Value
		}
	}
	switch e.Key {
	case "last":
		last := int64(box.Zakat.Last)
		apply(&last)
		box.Zakat.Last = Timestamp(last)
	case "total":
		apply(&box.Zakat.Total)
	case "count":
		apply(&box.Zakat.Count)
	}
}
