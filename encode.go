package zakat

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"
)

// This file persists the whole vault as one JSON snapshot file. The
// snapshot ends with a hash marker line so a tampered or truncated file
// is detected on load rather than silently producing wrong balances.
//
// The overall strategy is:
//   Save: marshal the vault into one JSON document, append the marker
//         and the blake2b-256 hex digest of the document, then write to
//         a temp file and rename it over the target so a crash mid-write
//         never leaves a half-written database.
//   Load: split the file on the last marker, verify the digest against
//         the document bytes, unmarshal and normalize.

// hashMarker separates the JSON document from its trailing digest.
const hashMarker = "##"

var (
	// ErrHashMismatch reports a snapshot whose content does not match its
	// recorded digest.
	ErrHashMismatch = fmt.Errorf("database content does not match its hash")

	// ErrNoHash reports a snapshot missing the digest marker when one was
	// required.
	ErrNoHash = fmt.Errorf("database has no hash marker")
)

// vaultFile is the serialized form of a Vault.
type vaultFile struct {
	Accounts map[AccountID]*Account         `json:"account"`
	Names    nameRegistry                   `json:"name"`
	History  map[Timestamp]map[Timestamp]Entry `json:"history"`
	Lock     Timestamp                      `json:"lock,omitempty"`
	Reports  map[Timestamp]*Report          `json:"report"`
	Pending  *Report                        `json:"pending,omitempty"`
}

func (v *Vault) file() vaultFile {
	return vaultFile{
		Accounts: v.accounts,
		Names:    v.names,
		History:  v.history,
		Lock:     v.lock,
		Reports:  v.reports,
		Pending:  v.pending,
	}
}

// restore replaces the vault state with a decoded snapshot.
func (v *Vault) restore(f vaultFile) {
	v.reset()
	if f.Accounts != nil {
		v.accounts = f.Accounts
	}
	for _, acc := range v.accounts {
		acc.normalize()
	}
	v.names = f.Names
	v.names.normalize()
	if f.History != nil {
		v.history = f.History
	}
	v.lock = f.Lock
	if f.Reports != nil {
		v.reports = f.Reports
	}
	v.pending = f.Pending
}

// snapshotBytes renders the on-disk form: the JSON document followed by
// the marker and the document's blake2b-256 digest.
func (v *Vault) snapshotBytes(hashed bool) ([]byte, error) {
	doc, err := json.Marshal(v.file())
	if err != nil {
		return nil, fmt.Errorf("persist error: cannot marshal database: %w", err)
	}
	if !hashed {
		return doc, nil
	}
	sum := blake2b.Sum256(doc)
	var buf bytes.Buffer
	buf.Write(doc)
	buf.WriteString(hashMarker)
	buf.WriteString(hex.EncodeToString(sum[:]))
	return buf.Bytes(), nil
}

// Save persists the vault to path as a hash-stamped snapshot, atomically
// replacing any previous file. An empty path falls back to the vault's
// own path; a vault with no path at all is memory only and Save is a
// no-op.
func (v *Vault) Save(path string, hashed bool) error {
	if path == "" {
		path = v.path
	}
	if path == "" {
		return nil
	}
	data, err := v.snapshotBytes(hashed)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("persist error: cannot create folder %q: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("persist error: cannot create temp file in %q: %w", dir, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("persist error: cannot write %q: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("persist error: cannot close %q: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("persist error: cannot replace %q: %w", path, err)
	}
	log.Printf("save-database name=%q bytes=%d", path, len(data))
	return nil
}

// decodeSnapshot splits raw on its last hash marker, verifies the digest
// when present and returns the decoded file. verify makes a missing
// marker an error instead of a plain-JSON fallback.
func decodeSnapshot(raw []byte, verify bool) (vaultFile, error) {
	var f vaultFile
	doc := raw
	if i := bytes.LastIndex(raw, []byte(hashMarker)); i >= 0 {
		doc = raw[:i]
		want := string(raw[i+len(hashMarker):])
		sum := blake2b.Sum256(doc)
		if hex.EncodeToString(sum[:]) != want {
			return f, ErrHashMismatch
		}
	} else if verify {
		return f, ErrNoHash
	}
	if err := json.Unmarshal(doc, &f); err != nil {
		return f, fmt.Errorf("load error: cannot parse database: %w", err)
	}
	return f, nil
}

// Load reads a snapshot from path into the vault, replacing its state.
// An empty path falls back to the vault's own path. A missing file
// leaves the vault empty, which is how a fresh database starts.
// hashRequired makes a snapshot without a hash marker an error instead
// of a plain-JSON fallback.
func (v *Vault) Load(path string, hashRequired bool) error {
	if path == "" {
		path = v.path
	}
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Println("warning, database does not exist, starting with an empty one")
			v.reset()
			return nil
		}
		return fmt.Errorf("load error: cannot open database %q: %w", path, err)
	}
	f, err := decodeSnapshot(raw, hashRequired)
	if err != nil {
		return fmt.Errorf("load error: %q: %w", path, err)
	}
	v.restore(f)
	return nil
}

// Open creates a vault bound to path and loads its snapshot when one
// exists. The hash marker is verified when present but not demanded, so
// a plain JSON export still opens.
func Open(path string) (*Vault, error) {
	v := New(path)
	if err := v.Load(path, false); err != nil {
		return nil, err
	}
	return v, nil
}
