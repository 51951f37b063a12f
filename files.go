package zakat

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSuchLog reports a file operation against a log entry that does
	// not exist.
	ErrNoSuchLog = errors.New("no such log entry")

	// ErrNoSuchFile reports a removal of a path never attached to the log
	// entry.
	ErrNoSuchFile = errors.New("no such file reference")
)

// AddFile attaches a file path to an existing log entry and returns the
// timestamp the attachment is keyed by.
func (v *Vault) AddFile(account AccountID, log Timestamp, path string) (Timestamp, error) {
	acc, ok := v.accounts[account]
	if !ok {
		return 0, fmt.Errorf("%w: account %d log %d", ErrNoSuchLog, account, log)
	}
	lg, ok := acc.Log[log]
	if !ok {
		return 0, fmt.Errorf("%w: account %d log %d", ErrNoSuchLog, account, log)
	}
	token, owned := v.begin()
	defer v.end(token, owned)
	ref := v.clock.Now()
	lg.File[ref] = path
	v.record(Entry{Action: ActionAddFile, Account: account, Ref: log, File: ref})
	return ref, nil
}

// RemoveFile detaches a previously attached file reference from a log
// entry.
func (v *Vault) RemoveFile(account AccountID, log Timestamp, ref Timestamp) error {
	acc, ok := v.accounts[account]
	if !ok {
		return fmt.Errorf("%w: account %d log %d", ErrNoSuchLog, account, log)
	}
	lg, ok := acc.Log[log]
	if !ok {
		return fmt.Errorf("%w: account %d log %d", ErrNoSuchLog, account, log)
	}
	path, ok := lg.File[ref]
	if !ok {
		return fmt.Errorf("%w: account %d log %d file %d", ErrNoSuchFile, account, log, ref)
	}
	token, owned := v.begin()
	defer v.end(token, owned)
	delete(lg.File, ref)
	v.record(Entry{Action: ActionRemoveFile, Account: account, Ref: log, File: ref, Text: path})
	return nil
}
