package zakat

import (
	"errors"
	"testing"
)

func TestAddRemoveFile(t *testing.T) {
	v := newTestVault(t)
	log := mustTrack(t, v, 100, 1, day(2022, 1, 1))

	ref, err := v.AddFile(1, log, "receipt.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if got := v.Logs(1)[log].File[ref]; got != "receipt.pdf" {
		t.Errorf("attachment = %q, want receipt.pdf", got)
	}

	if err := v.RemoveFile(1, log, ref); err != nil {
		t.Fatal(err)
	}
	if len(v.Logs(1)[log].File) != 0 {
		t.Error("attachment must be gone")
	}
	if err := v.RemoveFile(1, log, ref); !errors.Is(err, ErrNoSuchFile) {
		t.Errorf("err = %v, want ErrNoSuchFile", err)
	}
}

func TestAddFileUnknownLog(t *testing.T) {
	v := newTestVault(t)
	if _, err := v.AddFile(1, 42, "x"); !errors.Is(err, ErrNoSuchLog) {
		t.Errorf("err = %v, want ErrNoSuchLog", err)
	}
}

func TestRecallUndoesFileOps(t *testing.T) {
	v := newTestVault(t)
	log := mustTrack(t, v, 100, 1, day(2022, 1, 1))

	ref, err := v.AddFile(1, log, "receipt.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if err := v.RemoveFile(1, log, ref); err != nil {
		t.Fatal(err)
	}
	// Undo the removal: the attachment comes back with its path.
	if !v.Recall(false) {
		t.Fatal("Recall returned false")
	}
	if got := v.Logs(1)[log].File[ref]; got != "receipt.pdf" {
		t.Errorf("attachment after recall = %q, want receipt.pdf", got)
	}
	// Undo the addition.
	if !v.Recall(false) {
		t.Fatal("Recall returned false")
	}
	if len(v.Logs(1)[log].File) != 0 {
		t.Error("attachment must be gone after undoing the addition")
	}
}
