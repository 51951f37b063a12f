package zakat

import (
	"path/filepath"
	"testing"
)

func TestSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "zakat.json")

	v := New(path)
	mustTrack(t, v, Scale(100), 1, day(2022, 1, 1))
	if err := v.Save("", true); err != nil {
		t.Fatal(err)
	}
	if err := v.Snapshot(); err != nil {
		t.Fatal(err)
	}
	list := v.Snapshots(true)
	if len(list) != 1 {
		t.Fatalf("snapshots = %+v, want 1", list)
	}
	want, err := FileHash(path)
	if err != nil {
		t.Fatal(err)
	}
	if list[0].Hash != want {
		t.Errorf("hash = %s, want %s", list[0].Hash, want)
	}

	// Same content again is a no-op.
	if err := v.Snapshot(); err != nil {
		t.Fatal(err)
	}
	if got := len(v.Snapshots(true)); got != 1 {
		t.Errorf("snapshots after repeat = %d, want 1", got)
	}

	// New content gets its own copy.
	mustTrack(t, v, Scale(50), 1, day(2022, 2, 1))
	if err := v.Save("", true); err != nil {
		t.Fatal(err)
	}
	if err := v.Snapshot(); err != nil {
		t.Fatal(err)
	}
	if got := len(v.Snapshots(true)); got != 2 {
		t.Errorf("snapshots after change = %d, want 2", got)
	}
}

func TestSnapshotMemoryOnly(t *testing.T) {
	v := New("")
	if err := v.Snapshot(); err == nil {
		t.Error("snapshot of a memory-only vault must fail")
	}
}
