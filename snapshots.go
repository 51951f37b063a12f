package zakat

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Snapshots are content-addressed copies of the database file, kept in a
// folder next to it. Taking a snapshot of an unchanged database is a
// no-op: the content digest is the snapshot's identity, so the same
// state is never copied twice. A small JSON cache maps digests to the
// copies so listing does not re-hash every file.

const snapshotCacheFilename = "snapshots.json"

// FileHash returns the blake2b-256 hex digest of a file's content.
func FileHash(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("cannot read %q: %w", path, err)
	}
	sum := blake2b.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// snapshotDir is the folder holding the snapshot copies and their cache.
func (v *Vault) snapshotDir() string {
	return filepath.Join(filepath.Dir(v.path), "snapshots")
}

func (v *Vault) loadSnapshotCache() map[string]string {
	cache := make(map[string]string)
	raw, err := os.ReadFile(filepath.Join(v.snapshotDir(), snapshotCacheFilename))
	if err != nil {
		return cache
	}
	// A corrupt cache only costs a re-hash, ignore it.
	_ = json.Unmarshal(raw, &cache)
	return cache
}

func (v *Vault) saveSnapshotCache(cache map[string]string) error {
	raw, err := json.Marshal(cache)
	if err != nil {
		return fmt.Errorf("persist error: cannot marshal snapshot cache: %w", err)
	}
	path := filepath.Join(v.snapshotDir(), snapshotCacheFilename)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("persist error: cannot write %q: %w", path, err)
	}
	return nil
}

// Snapshot copies the current database file into the snapshot folder
// under its content digest. The database must have been saved first; a
// state already snapshotted is skipped.
func (v *Vault) Snapshot() error {
	if v.path == "" {
		return fmt.Errorf("cannot snapshot a memory-only database")
	}
	digest, err := FileHash(v.path)
	if err != nil {
		return err
	}
	cache := v.loadSnapshotCache()
	if target, ok := cache[digest]; ok {
		if _, err := os.Stat(target); err == nil {
			return nil
		}
	}
	dir := v.snapshotDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("persist error: cannot create folder %q: %w", dir, err)
	}
	raw, err := os.ReadFile(v.path)
	if err != nil {
		return fmt.Errorf("cannot read %q: %w", v.path, err)
	}
	target := filepath.Join(dir, digest+filepath.Ext(v.path))
	if err := os.WriteFile(target, raw, 0o644); err != nil {
		return fmt.Errorf("persist error: cannot write %q: %w", target, err)
	}
	log.Printf("create-snapshot-file name=%q", target)
	cache[digest] = target
	return v.saveSnapshotCache(cache)
}

// SnapshotInfo describes one stored snapshot.
type SnapshotInfo struct {
	Hash   string
	Path   string
	Exists bool
}

// Snapshots lists the known snapshots from the cache, flagging copies
// whose file has gone missing. With hideMissing set, those are dropped
// from the result.
func (v *Vault) Snapshots(hideMissing bool) []SnapshotInfo {
	cache := v.loadSnapshotCache()
	var list []SnapshotInfo
	for digest, path := range cache {
		_, err := os.Stat(path)
		info := SnapshotInfo{Hash: digest, Path: path, Exists: err == nil}
		if hideMissing && !info.Exists {
			continue
		}
		list = append(list, info)
	}
	slices.SortFunc(list, func(a, b SnapshotInfo) int {
		return strings.Compare(a.Hash, b.Hash)
	})
	return list
}
