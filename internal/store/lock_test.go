package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAcquireInstanceLockBlocksSecondHolder(t *testing.T) {
	dir := t.TempDir()

	lock, err := AcquireInstanceLock(dir)
	if err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}

	if _, err := AcquireInstanceLock(dir); err == nil {
		t.Fatal("second acquire should fail while lock is held")
	} else if !strings.Contains(err.Error(), "already running") {
		t.Fatalf("unexpected error message: %v", err)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	lock2, err := AcquireInstanceLock(dir)
	if err != nil {
		t.Fatalf("acquire after release failed: %v", err)
	}
	if err := lock2.Release(); err != nil {
		t.Fatalf("second release failed: %v", err)
	}
}

func TestAcquireInstanceLockWritesOwner(t *testing.T) {
	dir := t.TempDir()
	lock, err := AcquireInstanceLock(dir)
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	defer func() {
		_ = lock.Release()
	}()

	var owner lockOwner
	if err := ReadJSON(filepath.Join(dir, lockDirName, lockOwnerFile), &owner); err != nil {
		t.Fatalf("read owner failed: %v", err)
	}
	if owner.PID != os.Getpid() {
		t.Fatalf("owner pid mismatch: got %d want %d", owner.PID, os.Getpid())
	}
	if owner.CreatedAt == "" {
		t.Fatal("owner created_at is empty")
	}
}

func TestAcquireInstanceLockRequiresDir(t *testing.T) {
	if _, err := AcquireInstanceLock("  "); err == nil {
		t.Fatal("expected error for blank data directory")
	}
}

func TestWriteJSONAtomicRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	if err := WriteJSON(path, payload{Name: "x", Count: 3}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	var got payload
	if err := ReadJSON(path, &got); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if got.Name != "x" || got.Count != 3 {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".ymf-tmp-") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}
