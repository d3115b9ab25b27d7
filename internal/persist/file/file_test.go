package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreGetSet(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")
	s, err := New(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, found, err := s.Get(ctx, "budgetTrackerTransactions"); found || err != nil {
		t.Fatalf("expected missing key, found=%v err=%v", found, err)
	}
	if err := s.Set(ctx, "budgetTrackerTransactions", "[]"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, "budgetTrackerTransactions", `[{"id":"1"}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, found, err := s.Get(ctx, "budgetTrackerTransactions")
	if err != nil || !found || v != `[{"id":"1"}]` {
		t.Fatalf("unexpected get: %q %v %v", v, found, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "budgetTrackerTransactions.json" {
		t.Fatalf("expected a single blob file, got %v", entries)
	}
}

func TestFileNameSanitizesKey(t *testing.T) {
	if got := fileName("../etc/passwd"); got != ".._etc_passwd.json" {
		t.Fatalf("unexpected file name %q", got)
	}
}

func TestFileStoreHonoursCancelledContext(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Set(ctx, "k", "v"); err == nil {
		t.Fatalf("expected error on cancelled context")
	}
}
