package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func exerciseRepository(t *testing.T, repo *BlobRepository) {
	t.Helper()
	ctx := context.Background()

	if _, found, err := repo.Get(ctx, "missing"); found || err != nil {
		t.Fatalf("expected missing key, found=%v err=%v", found, err)
	}
	if err := repo.Set(ctx, "budgetTrackerTransactions", "[]"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Set(ctx, "budgetTrackerTransactions", `[{"id":"1"}]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, found, err := repo.Get(ctx, "budgetTrackerTransactions")
	if err != nil || !found || v != `[{"id":"1"}]` {
		t.Fatalf("unexpected get: %q %v %v", v, found, err)
	}
}

func TestSQLiteRepository(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "data", "budget.db")
	repo, err := NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer repo.Close()

	exerciseRepository(t, repo)
}

func TestSQLiteRepositoryReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "budget.db")
	repo, err := NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := repo.Set(context.Background(), "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	repo.Close()

	// Migrations must be a no-op the second time around.
	repo, err = NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer repo.Close()
	if v, found, err := repo.Get(context.Background(), "k"); err != nil || !found || v != "v" {
		t.Fatalf("value lost across reopen: %q %v %v", v, found, err)
	}
}

// Requires a PostgreSQL server; set POSTGRES_TEST_DSN to enable.
func TestPostgresRepository(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set, skipping postgres test")
	}
	repo, err := NewPostgresRepository(dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer repo.Close()

	exerciseRepository(t, repo)
}
