package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"budget/internal/log"
	"budget/internal/persist"
)

// Dialect holds the driver name and the statements that differ between
// database engines.
type Dialect struct {
	Name       string
	DriverName string
	getSQL     string
	upsertSQL  string
}

var (
	SQLite = Dialect{
		Name:       "sqlite",
		DriverName: "sqlite",
		getSQL:     `SELECT value FROM blobs WHERE key = ?`,
		upsertSQL: `INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
	}
	Postgres = Dialect{
		Name:       "postgres",
		DriverName: "postgres",
		getSQL:     `SELECT value FROM blobs WHERE key = $1`,
		upsertSQL: `INSERT INTO blobs (key, value, updated_at) VALUES ($1, $2, $3)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
	}
)

var _ persist.BlobStore = (*BlobRepository)(nil)

// BlobRepository stores blobs in a single key/value table.
type BlobRepository struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLiteRepository opens (and creates if needed) the SQLite database at
// dbPath and applies migrations.
func NewSQLiteRepository(dbPath string) (*BlobRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	return open(SQLite, dbPath)
}

// NewPostgresRepository connects to PostgreSQL with the given DSN and applies
// migrations.
func NewPostgresRepository(dsn string) (*BlobRepository, error) {
	return open(Postgres, dsn)
}

func open(d Dialect, dsn string) (*BlobRepository, error) {
	db, err := sql.Open(d.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", d.Name, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(d, dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &BlobRepository{db: db, dialect: d}, nil
}

func (r *BlobRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Get implements persist.BlobStore
func (r *BlobRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, r.dialect.getSQL, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get blob %q: %w", key, err)
	}
	return value, true, nil
}

// Set implements persist.BlobStore
func (r *BlobRepository) Set(ctx context.Context, key, value string) error {
	if _, err := r.db.ExecContext(ctx, r.dialect.upsertSQL, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert blob %q: %w", key, err)
	}

	slog.DebugContext(ctx, "Blob saved",
		log.FieldComponent, log.ComponentStorage,
		"dialect", r.dialect.Name,
		"key", key,
		"bytes", len(value))

	return nil
}
