// Package persist serializes the ledger to a single blob and back.
package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"budget/internal/core"
	"budget/internal/log"
)

// DefaultKey is the key the original browser application stored its list under.
const DefaultKey = "budgetTrackerTransactions"

// Adapter writes full snapshots of the transaction list under a fixed key.
type Adapter struct {
	blobs  BlobStore
	key    string
	logger *slog.Logger
}

func NewAdapter(blobs BlobStore, key string, logger *slog.Logger) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		blobs:  blobs,
		key:    key,
		logger: logger.With(log.FieldComponent, log.ComponentPersist),
	}
}

// Key returns the blob key used for snapshots.
func (a *Adapter) Key() string {
	return a.key
}

// Save replaces the stored snapshot with records.
func (a *Adapter) Save(ctx context.Context, records []core.Transaction) error {
	if records == nil {
		records = []core.Transaction{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal transactions: %w", err)
	}
	if err := a.blobs.Set(ctx, a.key, string(data)); err != nil {
		return fmt.Errorf("write snapshot %q: %w", a.key, err)
	}
	a.logger.DebugContext(ctx, "Snapshot saved", "key", a.key, "count", len(records), "bytes", len(data))
	return nil
}

// Load returns the stored snapshot. A missing, unreadable or malformed blob
// yields an empty list; the latter two are logged as warnings.
func (a *Adapter) Load(ctx context.Context) []core.Transaction {
	raw, found, err := a.blobs.Get(ctx, a.key)
	if err != nil {
		a.logger.WarnContext(ctx, "Snapshot read failed, starting empty",
			"key", a.key, log.FieldError, err, log.FieldErrorType, log.ErrorTypeDatabase)
		return []core.Transaction{}
	}
	if !found || raw == "" {
		return []core.Transaction{}
	}

	var records []core.Transaction
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		a.logger.WarnContext(ctx, "Snapshot malformed, starting empty",
			"key", a.key, "bytes", len(raw), log.FieldError, err, log.FieldErrorType, log.ErrorTypeValidation)
		return []core.Transaction{}
	}
	if records == nil {
		records = []core.Transaction{}
	}
	a.logger.InfoContext(ctx, "Snapshot loaded", "key", a.key, "count", len(records))
	return records
}
