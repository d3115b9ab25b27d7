// Package services composes the ledger, its persistence and change events.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"budget/internal/amqp"
	"budget/internal/cache"
	"budget/internal/core"
	"budget/internal/export"
	"budget/internal/ledger"
	"budget/internal/log"
	"budget/internal/persist"
)

var ErrNotFound = errors.New("transaction not found")

// Publisher announces ledger changes. *amqp.Client satisfies it.
type Publisher interface {
	PublishTransactionEvent(ctx context.Context, op amqp.Op, id string) error
}

// Summary is the dashboard and chart data for one filtered view.
type Summary struct {
	Totals    core.Totals           `json:"totals"`
	Formatted ledger.TotalsView     `json:"formatted"`
	Series    []core.CategoryAmount `json:"series"`
	Breakdown map[string]core.Money `json:"breakdown"`
	Count     int                   `json:"count"`
}

// LedgerService applies a mutation to the store, saves the full snapshot,
// drops cached summaries and publishes an event, in that order. A failed
// save leaves the store as it was.
type LedgerService struct {
	mu         sync.Mutex
	store      *ledger.Store
	adapter    *persist.Adapter
	publisher  Publisher
	summaries  cache.Cache[Summary]
	// generation counts committed mutations; a summary computed under an
	// older generation is not cached.
	generation uint64
	symbol     string
	logger     *slog.Logger
}

// Option configures a LedgerService.
type Option func(*LedgerService)

// WithCurrencySymbol sets the symbol used for formatted amounts.
func WithCurrencySymbol(symbol string) Option {
	return func(s *LedgerService) { s.symbol = symbol }
}

// WithLogger overrides the default slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *LedgerService) { s.logger = logger }
}

// NewLedgerService wires the collaborators. publisher and summaries may be nil.
func NewLedgerService(store *ledger.Store, adapter *persist.Adapter, publisher Publisher, summaries cache.Cache[Summary], opts ...Option) *LedgerService {
	s := &LedgerService{
		store:     store,
		adapter:   adapter,
		publisher: publisher,
		summaries: summaries,
		symbol:    "$",
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(log.FieldComponent, log.ComponentLedger)
	return s
}

// Start loads the persisted snapshot into the store.
func (s *LedgerService) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Replace(s.adapter.Load(ctx))
	s.invalidate()
	s.logger.InfoContext(ctx, "Ledger loaded", log.FieldRecordCount, s.store.Len(), "key", s.adapter.Key())
}

// CurrencySymbol returns the symbol used for formatted amounts.
func (s *LedgerService) CurrencySymbol() string {
	return s.symbol
}

// Add validates and inserts t, returning the id it was stored under.
func (s *LedgerService) Add(ctx context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", fmt.Errorf("validate transaction: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.store.List()
	id := s.store.Add(t)
	if err := s.save(ctx, prev); err != nil {
		return "", err
	}
	s.logger.InfoContext(ctx, "Transaction added",
		log.NewFields().WithOperation(log.OpCreate).
			WithTransaction(id, string(t.Type), t.Amount.String(), t.Category, t.Date.String()).
			ToSlice()...)
	s.afterMutation(ctx, amqp.OpCreate, id)
	return id, nil
}

// Update replaces the record stored under id.
func (s *LedgerService) Update(ctx context.Context, id string, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.store.List()
	if !s.store.Update(id, t) {
		return fmt.Errorf("update %q: %w", id, ErrNotFound)
	}
	if err := s.save(ctx, prev); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Transaction updated", log.FieldOperation, log.OpUpdate, log.FieldTxID, id)
	s.afterMutation(ctx, amqp.OpUpdate, id)
	return nil
}

// Delete removes the record stored under id.
func (s *LedgerService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.store.List()
	if !s.store.Delete(id) {
		return fmt.Errorf("delete %q: %w", id, ErrNotFound)
	}
	if err := s.save(ctx, prev); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Transaction deleted", log.FieldOperation, log.OpDelete, log.FieldTxID, id)
	s.afterMutation(ctx, amqp.OpDelete, id)
	return nil
}

// Get returns the record stored under id.
func (s *LedgerService) Get(id string) (core.Transaction, error) {
	t, ok := s.store.Get(id)
	if !ok {
		return core.Transaction{}, fmt.Errorf("get %q: %w", id, ErrNotFound)
	}
	return t, nil
}

// List returns the records matching c, newest first.
func (s *LedgerService) List(c ledger.Criteria) []core.Transaction {
	return ledger.Apply(s.store.List(), c)
}

// Categories returns the distinct categories in use.
func (s *LedgerService) Categories() []string {
	return s.store.Categories()
}

// Summary computes totals and the category series over the records matching c.
func (s *LedgerService) Summary(c ledger.Criteria) Summary {
	key := c.Key()
	if s.summaries != nil {
		if cached, ok := s.summaries.Get(key); ok {
			return cached
		}
	}

	s.mu.Lock()
	gen := s.generation
	records := ledger.Apply(s.store.List(), c)
	s.mu.Unlock()

	totals := ledger.Totals(records)
	sum := Summary{
		Totals:    totals,
		Formatted: ledger.NewTotalsView(totals, s.symbol),
		Series:    ledger.CategorySeries(records),
		Breakdown: ledger.CategoryBreakdown(records),
		Count:     len(records),
	}

	if s.summaries != nil {
		s.mu.Lock()
		if gen == s.generation {
			s.summaries.Set(key, sum)
		}
		s.mu.Unlock()
	}
	return sum
}

// Export writes every record as CSV. It returns export.ErrNothingToExport
// when the ledger is empty.
func (s *LedgerService) Export(ctx context.Context, w io.Writer) error {
	records := s.store.List()
	if err := export.WriteCSV(w, records); err != nil {
		if errors.Is(err, export.ErrNothingToExport) {
			s.logger.InfoContext(ctx, export.EmptyNotice)
		}
		return err
	}
	s.logger.InfoContext(ctx, "Ledger exported", log.FieldOperation, log.OpExport, log.FieldRecordCount, len(records))
	return nil
}

// save persists the store. On failure the store is rolled back to prev so
// memory and the snapshot stay in step.
func (s *LedgerService) save(ctx context.Context, prev []core.Transaction) error {
	if err := s.adapter.Save(ctx, s.store.List()); err != nil {
		s.store.Replace(prev)
		s.invalidate()
		s.logger.ErrorContext(ctx, "Failed to save ledger",
			log.FieldError, err,
			log.FieldErrorType, log.ErrorTypeDatabase)
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

// afterMutation runs once the snapshot is saved. Publish failures are logged
// only; the change is already durable.
func (s *LedgerService) afterMutation(ctx context.Context, op amqp.Op, id string) {
	s.invalidate()
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionEvent(ctx, op, id); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish transaction event",
			log.FieldTxID, id,
			"op", op,
			log.FieldError, err,
			log.FieldErrorType, log.ErrorTypeNetwork)
	}
}

// invalidate must be called with s.mu held.
func (s *LedgerService) invalidate() {
	s.generation++
	if s.summaries != nil {
		s.summaries.Clear()
	}
}
