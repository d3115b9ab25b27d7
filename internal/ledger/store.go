// Package ledger holds the in-memory transaction store and the pure functions
// that aggregate and filter its contents.
package ledger

import (
	"slices"
	"sort"
	"strconv"
	"sync"
	"time"

	"budget/internal/core"
)

// IDGenerator returns a candidate identifier for a new transaction.
type IDGenerator func() string

// TimestampIDs derives ids from the wall clock in milliseconds.
func TimestampIDs() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}

// Store owns the ordered collection of transactions. The canonical order is
// descending by date; records sharing a date keep their insertion order.
type Store struct {
	mu    sync.Mutex
	items []core.Transaction
	newID IDGenerator
}

type Option func(*Store)

// WithIDGenerator replaces the default timestamp based generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) { s.newID = gen }
}

func NewStore(opts ...Option) *Store {
	s := &Store{newID: TimestampIDs}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add appends t and returns its id. A fresh id is assigned when t has none or
// when its id is already taken.
func (s *Store) Add(t core.Transaction) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" || s.indexOf(t.ID) >= 0 {
		t.ID = s.uniqueID()
	}
	s.items = append(s.items, t)
	sortByDateDesc(s.items)
	return t.ID
}

// Update replaces the record matching id, keeping the id. It reports false and
// changes nothing when id is unknown.
func (s *Store) Update(id string, t core.Transaction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	t.ID = id
	s.items[i] = t
	sortByDateDesc(s.items)
	return true
}

// Delete removes the record matching id; unknown ids are ignored.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	return true
}

// List returns a copy of the records in canonical order.
func (s *Store) List() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (core.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return core.Transaction{}, false
	}
	return s.items[i], true
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Replace swaps the whole collection, used when a snapshot is loaded.
// Duplicate ids after the first occurrence are reassigned.
func (s *Store) Replace(records []core.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make([]core.Transaction, 0, len(records))
	for _, t := range records {
		if t.ID == "" || s.indexOf(t.ID) >= 0 {
			t.ID = s.uniqueID()
		}
		s.items = append(s.items, t)
	}
	sortByDateDesc(s.items)
}

// Categories returns the distinct categories in lexical order.
func (s *Store) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(s.items))
	out := make([]string, 0, len(s.items))
	for _, t := range s.items {
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		out = append(out, t.Category)
	}
	sort.Strings(out)
	return out
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(t core.Transaction) bool { return t.ID == id })
}

// uniqueID asks the generator for an id and suffixes it until it is free.
func (s *Store) uniqueID() string {
	base := s.newID()
	id := base
	for n := 1; s.indexOf(id) >= 0; n++ {
		id = base + "-" + strconv.Itoa(n)
	}
	return id
}

func sortByDateDesc(items []core.Transaction) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date.Time)
	})
}
