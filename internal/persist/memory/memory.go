package memory

import (
	"context"
	"sync"

	"budget/internal/persist"
)

var _ persist.BlobStore = (*Store)(nil)

// Store keeps blobs in process memory.
type Store struct {
	mu    sync.Mutex
	blobs map[string]string
}

func New() *Store {
	return &Store{blobs: make(map[string]string)}
}

// NewSeeded returns a store pre-populated with the given blobs.
func NewSeeded(seed map[string]string) *Store {
	s := New()
	for k, v := range seed {
		s.blobs[k] = v
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.blobs[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = value
	return nil
}
