// Package backend builds the blob store and event publisher selected by
// configuration.
package backend

import (
	"context"

	"budget/internal/persist"
	"budget/internal/services"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the blob store, the optional publisher and a
// cleanup function releasing both.
type BackendResult struct {
	Store     persist.BlobStore
	Publisher services.Publisher
	Cleanup   CleanupFunc
}

// Close runs Cleanup if present.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// File backend
	DataDirectory string

	// SQL backends
	SQLiteDBPath string
	PostgresDSN  string

	// Redis backend
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Optional change events
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	FileBackend     BackendType = "file"
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
	RedisBackend    BackendType = "redis"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, FileBackend, SQLiteBackend, PostgresBackend, RedisBackend:
		return true
	default:
		return false
	}
}
