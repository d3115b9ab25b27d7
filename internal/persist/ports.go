package persist

import "context"

// BlobStore is a string keyed store of opaque string values.
type BlobStore interface {
	// Get returns the value stored under key; found is false when the key
	// has never been written.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set overwrites the value stored under key.
	Set(ctx context.Context, key, value string) error
}
