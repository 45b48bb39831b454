// Package kv defines the persistence interface for notes: a durable mapping
// from opaque string keys to opaque values with prefix enumeration.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has no live value.
var ErrNotFound = errors.New("kv: key not found")

// Store is the sole persistence primitive. Keys are fully opaque to callers
// above this layer; the only structure a Store ever sees is the prefix
// argument to ScanPrefix.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set upserts the value for key, replacing any existing value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key if present. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// DeleteMany deletes each key independently, best-effort: a failure on
	// one key does not abort or corrupt the rest of the batch.
	DeleteMany(ctx context.Context, keys []string) error

	// ScanPrefix returns the values of all keys starting with prefix,
	// unordered, reflecting only keys live at call time.
	ScanPrefix(ctx context.Context, prefix string) ([][]byte, error)

	// Close releases the store's resources.
	Close() error
}
