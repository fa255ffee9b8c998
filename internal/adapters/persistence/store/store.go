// Package store provides the durable key-value blob store backing the
// in-memory repositories. Repositories serialize whole record lists as JSON
// blobs under fixed keys; sessions live under per-session keys.
package store

import "errors"

// ErrKeyNotFound is returned by Get when no blob exists under the key
var ErrKeyNotFound = errors.New("key not found")

// Store is a durable keyed blob store
type Store interface {
	// Get returns the blob stored under key, or ErrKeyNotFound.
	Get(key string) ([]byte, error)
	// Put stores the blob under key, replacing any previous value.
	Put(key string, value []byte) error
	// Delete removes the blob under key. Deleting a missing key is not an error.
	Delete(key string) error
	// Keys returns all keys with the given prefix.
	Keys(prefix string) ([]string, error)
	// Close releases any underlying resources.
	Close() error
}
