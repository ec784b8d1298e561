// Package storage defines the durable key/value backend the task store
// persists its serialized list into.
package storage

import (
	"context"
	"errors"
)

// ErrNotExist is returned by Get when no value is stored under the key.
var ErrNotExist = errors.New("key does not exist")

// Storage holds opaque values under string keys.
// Put always overwrites the whole value; there are no partial writes.
type Storage interface {
	// Get returns the value stored under key, or ErrNotExist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, data []byte) error

	// Close releases any resources held by the backend.
	Close() error
}
