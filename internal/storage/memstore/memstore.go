// Package memstore is an in-memory storage.Storage used by tests and by
// commands that need a scratch backend.
package memstore

import (
	"context"
	"sync"

	"todo/internal/storage"
)

// Store is a map-backed storage.Storage.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte

	puts int

	// PutErr, when set, is returned by Put without storing anything.
	PutErr error
}

// New creates an empty Store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Get implements storage.Storage.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, storage.ErrNotExist
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Put implements storage.Storage.
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.PutErr != nil {
		return s.PutErr
	}
	v := make([]byte, len(data))
	copy(v, data)
	s.data[key] = v
	s.puts++
	return nil
}

// Close implements storage.Storage.
func (s *Store) Close() error { return nil }

// Puts returns the number of successful Put calls.
func (s *Store) Puts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.puts
}

// Raw returns the stored bytes for key as a string, or "" when absent.
func (s *Store) Raw(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return string(s.data[key])
}

// Seed stores raw bytes under key without counting a Put.
func (s *Store) Seed(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = []byte(value)
}
