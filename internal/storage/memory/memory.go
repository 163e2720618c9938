// Package memory implements storage.Storage over a process-local map.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/steveyegge/td/internal/storage"
)

// Store is an in-memory key/value store. Safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	data   map[string]string
	closed bool
}

var _ storage.Storage = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{data: make(map[string]string)}
}

// NewWithData returns a store pre-populated with a copy of data.
func NewWithData(data map[string]string) *Store {
	s := New()
	for k, v := range data {
		s.data[k] = v
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", storage.ErrClosed
	}
	v, ok := s.data[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrClosed
	}
	s.data[key] = value
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrClosed
	}
	delete(s.data, key)
	return nil
}

// Keys returns all keys in sorted order.
func (s *Store) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, storage.ErrClosed
	}
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
