// Package storage provides the string key/value interface td persists through.
//
// Concrete backends live in sub-packages:
//   - file:   one JSON object file guarded by an advisory lock (default)
//   - memory: process-local map, used by tests and --ephemeral runs
//   - sqlkv:  a kv table over MySQL / Dolt sql-server, or embedded Dolt (cgo)
//
// The factory sub-package picks a backend from configuration.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Well-known keys.
const (
	// KeyTodos holds the JSON-serialised task list.
	KeyTodos = "todos"
	// KeyDarkMode holds "true" or "false".
	KeyDarkMode = "darkMode"
	// KeyDraft holds the JSON-serialised form draft between invocations.
	KeyDraft = "draft"
)

// MaxKeyLength matches the primary key width of the SQL kv table.
const MaxKeyLength = 191

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("not found")

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("storage closed")

// ErrInvalidKey is returned when a key fails ValidateKey.
var ErrInvalidKey = errors.New("invalid key")

// Storage is a flat string key/value store. Implementations must make a Set
// visible to every later Get on the same store, and must persist whole values
// (a reader never observes a partially written value).
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// ValidateKey rejects empty keys, keys with whitespace or control characters,
// and keys longer than MaxKeyLength.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	if len(key) > MaxKeyLength {
		return fmt.Errorf("%w: key longer than %d bytes", ErrInvalidKey, MaxKeyLength)
	}
	if strings.IndexFunc(key, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }) >= 0 {
		return fmt.Errorf("%w: %q contains whitespace or control characters", ErrInvalidKey, key)
	}
	return nil
}

// GetOrDefault returns the stored value, or def when the key is absent.
func GetOrDefault(ctx context.Context, s Storage, key, def string) (string, error) {
	v, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}
