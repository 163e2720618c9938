// Package jsonfile implements storage.Storage as a single JSON object file.
//
// The file maps keys to string values, mirroring a browser's local storage:
//
//	{"darkMode": "false", "todos": "[{\"text\":\"Buy milk\",...}]"}
//
// Every operation re-reads the file under an advisory lock, so concurrent td
// processes observe each other's writes. Writes go to a temp file that is
// renamed over the original.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/steveyegge/td/internal/debug"
	"github.com/steveyegge/td/internal/storage"
)

// Store is a file-backed key/value store.
type Store struct {
	path   string
	lock   *fileLock
	warn   func(format string, args ...interface{})
	mu     sync.Mutex
	closed bool
}

var _ storage.Storage = (*Store)(nil)

// Options configures Open.
type Options struct {
	// LockTimeout bounds the wait for another process's lock. Zero means
	// DefaultLockTimeout, negative means fail immediately.
	LockTimeout time.Duration

	// Warn reports a file that could not be decoded and was moved aside.
	// Nil logs through debug.Logf.
	Warn func(format string, args ...interface{})
}

// Open returns a store for path, creating its parent directory.
// The file itself is created on the first Set.
func Open(path string, opts Options) (*Store, error) {
	if path == "" {
		return nil, errors.New("jsonfile: path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("jsonfile: resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o750); err != nil {
		return nil, fmt.Errorf("jsonfile: create directory: %w", err)
	}
	timeout := opts.LockTimeout
	if timeout == 0 {
		timeout = DefaultLockTimeout
	}
	warn := opts.Warn
	if warn == nil {
		warn = func(format string, args ...interface{}) { debug.Logf("jsonfile: "+format+"\n", args...) }
	}
	return &Store{path: abs, lock: newFileLock(abs, timeout), warn: warn}, nil
}

// Path returns the absolute path of the backing file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.do(ctx, false, func() error {
		data, err := s.readLocked()
		if err != nil {
			return err
		}
		v, ok := data[key]
		if !ok {
			return storage.ErrNotFound
		}
		value = v
		return nil
	})
	return value, err
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}
	return s.do(ctx, true, func() error {
		data, err := s.readLocked()
		if err != nil {
			return err
		}
		data[key] = value
		return s.writeLocked(data)
	})
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.do(ctx, true, func() error {
		data, err := s.readLocked()
		if err != nil {
			return err
		}
		if _, ok := data[key]; !ok {
			return nil
		}
		delete(data, key)
		return s.writeLocked(data)
	})
}

// Keys returns all keys in sorted order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := s.do(ctx, false, func() error {
		data, err := s.readLocked()
		if err != nil {
			return err
		}
		keys = make([]string, 0, len(data))
		for k := range data {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		return nil
	})
	return keys, err
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Store) do(ctx context.Context, exclusive bool, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.lock.withLock(ctx, exclusive, fn)
}

// readLocked loads the whole file. A missing or empty file is an empty map.
// A file that is not a JSON object of strings is renamed to
// <path>.corrupt-<timestamp> and also reads as an empty map, so the next
// write starts a fresh file. Read errors other than not-exist are returned.
func (s *Store) readLocked() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("jsonfile: read %s: %w", s.path, err)
	}
	data := map[string]string{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		if err := s.quarantine(err); err != nil {
			return nil, err
		}
		return map[string]string{}, nil
	}
	return data, nil
}

// quarantine moves an undecodable file out of the way.
func (s *Store) quarantine(decodeErr error) error {
	aside := fmt.Sprintf("%s.corrupt-%s", s.path, time.Now().UTC().Format("20060102T150405.000000000"))
	if err := os.Rename(s.path, aside); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// another process moved it first
			return nil
		}
		return fmt.Errorf("jsonfile: %s is not a JSON object of strings (%v) and could not be moved aside: %w", s.path, decodeErr, err)
	}
	s.warn("%s is not a JSON object of strings (%v); moved it to %s and starting empty", s.path, decodeErr, aside)
	return nil
}

func (s *Store) writeLocked(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: encode: %w", err)
	}
	raw = append(raw, '\n')
	if err := writeFileAtomic(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("jsonfile: write %s: %w", s.path, err)
	}
	debug.Logf("jsonfile: wrote %d keys to %s\n", len(data), s.path)
	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}
