package jsonfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/td/internal/storage"
)

func openTemp(t *testing.T, opts Options) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "td", "storage.json"), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestMissingFileIsEmpty(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t, Options{})

	_, err := s.Get(ctx, storage.KeyTodos)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestSetPersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t, Options{})

	require.NoError(t, s.Set(ctx, storage.KeyTodos, `[{"text":"Buy milk"}]`))
	require.NoError(t, s.Set(ctx, storage.KeyDarkMode, "true"))

	other, err := Open(s.Path(), Options{})
	require.NoError(t, err)
	v, err := other.Get(ctx, storage.KeyTodos)
	require.NoError(t, err)
	assert.Equal(t, `[{"text":"Buy milk"}]`, v)

	keys, err := other.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{storage.KeyDarkMode, storage.KeyTodos}, keys)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t, Options{})

	require.NoError(t, s.Set(ctx, storage.KeyDraft, "{}"))
	require.NoError(t, s.Delete(ctx, storage.KeyDraft))
	require.NoError(t, s.Delete(ctx, "never-set"))

	_, err := s.Get(ctx, storage.KeyDraft)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestNoTempFilesLeftBehind(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t, Options{})
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Set(ctx, storage.KeyTodos, "[]"))
	}

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-", "leftover temp file %s", e.Name())
	}
}

func TestCorruptFileIsMovedAside(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"truncated", `{"todos": "[]", "darkMo`},
		{"not json", "not json"},
		{"wrong value type", `{"darkMode": true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			var warnings []string
			s := openTemp(t, Options{Warn: func(format string, args ...interface{}) {
				warnings = append(warnings, fmt.Sprintf(format, args...))
			}})
			require.NoError(t, os.WriteFile(s.Path(), []byte(tt.content), 0o600))

			_, err := s.Get(ctx, storage.KeyTodos)
			assert.ErrorIs(t, err, storage.ErrNotFound)
			require.Len(t, warnings, 1)
			assert.Contains(t, warnings[0], "moved it to "+s.Path()+".corrupt-")

			aside, err := filepath.Glob(s.Path() + ".corrupt-*")
			require.NoError(t, err)
			require.Len(t, aside, 1)
			kept, err := os.ReadFile(aside[0])
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(kept))

			require.NoError(t, s.Set(ctx, storage.KeyDarkMode, "true"))
			v, err := s.Get(ctx, storage.KeyDarkMode)
			require.NoError(t, err)
			assert.Equal(t, "true", v)
			assert.Len(t, warnings, 1)
		})
	}
}

func TestUnreadableFileIsAnError(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t, Options{})
	// a directory where the file should be cannot be read
	require.NoError(t, os.MkdirAll(s.Path(), 0o750))

	_, err := s.Get(ctx, storage.KeyTodos)
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrNotFound)
	assert.DirExists(t, s.Path())
}

func TestLockTimeout(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t, Options{LockTimeout: 100 * time.Millisecond})

	holder := flock.New(s.Path() + lockSuffix)
	locked, err := holder.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer func() { _ = holder.Unlock() }()

	err = s.Set(ctx, storage.KeyTodos, "[]")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout waiting for exclusive lock")
}

func TestSharedReadersDoNotBlock(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t, Options{LockTimeout: 100 * time.Millisecond})
	require.NoError(t, s.Set(ctx, storage.KeyDarkMode, "false"))

	reader := flock.New(s.Path() + lockSuffix)
	locked, err := reader.TryRLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer func() { _ = reader.Unlock() }()

	v, err := s.Get(ctx, storage.KeyDarkMode)
	require.NoError(t, err)
	assert.Equal(t, "false", v)
}

func TestClosedStore(t *testing.T) {
	s := openTemp(t, Options{})
	require.NoError(t, s.Close())
	_, err := s.Get(context.Background(), storage.KeyTodos)
	assert.ErrorIs(t, err, storage.ErrClosed)
}
