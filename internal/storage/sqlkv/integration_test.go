//go:build integration

package sqlkv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/dolt"

	"github.com/steveyegge/td/internal/storage"
)

const doltImage = "dolthub/dolt-sql-server:1.43.0"

func startDoltServer(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	ctr, err := dolt.Run(ctx, doltImage,
		dolt.WithDatabase("td"),
		dolt.WithUsername("td"),
		dolt.WithPassword("td"),
	)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			t.Logf("terminate dolt container: %v", err)
		}
	})
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)
	return dsn
}

func TestServerRoundTrip(t *testing.T) {
	dsn := startDoltServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s, err := OpenServer(ctx, ServerConfig{DSN: dsn, DoltCommits: true, CommitAuthor: "td <td@example.com>"})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	_, err = s.Get(ctx, storage.KeyTodos)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.Set(ctx, storage.KeyTodos, `[{"text":"Buy milk"}]`))
	require.NoError(t, s.Set(ctx, storage.KeyTodos, `[]`))
	require.NoError(t, s.Set(ctx, storage.KeyDarkMode, "true"))

	v, err := s.Get(ctx, storage.KeyTodos)
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{storage.KeyDarkMode, storage.KeyTodos}, keys)

	require.NoError(t, s.Delete(ctx, storage.KeyDarkMode))
	_, err = s.Get(ctx, storage.KeyDarkMode)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestServerReopenSeesData(t *testing.T) {
	dsn := startDoltServer(t)
	ctx := context.Background()

	first, err := OpenServer(ctx, ServerConfig{DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, storage.KeyDarkMode, "false"))
	require.NoError(t, first.Close())

	second, err := OpenServer(ctx, ServerConfig{DSN: dsn})
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	v, err := second.Get(ctx, storage.KeyDarkMode)
	require.NoError(t, err)
	assert.Equal(t, "false", v)
}
