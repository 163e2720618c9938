// Package sqlkv implements storage.Storage as a two-column table in a
// MySQL-compatible database: a MySQL or Dolt sql-server reached through
// go-sql-driver/mysql, or an embedded Dolt database (cgo builds only).
package sqlkv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/steveyegge/td/internal/debug"
	"github.com/steveyegge/td/internal/storage"
)

const schema = `CREATE TABLE IF NOT EXISTS kv (
	k VARCHAR(191) NOT NULL PRIMARY KEY,
	v LONGTEXT NOT NULL,
	updated_at DATETIME NOT NULL
)`

// Store is a SQL-backed key/value store.
type Store struct {
	db      *sql.DB
	commit  *commitConfig
	closers []func() error
}

var _ storage.Storage = (*Store)(nil)

// commitConfig enables a Dolt commit after every write.
type commitConfig struct {
	author string
}

// New wraps an open database, creating the kv table if needed.
func New(ctx context.Context, db *sql.DB) (*Store, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("sqlkv: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, "SELECT v FROM kv WHERE k = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("sqlkv: get %q: %w", key, err)
	}
	return v, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO kv (k, v, updated_at) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v), updated_at = VALUES(updated_at)",
		key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("sqlkv: set %q: %w", key, err)
	}
	return s.commitChange(ctx, "td: set "+key)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE k = ?", key)
	if err != nil {
		return fmt.Errorf("sqlkv: delete %q: %w", key, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil
	}
	return s.commitChange(ctx, "td: delete "+key)
}

// Keys returns all keys in sorted order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT k FROM kv ORDER BY k")
	if err != nil {
		return nil, fmt.Errorf("sqlkv: list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("sqlkv: scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Close closes the database and any connector it was opened with.
func (s *Store) Close() error {
	err := s.db.Close()
	for _, c := range s.closers {
		if cerr := c(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// commitChange records a Dolt commit when the store was opened with commits
// enabled. An empty working set is not an error.
func (s *Store) commitChange(ctx context.Context, message string) error {
	if s.commit == nil {
		return nil
	}
	_, err := s.db.ExecContext(ctx, "CALL DOLT_COMMIT('-Am', ?, '--author', ?)", message, s.commit.author)
	if err != nil && !strings.Contains(strings.ToLower(err.Error()), "nothing to commit") {
		return fmt.Errorf("sqlkv: dolt commit: %w", err)
	}
	return nil
}

var databaseNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]{0,63}$`)

func validateDatabaseName(name string) error {
	if !databaseNameRe.MatchString(name) {
		return fmt.Errorf("invalid database name %q: use letters, digits, '_' or '-'", name)
	}
	return nil
}

const openMaxElapsed = 30 * time.Second

func newOpenBackoff(ctx context.Context) backoff.BackOff {
	// BackOff implementations are stateful; always return a fresh instance.
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = openMaxElapsed
	return backoff.WithContext(bo, ctx)
}

// pingWithRetry waits for a freshly started server to accept connections.
func pingWithRetry(ctx context.Context, db *sql.DB) error {
	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := db.PingContext(ctx)
		if err != nil {
			debug.Logf("sqlkv: ping attempt %d failed: %v\n", attempt, err)
		}
		return err
	}, newOpenBackoff(ctx))
}
