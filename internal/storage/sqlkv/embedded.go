//go:build cgo

package sqlkv

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	embedded "github.com/dolthub/driver"
)

// EmbeddedConfig describes an embedded Dolt database directory.
type EmbeddedConfig struct {
	Path           string
	Database       string
	CommitterName  string
	CommitterEmail string
}

// OpenEmbedded opens (creating if needed) an embedded Dolt database. Every
// write is committed, so `dolt log` in Path shows the task list's history.
func OpenEmbedded(ctx context.Context, cfg EmbeddedConfig) (*Store, error) {
	if err := validateDatabaseName(cfg.Database); err != nil {
		return nil, err
	}
	if info, err := os.Stat(cfg.Path); err == nil && !info.IsDir() {
		return nil, fmt.Errorf("sqlkv: dolt path %q is a file, not a directory", cfg.Path)
	}
	if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
		return nil, fmt.Errorf("sqlkv: create dolt directory: %w", err)
	}
	// The driver changes its working directory to Path; a relative path would
	// be resolved twice.
	absPath, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlkv: resolve dolt path: %w", err)
	}

	base := fmt.Sprintf("file://%s?commitname=%s&commitemail=%s",
		absPath, url.QueryEscape(cfg.CommitterName), url.QueryEscape(cfg.CommitterEmail))

	// Create the database with a throwaway connector, then reopen scoped to it.
	initDB, initConn, err := openEmbedded(base)
	if err != nil {
		return nil, err
	}
	_, err = initDB.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", cfg.Database)) //nolint:gosec // validated above
	_ = initDB.Close()
	_ = initConn.Close()
	if err != nil {
		return nil, fmt.Errorf("sqlkv: create dolt database: %w", err)
	}

	db, connector, err := openEmbedded(base + "&database=" + url.QueryEscape(cfg.Database))
	if err != nil {
		return nil, err
	}
	// The embedded driver keeps the context of the first Connect for the
	// session, so ping with a context that outlives the caller's.
	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		_ = connector.Close()
		return nil, fmt.Errorf("sqlkv: ping dolt: %w", err)
	}

	s, err := New(ctx, db)
	if err != nil {
		_ = db.Close()
		_ = connector.Close()
		return nil, err
	}
	s.closers = append(s.closers, connector.Close)
	s.commit = &commitConfig{author: fmt.Sprintf("%s <%s>", cfg.CommitterName, cfg.CommitterEmail)}
	return s, nil
}

func openEmbedded(dsn string) (*sql.DB, *embedded.Connector, error) {
	openCfg, err := embedded.ParseDSN(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlkv: parse dolt DSN: %w", err)
	}
	openCfg.BackOff = newOpenBackoff(context.Background())

	connector, err := embedded.NewConnector(openCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlkv: create dolt connector: %w", err)
	}
	db := sql.OpenDB(connector)
	// Embedded Dolt is single-writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	return db, connector, nil
}
