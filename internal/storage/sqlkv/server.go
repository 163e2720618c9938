package sqlkv

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// ServerConfig describes a MySQL-protocol server (MySQL or dolt sql-server).
type ServerConfig struct {
	// DSN in go-sql-driver/mysql form, e.g. "root@tcp(127.0.0.1:3307)/td".
	// The database named in the DSN is created if missing.
	DSN string

	// DoltCommits records a Dolt commit after every write.
	DoltCommits bool
	// CommitAuthor is used for Dolt commits, "Name <email>".
	CommitAuthor string
}

// OpenServer connects to the server, creating the database and kv table.
func OpenServer(ctx context.Context, cfg ServerConfig) (*Store, error) {
	mcfg, err := mysql.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlkv: parse DSN: %w", err)
	}
	if mcfg.DBName == "" {
		return nil, fmt.Errorf("sqlkv: DSN %q names no database", redactDSN(mcfg))
	}
	if err := validateDatabaseName(mcfg.DBName); err != nil {
		return nil, err
	}
	mcfg.ParseTime = true
	database := mcfg.DBName

	// First connect without a database so it can be created.
	initCfg := mcfg.Clone()
	initCfg.DBName = ""
	initDB, err := sql.Open("mysql", initCfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("sqlkv: open init connection: %w", err)
	}
	defer func() { _ = initDB.Close() }()

	if err := pingWithRetry(ctx, initDB); err != nil {
		return nil, fmt.Errorf("sqlkv: connect to %s: %w", mcfg.Addr, err)
	}
	_, err = initDB.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", database)) //nolint:gosec // database validated above
	if err != nil {
		errLower := strings.ToLower(err.Error())
		// Dolt may return 1007 even with IF NOT EXISTS.
		if !strings.Contains(errLower, "database exists") && !strings.Contains(errLower, "1007") {
			return nil, fmt.Errorf("sqlkv: create database: %w", err)
		}
	}

	db, err := sql.Open("mysql", mcfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("sqlkv: open: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	s, err := New(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if cfg.DoltCommits {
		s.commit = &commitConfig{author: cfg.CommitAuthor}
	}
	return s, nil
}

func redactDSN(cfg *mysql.Config) string {
	c := cfg.Clone()
	if c.Passwd != "" {
		c.Passwd = "***"
	}
	return c.FormatDSN()
}
