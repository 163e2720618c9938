// Package factory provides functions for creating storage backends based on configuration.
package factory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/steveyegge/td/internal/storage"
	"github.com/steveyegge/td/internal/storage/jsonfile"
	"github.com/steveyegge/td/internal/storage/memory"
	"github.com/steveyegge/td/internal/storage/sqlkv"
)

// Backend names accepted by storage.backend.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendMySQL  = "mysql"
	BackendDolt   = "dolt"
)

// BackendFactory is a function that creates a storage backend
type BackendFactory func(ctx context.Context, opts Options) (storage.Storage, error)

// backendRegistry holds registered backend factories
var backendRegistry = make(map[string]BackendFactory)

// RegisterBackend registers a storage backend factory
func RegisterBackend(name string, factory BackendFactory) {
	backendRegistry[name] = factory
}

// Backends returns the registered backend names, sorted.
func Backends() []string {
	names := make([]string, 0, len(backendRegistry))
	for name := range backendRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Options configures how the storage backend is opened
type Options struct {
	Backend string

	// file backend
	Path        string
	LockTimeout time.Duration
	// Warn receives recoverable problems, such as a corrupt file moved aside.
	Warn func(format string, args ...interface{})

	// mysql backend (MySQL or dolt sql-server)
	DSN         string
	DoltCommits bool

	// dolt backend (embedded, cgo only)
	DoltPath       string
	Database       string
	CommitterName  string
	CommitterEmail string
}

func init() {
	RegisterBackend(BackendFile, func(_ context.Context, opts Options) (storage.Storage, error) {
		return jsonfile.Open(opts.Path, jsonfile.Options{LockTimeout: opts.LockTimeout, Warn: opts.Warn})
	})
	RegisterBackend(BackendMemory, func(context.Context, Options) (storage.Storage, error) {
		return memory.New(), nil
	})
	RegisterBackend(BackendMySQL, func(ctx context.Context, opts Options) (storage.Storage, error) {
		if opts.DSN == "" {
			return nil, errors.New("mysql backend requires mysql.dsn")
		}
		return sqlkv.OpenServer(ctx, sqlkv.ServerConfig{
			DSN:          opts.DSN,
			DoltCommits:  opts.DoltCommits,
			CommitAuthor: fmt.Sprintf("%s <%s>", opts.CommitterName, opts.CommitterEmail),
		})
	})
	RegisterBackend(BackendDolt, func(ctx context.Context, opts Options) (storage.Storage, error) {
		if opts.DoltPath == "" {
			return nil, errors.New("dolt backend requires dolt.path")
		}
		return sqlkv.OpenEmbedded(ctx, sqlkv.EmbeddedConfig{
			Path:           opts.DoltPath,
			Database:       opts.Database,
			CommitterName:  opts.CommitterName,
			CommitterEmail: opts.CommitterEmail,
		})
	})
}

// New creates a storage backend based on opts.Backend. An empty backend
// means the JSON file backend.
func New(ctx context.Context, opts Options) (storage.Storage, error) {
	backend := strings.ToLower(strings.TrimSpace(opts.Backend))
	if backend == "" {
		backend = BackendFile
	}
	if factory, ok := backendRegistry[backend]; ok {
		s, err := factory(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("open %s storage: %w", backend, err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown storage backend: %s (supported: %s)", opts.Backend, strings.Join(Backends(), ", "))
}
