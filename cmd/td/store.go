package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/steveyegge/td/internal/config"
	"github.com/steveyegge/td/internal/debug"
	"github.com/steveyegge/td/internal/storage"
	"github.com/steveyegge/td/internal/storage/factory"
	"github.com/steveyegge/td/internal/taskstore"
	"github.com/steveyegge/td/internal/telemetry"
	"github.com/steveyegge/td/internal/ui"
)

var (
	kv    storage.Storage
	tasks *taskstore.Store
	prefs *taskstore.Preferences
)

func storageOptions() factory.Options {
	backend := config.GetString("storage.backend")
	if ephemeral {
		backend = factory.BackendMemory
	}
	return factory.Options{
		Backend:        backend,
		Path:           config.StoragePath(),
		LockTimeout:    config.GetDuration("lock-timeout"),
		Warn:           warnf,
		DSN:            config.GetString("mysql.dsn"),
		DoltCommits:    config.GetBool("mysql.dolt-commits"),
		DoltPath:       config.DoltPath(),
		Database:       config.GetString("dolt.database"),
		CommitterName:  config.GetString("dolt.committer-name"),
		CommitterEmail: config.GetString("dolt.committer-email"),
	}
}

// openStore opens the configured backend, loads the task list and applies
// the stored dark-mode preference to the terminal styles.
func openStore(ctx context.Context) error {
	opts := storageOptions()
	debug.Logf("opening %q storage\n", opts.Backend)

	s, err := factory.New(ctx, opts)
	if err != nil {
		return withHint(err, "check storage.backend with 'td config get storage.backend'")
	}
	kv = telemetry.WrapStorage(s)

	tasks, err = taskstore.Open(ctx, kv, taskstore.WithWarn(warnf), taskstore.WithClock(nowFunc))
	if err != nil {
		return err
	}
	prefs = taskstore.NewPreferences(kv)

	dark, err := prefs.DarkMode(ctx)
	if err != nil {
		warnf("%v", err)
	}
	applyColorPrefs(dark)
	telemetry.RecordTaskCounts(ctx, tasks.Stats())
	return nil
}

func applyColorPrefs(dark bool) {
	ui.Configure(config.GetBool("no-color"), dark)
}

func closeStore() {
	if kv != nil {
		if err := kv.Close(); err != nil {
			debug.Logf("closing storage: %v\n", err)
		}
	}
	kv, tasks, prefs = nil, nil, nil
}

// parsePosition turns a 1-based position from the command line into a store
// index, checking it addresses a task.
func parsePosition(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(arg), "#"))
	if err != nil {
		return 0, fmt.Errorf("invalid position %q: expected a number", arg)
	}
	if n < 1 || n > tasks.Len() {
		return 0, withHint(fmt.Errorf("%w: %d", taskstore.ErrInvalidPosition, n), "run 'td list' to see positions")
	}
	return n - 1, nil
}
