package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"

	"github.com/steveyegge/td/internal/debug"
)

const (
	// lockSuffix is appended to the store path to name its lock file.
	lockSuffix = ".lock"

	// DefaultLockTimeout bounds how long an operation waits for another td process.
	DefaultLockTimeout = 5 * time.Second

	lockPollInterval = 25 * time.Millisecond
)

// fileLock coordinates access to the store file between td processes.
// Writers take the exclusive lock, readers the shared one.
type fileLock struct {
	flock   *flock.Flock
	timeout time.Duration
}

func newFileLock(storePath string, timeout time.Duration) *fileLock {
	return &fileLock{
		flock:   flock.New(storePath + lockSuffix),
		timeout: timeout,
	}
}

func (l *fileLock) acquire(ctx context.Context, exclusive bool) error {
	lockType := "shared"
	if exclusive {
		lockType = "exclusive"
	}

	tryAcquire := func() (bool, error) {
		if exclusive {
			return l.flock.TryLock()
		}
		return l.flock.TryRLock()
	}

	if l.timeout <= 0 {
		locked, err := tryAcquire()
		if err != nil {
			return fmt.Errorf("failed to acquire %s lock: %w", lockType, err)
		}
		if !locked {
			return fmt.Errorf("%s lock on %s is held by another td process", lockType, l.flock.Path())
		}
		return nil
	}

	start := time.Now()
	timeoutCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	var locked bool
	var err error
	if exclusive {
		locked, err = l.flock.TryLockContext(timeoutCtx, lockPollInterval)
	} else {
		locked, err = l.flock.TryRLockContext(timeoutCtx, lockPollInterval)
	}
	if locked {
		debug.Logf("acquired %s lock after %v: %s\n", lockType, time.Since(start), l.flock.Path())
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("failed to acquire %s lock: %w", lockType, err)
	}
	return fmt.Errorf("timeout waiting for %s lock after %v (another td process may be writing - try again in a moment)",
		lockType, time.Since(start).Round(time.Millisecond))
}

func (l *fileLock) release() {
	if err := l.flock.Unlock(); err != nil {
		debug.Logf("failed to release lock %s: %v\n", l.flock.Path(), err)
	}
}

// withLock runs fn while holding the lock.
func (l *fileLock) withLock(ctx context.Context, exclusive bool, fn func() error) error {
	if err := l.acquire(ctx, exclusive); err != nil {
		return err
	}
	defer l.release()
	return fn()
}
