package pkg

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// LockSuffix is appended to a file path to name its advisory lock file.
const LockSuffix = ".lock"

// lockRetry is the polling interval while waiting for a contended lock.
const lockRetry = 25 * time.Millisecond

// Lock acquires an exclusive advisory lock guarding path, waiting until ctx
// is done. The returned func releases it.
func Lock(ctx context.Context, path string) (func() error, error) {
	return acquire(ctx, path, (*flock.Flock).TryLockContext)
}

// RLock acquires a shared advisory lock guarding path.
func RLock(ctx context.Context, path string) (func() error, error) {
	return acquire(ctx, path, (*flock.Flock).TryRLockContext)
}

func acquire(
	ctx context.Context,
	path string,
	try func(*flock.Flock, context.Context, time.Duration) (bool, error),
) (func() error, error) {
	lockPath := path + LockSuffix

	err := os.MkdirAll(filepath.Dir(lockPath), DirMode)
	if err != nil {
		return nil, ErrIO.Wrap(err).With(slog.String("path", lockPath))
	}

	fl := flock.New(lockPath)

	ok, err := try(fl, ctx, lockRetry)
	if err != nil {
		return nil, ErrIO.Wrap(err).With(slog.String("path", lockPath))
	}

	if !ok {
		return nil, ErrIO.Wrap(ctx.Err()).With(slog.String("path", lockPath))
	}

	return fl.Unlock, nil
}
