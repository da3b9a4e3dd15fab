package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	// LockRetryInterval is how long FileLock waits between attempts.
	LockRetryInterval = 10 * time.Millisecond

	// DefaultLockStaleAfter is the age past which a lock file is assumed to
	// belong to a writer that died. A live holder keeps it for one
	// load-and-save cycle.
	DefaultLockStaleAfter = 10 * time.Second

	// DefaultLockTimeout bounds the wait when the caller's context has no deadline.
	DefaultLockTimeout = 30 * time.Second
)

// ErrLockTimeout is returned when the lock could not be acquired in time.
var ErrLockTimeout = errors.New("timed out waiting for catalog lock")

// FileLock is a cross-process lock backed by the exclusive creation of a file.
// The file holds the owner's pid for diagnosis.
type FileLock struct {
	Path       string
	StaleAfter time.Duration // zero disables stale-lock recovery
	Timeout    time.Duration // zero means wait until ctx is done
}

// NewFileLock creates a lock that lives next to the artifact at catalogPath.
func NewFileLock(catalogPath string) *FileLock {
	return &FileLock{
		Path:       catalogPath + ".lock",
		StaleAfter: DefaultLockStaleAfter,
		Timeout:    DefaultLockTimeout,
	}
}

// Lock acquires the lock. It blocks until the lock is acquired, the timeout
// elapses or ctx is done. A lock file older than StaleAfter is removed.
func (l *FileLock) Lock(ctx context.Context) (func(), error) {
	if _, ok := ctx.Deadline(); !ok && l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, l.Timeout, ErrLockTimeout)
		defer cancel()
	}

	for {
		f, err := os.OpenFile(l.Path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0666)
		if err == nil {
			_, _ = f.WriteString(strconv.Itoa(os.Getpid()))
			f.Close()
			return func() {
				os.Remove(l.Path)
			}, nil
		}

		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to acquire lock: %w", err)
		}

		if l.breakStale() {
			continue
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for %s: %w", l.Path, context.Cause(ctx))
		case <-time.After(LockRetryInterval):
		}
	}
}

// breakStale removes the lock file if it is older than StaleAfter.
// It reports whether a stale file was removed.
func (l *FileLock) breakStale() bool {
	if l.StaleAfter <= 0 {
		return false
	}
	info, err := os.Stat(l.Path)
	if err != nil || time.Since(info.ModTime()) < l.StaleAfter {
		return false
	}
	return os.Remove(l.Path) == nil
}
