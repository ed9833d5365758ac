package binary

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// StaleLockThreshold is the maximum age of a lock before it's considered stale.
	StaleLockThreshold = 10 * time.Minute

	// LockWaitTimeout bounds how long AcquireLock waits for another
	// install of the same binary to finish.
	LockWaitTimeout = 30 * time.Second

	lockRetryInterval = 100 * time.Millisecond
)

var ErrLockExists = errors.New("install lock exists: another install of this binary may be in progress")

// Lock serializes installs and removals of one binary in one directory.
type Lock struct {
	path string
	file *os.File
}

// LockPath returns the lock file guarding binaryName in dir.
func LockPath(dir, binaryName string) string {
	return filepath.Join(dir, "."+binaryName+".gonpm.lock")
}

// AcquireLock takes the lock for binaryName in dir, waiting for a
// concurrent holder until ctx is done or LockWaitTimeout passes.
// Uses O_CREATE|O_EXCL for atomic lock creation.
func AcquireLock(ctx context.Context, dir, binaryName string, clock Clock) (*Lock, error) {
	if clock == nil {
		clock = RealClock{}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, LockWaitTimeout)
	defer cancel()

	lockPath := LockPath(dir, binaryName)

	for {
		if err := ctx.Err(); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, ErrLockExists
			}
			return nil, err
		}

		file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
		if err == nil {
			return writeLock(lockPath, file, clock)
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("create lock file: %w", err)
		}

		if isStale, _ := isLockStale(lockPath, clock); isStale {
			// Remove stale lock and retry at once
			_ = os.Remove(lockPath)
			continue
		}

		select {
		case <-ctx.Done():
		case <-time.After(lockRetryInterval):
		}
	}
}

// writeLock records the holder's PID and timestamp.
func writeLock(lockPath string, file *os.File, clock Clock) (*Lock, error) {
	lockData := fmt.Sprintf("pid=%d\ntimestamp=%s\n", os.Getpid(), clock.Now().UTC().Format(time.RFC3339))
	if _, err := file.WriteString(lockData); err != nil {
		file.Close()
		os.Remove(lockPath)
		return nil, fmt.Errorf("write lock data: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(lockPath)
		return nil, fmt.Errorf("sync lock file: %w", err)
	}

	return &Lock{
		path: lockPath,
		file: file,
	}, nil
}

// Release releases the lock. Releasing twice is a no-op.
func (l *Lock) Release() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}

	if l.path != "" {
		path := l.path
		l.path = ""
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove lock file: %w", err)
		}
	}

	return nil
}

// isLockStale checks if a lock file is older than the stale lock threshold.
func isLockStale(lockPath string, clock Clock) (bool, error) {
	info, err := os.Stat(lockPath)
	if err != nil {
		return false, err
	}

	age := clock.Now().Sub(info.ModTime())
	return age > StaleLockThreshold, nil
}
