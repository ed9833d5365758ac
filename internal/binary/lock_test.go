package binary

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func TestAcquireLock(t *testing.T) {
	t.Run("creates lock file", func(t *testing.T) {
		dir := t.TempDir()

		lock, err := AcquireLock(context.Background(), dir, "tool", nil)
		if err != nil {
			t.Fatalf("AcquireLock failed: %v", err)
		}
		defer lock.Release()

		if _, err := os.Stat(filepath.Join(dir, ".tool.gonpm.lock")); os.IsNotExist(err) {
			t.Error("lock file not created")
		}
	})

	t.Run("prevents concurrent locks", func(t *testing.T) {
		dir := t.TempDir()

		lock1, err := AcquireLock(context.Background(), dir, "tool", nil)
		if err != nil {
			t.Fatalf("first AcquireLock failed: %v", err)
		}
		defer lock1.Release()

		ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
		defer cancel()

		_, err = AcquireLock(ctx, dir, "tool", nil)
		if !errors.Is(err, ErrLockExists) {
			t.Errorf("expected ErrLockExists, got %v", err)
		}
	})

	t.Run("separate binaries do not contend", func(t *testing.T) {
		dir := t.TempDir()

		lock1, err := AcquireLock(context.Background(), dir, "tool", nil)
		if err != nil {
			t.Fatalf("AcquireLock(tool) failed: %v", err)
		}
		defer lock1.Release()

		lock2, err := AcquireLock(context.Background(), dir, "other", nil)
		if err != nil {
			t.Fatalf("AcquireLock(other) failed: %v", err)
		}
		defer lock2.Release()
	})

	t.Run("waits for release", func(t *testing.T) {
		dir := t.TempDir()

		lock1, err := AcquireLock(context.Background(), dir, "tool", nil)
		if err != nil {
			t.Fatalf("first AcquireLock failed: %v", err)
		}

		go func() {
			time.Sleep(150 * time.Millisecond)
			lock1.Release()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		lock2, err := AcquireLock(ctx, dir, "tool", nil)
		if err != nil {
			t.Fatalf("second AcquireLock should succeed after release: %v", err)
		}
		defer lock2.Release()
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		dir := t.TempDir()
		ctx, cancel := context.WithCancel(context.Background())
		cancel() // Cancel immediately

		_, err := AcquireLock(ctx, dir, "tool", nil)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("creates directory if needed", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "bin")

		lock, err := AcquireLock(context.Background(), dir, "tool", nil)
		if err != nil {
			t.Fatalf("AcquireLock failed: %v", err)
		}
		defer lock.Release()

		if _, err := os.Stat(dir); os.IsNotExist(err) {
			t.Error("directory not created")
		}
	})

	t.Run("writes lock metadata", func(t *testing.T) {
		dir := t.TempDir()
		clock := fixedClock{now: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)}

		lock, err := AcquireLock(context.Background(), dir, "tool", clock)
		if err != nil {
			t.Fatalf("AcquireLock failed: %v", err)
		}
		defer lock.Release()

		data, err := os.ReadFile(LockPath(dir, "tool"))
		if err != nil {
			t.Fatalf("failed to read lock file: %v", err)
		}

		content := string(data)
		if !strings.Contains(content, "pid=") || !strings.Contains(content, "timestamp=2025-01-02T03:04:05Z") {
			t.Errorf("unexpected lock metadata: %q", content)
		}
	})
}

func TestLockRelease(t *testing.T) {
	t.Run("removes lock file", func(t *testing.T) {
		dir := t.TempDir()

		lock, err := AcquireLock(context.Background(), dir, "tool", nil)
		if err != nil {
			t.Fatalf("AcquireLock failed: %v", err)
		}

		if err := lock.Release(); err != nil {
			t.Fatalf("Release failed: %v", err)
		}

		if _, err := os.Stat(LockPath(dir, "tool")); !os.IsNotExist(err) {
			t.Error("lock file should be removed after release")
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		dir := t.TempDir()

		lock, err := AcquireLock(context.Background(), dir, "tool", nil)
		if err != nil {
			t.Fatalf("AcquireLock failed: %v", err)
		}

		// Release twice should not error
		if err := lock.Release(); err != nil {
			t.Fatalf("first Release failed: %v", err)
		}
		if err := lock.Release(); err != nil {
			t.Fatalf("second Release should not error: %v", err)
		}
	})
}

func TestStaleLockHandling(t *testing.T) {
	t.Run("removes stale lock and acquires new one", func(t *testing.T) {
		dir := t.TempDir()

		lockPath := LockPath(dir, "tool")
		if err := os.WriteFile(lockPath, []byte("pid=99999\ntimestamp=2020-01-01T00:00:00Z\n"), 0600); err != nil {
			t.Fatalf("failed to create stale lock: %v", err)
		}

		// Set modification time to past (beyond stale threshold)
		staleTime := time.Now().Add(-StaleLockThreshold - time.Minute)
		if err := os.Chtimes(lockPath, staleTime, staleTime); err != nil {
			t.Fatalf("failed to set stale time: %v", err)
		}

		lock, err := AcquireLock(context.Background(), dir, "tool", nil)
		if err != nil {
			t.Fatalf("AcquireLock should succeed with stale lock: %v", err)
		}
		defer lock.Release()
	})

	t.Run("stale according to clock", func(t *testing.T) {
		dir := t.TempDir()

		lockPath := LockPath(dir, "tool")
		if err := os.WriteFile(lockPath, []byte("pid=99999\n"), 0600); err != nil {
			t.Fatalf("failed to create lock: %v", err)
		}

		clock := fixedClock{now: time.Now().Add(StaleLockThreshold + time.Minute)}
		lock, err := AcquireLock(context.Background(), dir, "tool", clock)
		if err != nil {
			t.Fatalf("AcquireLock should treat the lock as stale: %v", err)
		}
		defer lock.Release()
	})

	t.Run("fails for non-stale lock", func(t *testing.T) {
		dir := t.TempDir()

		if err := os.WriteFile(LockPath(dir, "tool"), []byte("pid=99999\n"), 0600); err != nil {
			t.Fatalf("failed to create lock: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
		defer cancel()

		if _, err := AcquireLock(ctx, dir, "tool", nil); err == nil {
			t.Error("expected error for non-stale lock")
		}
	})
}
