package assets

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestFileLock(t *testing.T) {
	t.Run("acquire and release", func(t *testing.T) {
		tmpDir := t.TempDir()
		lock, err := newFileLock(filepath.Join(tmpDir, "a.lock"), time.Second)
		if err != nil {
			t.Fatalf("newFileLock() error = %v", err)
		}

		if err := lock.Lock(); err != nil {
			t.Fatalf("Lock() error = %v", err)
		}
		if err := lock.Unlock(); err != nil {
			t.Errorf("Unlock() error = %v", err)
		}
	})

	t.Run("lock is reentrant for the same instance", func(t *testing.T) {
		tmpDir := t.TempDir()
		lock, err := newFileLock(filepath.Join(tmpDir, "a.lock"), time.Second)
		if err != nil {
			t.Fatalf("newFileLock() error = %v", err)
		}
		defer lock.Unlock()

		if err := lock.Lock(); err != nil {
			t.Fatalf("first Lock() error = %v", err)
		}
		if err := lock.Lock(); err != nil {
			t.Errorf("second Lock() error = %v", err)
		}
	})

	t.Run("contended lock times out with ErrLockTimeout", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "a.lock")

		holder, err := newFileLock(path, time.Second)
		if err != nil {
			t.Fatalf("newFileLock() error = %v", err)
		}
		if err := holder.Lock(); err != nil {
			t.Fatalf("holder Lock() error = %v", err)
		}
		defer holder.Unlock()

		waiter, err := newFileLock(path, 100*time.Millisecond)
		if err != nil {
			t.Fatalf("newFileLock() error = %v", err)
		}
		defer waiter.Unlock()

		err = waiter.Lock()
		if !errors.Is(err, ErrLockTimeout) {
			t.Errorf("waiter Lock() error = %v, want ErrLockTimeout", err)
		}
	})

	t.Run("different lock files do not contend", func(t *testing.T) {
		tmpDir := t.TempDir()

		a, err := newFileLock(filepath.Join(tmpDir, "a.lock"), 100*time.Millisecond)
		if err != nil {
			t.Fatalf("newFileLock() error = %v", err)
		}
		defer a.Unlock()
		b, err := newFileLock(filepath.Join(tmpDir, "b.lock"), 100*time.Millisecond)
		if err != nil {
			t.Fatalf("newFileLock() error = %v", err)
		}
		defer b.Unlock()

		if err := a.Lock(); err != nil {
			t.Fatalf("a.Lock() error = %v", err)
		}
		if err := b.Lock(); err != nil {
			t.Errorf("b.Lock() error = %v, want nil", err)
		}
	})

	t.Run("unlock is safe to call twice", func(t *testing.T) {
		tmpDir := t.TempDir()
		lock, err := newFileLock(filepath.Join(tmpDir, "a.lock"), time.Second)
		if err != nil {
			t.Fatalf("newFileLock() error = %v", err)
		}

		if err := lock.Lock(); err != nil {
			t.Fatalf("Lock() error = %v", err)
		}
		if err := lock.Unlock(); err != nil {
			t.Errorf("first Unlock() error = %v", err)
		}
		if err := lock.Unlock(); err != nil {
			t.Errorf("second Unlock() error = %v", err)
		}
	})

	t.Run("lock released by holder can be acquired", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "a.lock")

		holder, err := newFileLock(path, time.Second)
		if err != nil {
			t.Fatalf("newFileLock() error = %v", err)
		}
		if err := holder.Lock(); err != nil {
			t.Fatalf("holder Lock() error = %v", err)
		}
		if err := holder.Unlock(); err != nil {
			t.Fatalf("holder Unlock() error = %v", err)
		}

		next, err := newFileLock(path, time.Second)
		if err != nil {
			t.Fatalf("newFileLock() error = %v", err)
		}
		defer next.Unlock()

		if err := next.Lock(); err != nil {
			t.Errorf("next Lock() error = %v, want nil", err)
		}
	})
}
