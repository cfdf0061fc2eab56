package assets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnvVarName(t *testing.T) {
	tests := []struct {
		appName string
		want    string
	}{
		{"xprim", "XPRIM_CACHE_DIR"},
		{"myapp", "MYAPP_CACHE_DIR"},
		{"MyApp", "MYAPP_CACHE_DIR"},
		{"my-app", "MY-APP_CACHE_DIR"},
	}

	for _, tt := range tests {
		t.Run(tt.appName, func(t *testing.T) {
			got := envVarName(tt.appName)
			if got != tt.want {
				t.Errorf("envVarName(%q) = %q, want %q", tt.appName, got, tt.want)
			}
		})
	}
}

func TestNewCacheWithCacheDir(t *testing.T) {
	tmpDir := t.TempDir()

	c, err := newCache(Config{AppName: "testapp", CacheDir: tmpDir})
	if err != nil {
		t.Fatalf("newCache() error = %v", err)
	}

	want := filepath.Join(tmpDir, "text")
	if c.downloadRoot() != want {
		t.Errorf("downloadRoot() = %q, want %q", c.downloadRoot(), want)
	}

	// The download root is created eagerly.
	if info, err := os.Stat(want); err != nil || !info.IsDir() {
		t.Errorf("download root %s was not created: %v", want, err)
	}
}

func TestNewCacheWithEnvVar(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv(envVarName("testenvapp"), tmpDir)

	c, err := newCache(Config{AppName: "testenvapp", CacheDir: "/should/be/ignored"})
	if err != nil {
		t.Fatalf("newCache() error = %v", err)
	}

	want := filepath.Join(tmpDir, "text")
	if c.downloadRoot() != want {
		t.Errorf("downloadRoot() = %q, want %q (env var should win)", c.downloadRoot(), want)
	}
}

func TestCacheLockDir(t *testing.T) {
	tmpDir := t.TempDir()

	c, err := newCache(Config{AppName: "testapp", CacheDir: tmpDir})
	if err != nil {
		t.Fatalf("newCache() error = %v", err)
	}

	dir, err := c.lockDir()
	if err != nil {
		t.Fatalf("lockDir() error = %v", err)
	}

	want := filepath.Join(tmpDir, "text", "locks")
	if dir != want {
		t.Errorf("lockDir() = %q, want %q", dir, want)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("lock dir %s was not created: %v", dir, err)
	}
}

func TestCacheList(t *testing.T) {
	t.Run("lists files, skips locks directory", func(t *testing.T) {
		tmpDir := t.TempDir()
		c, err := newCache(Config{AppName: "testapp", CacheDir: tmpDir})
		if err != nil {
			t.Fatalf("newCache() error = %v", err)
		}
		if _, err := c.lockDir(); err != nil {
			t.Fatalf("lockDir() error = %v", err)
		}

		if err := os.WriteFile(filepath.Join(c.downloadRoot(), "model.bin"), []byte("weights"), 0644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		cached, err := c.list()
		if err != nil {
			t.Fatalf("list() error = %v", err)
		}
		if len(cached) != 1 {
			t.Fatalf("list() returned %d entries, want 1", len(cached))
		}
		if cached[0].Name != "model.bin" {
			t.Errorf("Name = %q, want %q", cached[0].Name, "model.bin")
		}
		if cached[0].Size != int64(len("weights")) {
			t.Errorf("Size = %d, want %d", cached[0].Size, len("weights"))
		}
	})

	t.Run("empty cache", func(t *testing.T) {
		tmpDir := t.TempDir()
		c, err := newCache(Config{AppName: "testapp", CacheDir: tmpDir})
		if err != nil {
			t.Fatalf("newCache() error = %v", err)
		}

		cached, err := c.list()
		if err != nil {
			t.Fatalf("list() error = %v", err)
		}
		if len(cached) != 0 {
			t.Errorf("list() returned %d entries, want 0", len(cached))
		}
	})
}

func TestCachePrune(t *testing.T) {
	tmpDir := t.TempDir()
	c, err := newCache(Config{AppName: "testapp", CacheDir: tmpDir})
	if err != nil {
		t.Fatalf("newCache() error = %v", err)
	}

	if err := os.WriteFile(filepath.Join(c.downloadRoot(), "model.bin"), []byte("weights"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if err := c.prune(); err != nil {
		t.Fatalf("prune() error = %v", err)
	}

	cached, err := c.list()
	if err != nil {
		t.Fatalf("list() error = %v", err)
	}
	if len(cached) != 0 {
		t.Errorf("list() after prune returned %d entries, want 0", len(cached))
	}

	// The download root itself survives for future downloads.
	if info, err := os.Stat(c.downloadRoot()); err != nil || !info.IsDir() {
		t.Errorf("download root missing after prune: %v", err)
	}
}
