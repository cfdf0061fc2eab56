package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// cache manages the on-disk asset cache: a text/ download root with a
// locks/ directory beneath it. Entries persist until pruned or removed by
// hand; there is no background lifecycle.
type cache struct {
	// baseDir is the download root, <cacheRoot>/text.
	baseDir string

	// appName is the application name, used for the env var override.
	appName string
}

// envVarName constructs an environment variable name from the app name.
// Converts appName to uppercase and appends "_CACHE_DIR".
// Example: envVarName("xprim") returns "XPRIM_CACHE_DIR".
func envVarName(appName string) string {
	return strings.ToUpper(appName) + "_CACHE_DIR"
}

// newCache creates a cache for the given configuration.
func newCache(cfg Config) (*cache, error) {
	var rootDir string

	// Priority: env var > Config.CacheDir > platform default
	if envDir := os.Getenv(envVarName(cfg.AppName)); envDir != "" {
		rootDir = envDir
	} else if cfg.CacheDir != "" {
		rootDir = cfg.CacheDir
	} else {
		defaultDir, err := getDefaultCacheDir(cfg.AppName)
		if err != nil {
			return nil, fmt.Errorf("failed to get default cache dir: %w", err)
		}
		rootDir = defaultDir
	}

	c := &cache{baseDir: filepath.Join(rootDir, "text"), appName: cfg.AppName}

	// Ensure download root exists
	if err := c.ensureDir(c.baseDir); err != nil {
		return nil, err
	}

	return c, nil
}

// downloadRoot returns the directory downloads default into.
func (c *cache) downloadRoot() string {
	return c.baseDir
}

// lockDir returns the lock file directory, creating it if needed.
func (c *cache) lockDir() (string, error) {
	dir := filepath.Join(c.baseDir, "locks")
	if err := c.ensureDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// ensureDir creates a directory and all parent directories if they don't exist.
func (c *cache) ensureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("%w: can't create the download directory %s: %v", ErrStorageError, path, err)
	}
	return nil
}

// list returns all cached files in the download root, excluding the locks
// directory, sorted by directory walk order.
func (c *cache) list() ([]CachedAsset, error) {
	entries, err := os.ReadDir(c.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: reading cache dir: %v", ErrStorageError, err)
	}

	var cached []CachedAsset
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		// Skip leftover lock files if the cache root was reconfigured
		if strings.HasSuffix(entry.Name(), ".lock") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		cached = append(cached, CachedAsset{
			Name:    entry.Name(),
			Path:    filepath.Join(c.baseDir, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	return cached, nil
}

// prune removes the download root and everything beneath it, then
// recreates the empty directory.
func (c *cache) prune() error {
	if err := os.RemoveAll(c.baseDir); err != nil {
		return fmt.Errorf("%w: removing cache dir: %v", ErrStorageError, err)
	}
	return c.ensureDir(c.baseDir)
}
