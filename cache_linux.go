//go:build linux

package assets

import (
	"os"
	"path/filepath"
)

// getDefaultCacheDir returns the default cache directory for Linux.
// Uses $XDG_CACHE_HOME/<appName>/ if set, otherwise ~/.cache/<appName>/
func getDefaultCacheDir(appName string) (string, error) {
	if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
		return filepath.Join(xdgCache, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
