package assets

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
)

// Resolve returns a local path for an asset reference.
// A reference naming an existing filesystem entry is returned unchanged
// with no lock taken and no download performed. Anything else is treated as
// a URL and downloaded into the cache; failures surface from Download.
func (r *resolver) Resolve(ctx context.Context, assetRef string, opts ...DownloadOption) (string, error) {
	if _, err := os.Stat(assetRef); err == nil {
		if r.logger != nil {
			r.logger.Debug("asset resolved locally", "path", assetRef)
		}
		return assetRef, nil
	}

	opts = append(opts, WithRootDir(r.cache.downloadRoot()))
	return r.Download(ctx, assetRef, opts...)
}

// Download fetches a remote resource into the cache, serialized per
// destination filename by an advisory file lock.
//
// Inside the lock, an existing destination is returned as-is (after
// re-verification when a hash was supplied) unless WithOverwrite forces a
// re-transfer. A fresh transfer is verified the same way. Hash mismatches
// are fatal and never repaired or retried; the file stays on disk for
// manual inspection.
func (r *resolver) Download(ctx context.Context, rawURL string, opts ...DownloadOption) (string, error) {
	cfg := newDownloadConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	// Configuration errors fail before any I/O.
	if cfg.hashValue != "" {
		if err := cfg.hashAlgo.valid(); err != nil {
			return "", err
		}
	}

	dest, root, err := destinationFor(rawURL, cfg)
	if err != nil {
		return "", err
	}
	filename := filepath.Base(dest)

	lockDir, err := r.cache.lockDir()
	if err != nil {
		return "", err
	}

	// One lock per destination filename: downloads of different files never
	// contend, downloads of the same file serialize across processes.
	lock, err := newFileLock(filepath.Join(lockDir, filename+".lock"), r.lockTimeout)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorageError, err)
	}
	if err := lock.Lock(); err != nil {
		return "", err
	}
	defer lock.Unlock()

	if _, err := os.Stat(dest); err == nil {
		if r.logger != nil {
			r.logger.Info("file already exists", "path", dest)
		}
		if !cfg.overwrite {
			if cfg.hashValue != "" {
				if err := checkHash(dest, cfg.hashValue, cfg.hashAlgo, r.logger); err != nil {
					return "", err
				}
			}
			return dest, nil
		}
	}

	if err := r.cache.ensureDir(root); err != nil {
		return "", err
	}

	if err := r.transfer.Transfer(ctx, rawURL, dest, cfg.progressFn); err != nil {
		return "", err
	}
	if r.logger != nil {
		r.logger.Info("file downloaded", "url", rawURL, "path", dest)
	}

	if cfg.hashValue != "" {
		if err := checkHash(dest, cfg.hashValue, cfg.hashAlgo, r.logger); err != nil {
			return "", err
		}
	}

	return dest, nil
}

// destinationFor computes the absolute destination path and its parent
// directory. Exactly one of destPath or (rootDir, URL-derived filename)
// determines the result.
func destinationFor(rawURL string, cfg *downloadConfig) (dest, root string, err error) {
	if cfg.destPath != "" {
		dest, err = filepath.Abs(cfg.destPath)
		if err != nil {
			return "", "", fmt.Errorf("%w: resolving destination %s: %v", ErrStorageError, cfg.destPath, err)
		}
		return dest, filepath.Dir(dest), nil
	}

	root, err = filepath.Abs(cfg.rootDir)
	if err != nil {
		return "", "", fmt.Errorf("%w: resolving root %s: %v", ErrStorageError, cfg.rootDir, err)
	}
	return filepath.Join(root, filenameFromURL(rawURL)), root, nil
}

// filenameFromURL derives the destination filename from the URL path,
// ignoring any query string or fragment.
func filenameFromURL(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(rawURL)
}
