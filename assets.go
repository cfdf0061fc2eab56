package assets

import (
	"context"
	"errors"
	"time"
)

// Resolver provides local paths for assets referenced by path or URL.
// All methods are safe for concurrent use; downloads of the same filename
// additionally serialize across processes via an advisory file lock.
// For CLI integration, use NewCommand instead.
type Resolver interface {
	// Resolve returns a local path for an asset reference.
	// An existing local path is returned unchanged; a URL is downloaded
	// into the cache first.
	Resolve(ctx context.Context, assetRef string, opts ...DownloadOption) (string, error)

	// Download fetches a URL into the cache (or an explicit destination)
	// under a per-filename advisory lock, verifying the hash when one is
	// supplied, and returns the local path.
	Download(ctx context.Context, url string, opts ...DownloadOption) (string, error)

	// Extract unpacks a .tar.gz/.tgz, .zip or .gz archive and returns the
	// target paths of its file entries in archive order, including entries
	// that already existed and were not overwritten.
	Extract(fromPath string, opts ...ExtractOption) ([]string, error)

	// CacheDir returns the absolute path of the download cache directory.
	CacheDir() string

	// List returns all files currently in the download cache.
	List(ctx context.Context) ([]CachedAsset, error)

	// Prune removes all files from the download cache, including any
	// stale lock files.
	Prune(ctx context.Context) error
}

// resolver is the concrete implementation of the Resolver interface.
type resolver struct {
	// cfg holds the module configuration.
	cfg Config

	// cache handles cache directory layout and maintenance.
	cache *cache

	// transfer fetches remote resources to local files.
	transfer Transferer

	// logger receives diagnostic messages. May be nil.
	logger Logger

	// lockTimeout bounds download lock acquisition.
	lockTimeout time.Duration
}

// Ensure resolver implements Resolver interface.
var _ Resolver = (*resolver)(nil)

// NewResolver creates a new Resolver with the given configuration.
// Returns an error if the configuration is invalid (empty AppName) or the
// cache directory cannot be created.
func NewResolver(cfg Config, opts ...ResolverOption) (Resolver, error) {
	if cfg.AppName == "" {
		return nil, errors.New("assets: AppName is required")
	}

	rcfg := newResolverConfig()
	for _, opt := range opts {
		opt(rcfg)
	}

	c, err := newCache(cfg)
	if err != nil {
		return nil, err
	}

	transfer := rcfg.transferer
	if transfer == nil {
		transfer = newHTTPTransferer(rcfg.httpClient, rcfg.logger, rcfg.bytesPerSec)
	}

	return &resolver{
		cfg:         cfg,
		cache:       c,
		transfer:    transfer,
		logger:      rcfg.logger,
		lockTimeout: rcfg.lockTimeout,
	}, nil
}

// CacheDir returns the absolute path of the download cache directory.
func (r *resolver) CacheDir() string {
	return r.cache.downloadRoot()
}

// List returns all files currently in the download cache.
func (r *resolver) List(ctx context.Context) ([]CachedAsset, error) {
	return r.cache.list()
}

// Prune removes all files from the download cache.
func (r *resolver) Prune(ctx context.Context) error {
	return r.cache.prune()
}
