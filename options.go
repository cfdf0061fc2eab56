package assets

import (
	"net/http"
	"time"
)

const (
	// DefaultLockTimeout is the maximum duration to wait for the per-file
	// download lock. Waiting longer fails the download, it is never retried.
	DefaultLockTimeout = 600 * time.Second

	// hashChunkSize is the fixed read size used when streaming a file
	// through a digest.
	hashChunkSize = 1 << 20 // 1 MiB

	// gzipBlockSize is the write block size for single-file gzip extraction.
	gzipBlockSize = 64 * 1024
)

// ResolverOption configures a Resolver.
type ResolverOption func(*resolverConfig)

// resolverConfig holds configuration for Resolver construction.
type resolverConfig struct {
	// httpClient is used by the default HTTP transfer backend.
	httpClient HTTPClient

	// logger receives diagnostic log messages.
	logger Logger

	// transferer overrides the default HTTP transfer backend.
	transferer Transferer

	// bytesPerSec throttles the default transfer backend. 0 means unlimited.
	bytesPerSec int64

	// lockTimeout bounds download lock acquisition.
	lockTimeout time.Duration
}

// newResolverConfig returns a resolverConfig with default values.
func newResolverConfig() *resolverConfig {
	return &resolverConfig{
		httpClient:  http.DefaultClient,
		lockTimeout: DefaultLockTimeout,
	}
}

// WithHTTPClient sets a custom HTTP client for the default transfer backend.
// Useful for testing with mock servers or customizing timeouts.
// If not set, http.DefaultClient is used.
func WithHTTPClient(client HTTPClient) ResolverOption {
	return func(c *resolverConfig) {
		c.httpClient = client
	}
}

// WithLogger sets a logger for diagnostic output.
// If not set, logging is disabled.
func WithLogger(logger Logger) ResolverOption {
	return func(c *resolverConfig) {
		c.logger = logger
	}
}

// WithTransferer replaces the default HTTP transfer backend.
func WithTransferer(t Transferer) ResolverOption {
	return func(c *resolverConfig) {
		c.transferer = t
	}
}

// WithRateLimit throttles the default transfer backend to bytesPerSec.
// Values below 1 disable throttling. Has no effect when WithTransferer
// supplies a custom backend.
func WithRateLimit(bytesPerSec int64) ResolverOption {
	return func(c *resolverConfig) {
		if bytesPerSec < 1 {
			bytesPerSec = 0
		}
		c.bytesPerSec = bytesPerSec
	}
}

// WithLockTimeout overrides DefaultLockTimeout for download lock acquisition.
func WithLockTimeout(d time.Duration) ResolverOption {
	return func(c *resolverConfig) {
		if d > 0 {
			c.lockTimeout = d
		}
	}
}

// DownloadOption configures a download operation.
type DownloadOption func(*downloadConfig)

// downloadConfig holds configuration for a single download.
type downloadConfig struct {
	// destPath is the explicit destination path. When set, rootDir is
	// ignored and the parent directory is derived from it.
	destPath string

	// rootDir is the directory the destination filename is joined to when
	// destPath is not set. Defaults to the resolver's cache directory.
	rootDir string

	// overwrite forces a re-transfer even when the destination exists.
	overwrite bool

	// hashValue is the expected hex digest. Empty disables verification.
	hashValue string

	// hashAlgo selects the digest for verification.
	hashAlgo HashAlgorithm

	// progressFn receives byte deltas as the transfer proceeds.
	progressFn func(delta int64)
}

// newDownloadConfig returns a downloadConfig with default values.
func newDownloadConfig() *downloadConfig {
	return &downloadConfig{
		hashAlgo: HashSHA256,
	}
}

// WithDestPath sets the exact destination path for the download.
func WithDestPath(path string) DownloadOption {
	return func(c *downloadConfig) {
		c.destPath = path
	}
}

// WithRootDir sets the directory the URL-derived filename is stored in.
// Ignored when WithDestPath is given.
func WithRootDir(dir string) DownloadOption {
	return func(c *downloadConfig) {
		c.rootDir = dir
	}
}

// WithOverwrite forces a re-transfer even if the destination already exists.
func WithOverwrite() DownloadOption {
	return func(c *downloadConfig) {
		c.overwrite = true
	}
}

// WithHash sets the expected digest for the downloaded file. The hex value
// is compared case-sensitively. An existing cached file is re-verified, not
// re-fetched.
func WithHash(algo HashAlgorithm, value string) DownloadOption {
	return func(c *downloadConfig) {
		c.hashAlgo = algo
		c.hashValue = value
	}
}

// WithProgress sets a callback receiving byte deltas during the transfer.
func WithProgress(fn func(delta int64)) DownloadOption {
	return func(c *downloadConfig) {
		c.progressFn = fn
	}
}

// ExtractOption configures an extraction operation.
type ExtractOption func(*extractConfig)

// extractConfig holds configuration for a single extraction.
type extractConfig struct {
	// toPath is the directory entries are extracted into.
	// Defaults to the archive's own directory.
	toPath string

	// overwrite re-extracts entries whose target already exists.
	overwrite bool
}

// WithExtractDir sets the directory archive entries are extracted into.
// If not set, the archive's own directory is used.
func WithExtractDir(dir string) ExtractOption {
	return func(c *extractConfig) {
		c.toPath = dir
	}
}

// WithExtractOverwrite re-extracts entries whose target files already exist.
// Without it, existing files are left untouched but still reported in the
// returned listing.
func WithExtractOverwrite() ExtractOption {
	return func(c *extractConfig) {
		c.overwrite = true
	}
}

// HTTPClient is the interface for HTTP operations.
// *http.Client satisfies this interface.
type HTTPClient interface {
	// Do sends an HTTP request and returns an HTTP response.
	Do(req *http.Request) (*http.Response, error)
}

// Logger is the interface for diagnostic logging.
// Compatible with slog, zap, logrus, and other structured loggers.
type Logger interface {
	// Debug logs a debug-level message with optional key-value pairs.
	Debug(msg string, keysAndValues ...any)

	// Info logs an info-level message with optional key-value pairs.
	Info(msg string, keysAndValues ...any)

	// Warn logs a warning-level message with optional key-value pairs.
	Warn(msg string, keysAndValues ...any)

	// Error logs an error-level message with optional key-value pairs.
	Error(msg string, keysAndValues ...any)
}
