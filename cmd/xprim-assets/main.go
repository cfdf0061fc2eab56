// Command xprim-assets is a test CLI harness for the assets package.
// It demonstrates the CLI integration and provides a working example.
//
// Configuration is loaded from the environment, optionally seeded from a
// .env file in the working directory:
//   - XPRIM_CACHE_DIR: Override for the cache directory (optional)
//   - XPRIM_RATE_LIMIT: Download throttle in bytes per second (optional)
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	assets "github.com/prethora/xprim-assets"
)

// CLI exit codes for standardized error reporting.
const (
	// ExitSuccess indicates the operation completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitInvalidArgs indicates invalid command line arguments or an
	// unsupported hash algorithm.
	ExitInvalidArgs = 2

	// ExitHashMismatch indicates hash verification failed.
	ExitHashMismatch = 3

	// ExitLockTimeout indicates the download lock could not be acquired.
	ExitLockTimeout = 4

	// ExitTransferError indicates the transfer backend failed.
	ExitTransferError = 5

	// ExitStorageError indicates a filesystem operation failed.
	ExitStorageError = 6

	// ExitBadArchive indicates an unsupported or invalid archive.
	ExitBadArchive = 7
)

func main() {
	// A .env file is optional; real environment variables win.
	_ = godotenv.Load()

	cfg := assets.Config{
		AppName: "xprim",
		// CacheDir can be set via XPRIM_CACHE_DIR env var (handled by the cache layer)
	}

	opts := []assets.ResolverOption{
		assets.WithLogger(slogLogger{slog.Default()}),
	}
	if rate := os.Getenv("XPRIM_RATE_LIMIT"); rate != "" {
		bytesPerSec, err := strconv.ParseInt(rate, 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid XPRIM_RATE_LIMIT %q\n", rate)
			os.Exit(ExitInvalidArgs)
		}
		opts = append(opts, assets.WithRateLimit(bytesPerSec))
	}

	cmd := assets.NewCommand(cfg, opts...)
	if err := cmd.Execute(); err != nil {
		os.Exit(exitCodeFromError(err))
	}
}

// exitCodeFromError maps error types to exit codes.
func exitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, assets.ErrUnsupportedHash):
		return ExitInvalidArgs
	case errors.Is(err, assets.ErrHashMismatch):
		return ExitHashMismatch
	case errors.Is(err, assets.ErrLockTimeout):
		return ExitLockTimeout
	case errors.Is(err, assets.ErrTransferError):
		return ExitTransferError
	case errors.Is(err, assets.ErrStorageError):
		return ExitStorageError
	case errors.Is(err, assets.ErrUnsupportedFormat):
		return ExitBadArchive
	case errors.Is(err, assets.ErrInvalidArchive):
		return ExitBadArchive
	default:
		return ExitGeneralError
	}
}

// slogLogger adapts *slog.Logger to the assets.Logger interface.
type slogLogger struct {
	l *slog.Logger
}

func (s slogLogger) Debug(msg string, keysAndValues ...any) { s.l.Debug(msg, keysAndValues...) }
func (s slogLogger) Info(msg string, keysAndValues ...any)  { s.l.Info(msg, keysAndValues...) }
func (s slogLogger) Warn(msg string, keysAndValues ...any)  { s.l.Warn(msg, keysAndValues...) }
func (s slogLogger) Error(msg string, keysAndValues ...any) { s.l.Error(msg, keysAndValues...) }
