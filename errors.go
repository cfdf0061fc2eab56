package assets

import "errors"

// Sentinel errors for asset resolution operations.
// Use errors.Is() to check for specific error conditions.
var (
	// ErrUnsupportedHash indicates an unknown hash algorithm was requested.
	// Returned before any file is opened or read.
	ErrUnsupportedHash = errors.New("assets: unsupported hash algorithm")

	// ErrHashMismatch indicates a file failed hash verification.
	// The file is left in place; the error message names the absolute path
	// so it can be inspected and deleted manually.
	ErrHashMismatch = errors.New("assets: hash verification failed")

	// ErrLockTimeout indicates the download lock could not be acquired
	// within the configured timeout.
	ErrLockTimeout = errors.New("assets: download lock timeout")

	// ErrStorageError indicates a filesystem operation failed.
	ErrStorageError = errors.New("assets: storage error")

	// ErrTransferError indicates the transfer backend failed to fetch
	// the resource (network error, non-success status, etc.).
	ErrTransferError = errors.New("assets: transfer failed")

	// ErrUnsupportedFormat indicates an archive suffix is not recognized.
	ErrUnsupportedFormat = errors.New("assets: unsupported archive format")

	// ErrInvalidArchive indicates a .zip file failed its well-formedness
	// check before extraction.
	ErrInvalidArchive = errors.New("assets: invalid archive")
)
