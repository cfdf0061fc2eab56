// Package assets resolves externally sourced files (model weights, fonts,
// datasets) referenced by local path or remote URL into local filesystem
// paths, downloading and caching them as needed.
//
// The package serves two primary use cases:
//
//  1. Programmatic API via the Resolver interface - Applications can use
//     NewResolver to create a Resolver that resolves asset references,
//     performs locked downloads with hash verification, and extracts
//     downloaded archives.
//
//  2. Embeddable CLI via NewCommand - Parent CLI tools can attach a complete
//     "assets" subcommand tree to their Cobra root command, providing
//     commands like "mytool assets get", "mytool assets fetch", etc.
//
// # Downloads
//
// Downloads are serialized per destination filename with an advisory file
// lock, so two processes fetching the same file never race: the first
// performs the transfer and the second finds the finished file. Two
// processes fetching different files never contend. Lock acquisition is
// bounded; a process waiting longer than DefaultLockTimeout fails rather
// than retrying.
//
// # Content Verification
//
// Callers may supply an expected SHA-256 or MD5 digest for a download. The
// file is streamed through the digest in fixed 1 MiB chunks and a mismatch
// is fatal. A mismatching file is never deleted automatically; the error
// names the absolute path so the file can be inspected and removed manually.
//
// # Cache
//
// Assets are cached in platform-appropriate directories:
//   - Linux: $XDG_CACHE_HOME/<app>/text/ or ~/.cache/<app>/text/
//   - macOS: ~/Library/Caches/<app>/text/
//   - Windows: %LOCALAPPDATA%\<app>\text\
//
// The cache location can be overridden via Config.CacheDir or the
// <APPNAME>_CACHE_DIR environment variable. Cached entries persist until
// removed with Prune or by hand.
package assets
