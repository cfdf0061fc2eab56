package assets

import (
	"fmt"
	"strings"
	"time"
)

// Config configures the assets module.
type Config struct {
	// AppName determines the cache directory name.
	// Example: "xprim" → ~/.cache/xprim/text/ on Linux
	AppName string

	// CacheDir overrides the default cache directory.
	// If empty, uses platform-appropriate default.
	// Can also be set via environment variable: <APPNAME>_CACHE_DIR
	CacheDir string
}

// HashAlgorithm identifies a supported digest for file verification.
// The set is closed: only SHA-256 and MD5 are accepted, and anything else
// is rejected at the boundary before any file is read.
type HashAlgorithm int

const (
	// HashSHA256 selects SHA-256 verification. This is the zero value and
	// the default algorithm.
	HashSHA256 HashAlgorithm = iota

	// HashMD5 selects MD5 verification.
	HashMD5
)

// String returns the canonical lowercase name of the algorithm.
func (a HashAlgorithm) String() string {
	switch a {
	case HashSHA256:
		return "sha256"
	case HashMD5:
		return "md5"
	default:
		return fmt.Sprintf("hash(%d)", int(a))
	}
}

// valid reports whether the algorithm is a member of the closed set.
func (a HashAlgorithm) valid() error {
	switch a {
	case HashSHA256, HashMD5:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedHash, a)
	}
}

// ParseHashAlgorithm parses "sha256" or "md5" into a HashAlgorithm.
// Returns ErrUnsupportedHash for anything else.
func ParseHashAlgorithm(s string) (HashAlgorithm, error) {
	switch s {
	case "sha256":
		return HashSHA256, nil
	case "md5":
		return HashMD5, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedHash, s)
	}
}

// ArchiveFormat identifies a supported archive container, chosen once from
// the filename suffix and then handled by a dedicated extraction strategy.
type ArchiveFormat int

const (
	// FormatUnsupported means the suffix matched no supported container.
	FormatUnsupported ArchiveFormat = iota

	// FormatTarGzip is a gzip-compressed tar archive (.tar.gz, .tgz).
	FormatTarGzip

	// FormatZip is a zip archive (.zip).
	FormatZip

	// FormatGzipFile is a single gzip-compressed file (.gz).
	FormatGzipFile
)

// String returns a human-readable name for the format.
func (f ArchiveFormat) String() string {
	switch f {
	case FormatTarGzip:
		return "tar.gz"
	case FormatZip:
		return "zip"
	case FormatGzipFile:
		return "gz"
	default:
		return "unsupported"
	}
}

// FormatForPath classifies a path by filename suffix. Suffixes are checked
// in order: .tar.gz/.tgz, then .zip, then .gz, so a .tar.gz never falls
// through to the single-file gzip strategy. No magic bytes are sniffed.
func FormatForPath(path string) ArchiveFormat {
	switch {
	case strings.HasSuffix(path, ".tar.gz"), strings.HasSuffix(path, ".tgz"):
		return FormatTarGzip
	case strings.HasSuffix(path, ".zip"):
		return FormatZip
	case strings.HasSuffix(path, ".gz"):
		return FormatGzipFile
	default:
		return FormatUnsupported
	}
}

// CachedAsset describes one file in the download cache.
type CachedAsset struct {
	// Name is the filename within the cache directory.
	Name string `json:"name"`

	// Path is the absolute path to the cached file.
	Path string `json:"path"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`

	// ModTime is the file's last modification time.
	ModTime time.Time `json:"mod_time"`
}
