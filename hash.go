package assets

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
)

// ValidateFile streams r through the selected digest in fixed 1 MiB chunks
// and reports whether the final hex digest equals hashValue. The comparison
// is case-sensitive and byte-for-byte.
//
// The algorithm is checked before anything is read; an algorithm outside
// {HashSHA256, HashMD5} returns ErrUnsupportedHash immediately.
func ValidateFile(r io.Reader, hashValue string, algo HashAlgorithm) (bool, error) {
	var h hash.Hash
	switch algo {
	case HashSHA256:
		h = sha256.New()
	case HashMD5:
		h = md5.New()
	default:
		return false, fmt.Errorf("%w: %s", ErrUnsupportedHash, algo)
	}

	buf := make([]byte, hashChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return false, fmt.Errorf("%w: reading file: %v", ErrStorageError, err)
		}
	}

	return hex.EncodeToString(h.Sum(nil)) == hashValue, nil
}

// checkHash verifies the file at path against the expected digest.
// A mismatch is fatal and leaves the file in place: the error names the
// absolute path and instructs manual deletion, it never auto-repairs.
func checkHash(path, hashValue string, algo HashAlgorithm, logger Logger) error {
	// Reject bad algorithms before opening the file.
	if err := algo.valid(); err != nil {
		return err
	}

	if logger != nil {
		logger.Info("validating hash", "algorithm", algo.String(), "expected", hashValue, "path", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %v", ErrStorageError, path, err)
	}
	defer f.Close()

	ok, err := ValidateFile(f, hashValue, algo)
	if err != nil {
		return err
	}
	if !ok {
		abs, absErr := filepath.Abs(path)
		if absErr != nil {
			abs = path
		}
		return fmt.Errorf("%w: the hash of %s does not match, delete the file manually and retry", ErrHashMismatch, abs)
	}
	return nil
}
