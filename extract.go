package assets

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
)

// Extract unpacks an archive and returns the target paths of its file
// entries in archive order.
//
// The container format is chosen once from the filename suffix: .tar.gz and
// .tgz are gzip-compressed tar archives, .zip is a zip archive, and .gz is
// a single compressed file whose target name is the source minus the .gz
// suffix. Any other suffix fails with ErrUnsupportedFormat; magic bytes are
// never sniffed.
//
// Entries whose target file already exists are skipped unless
// WithExtractOverwrite is given, but still appear in the returned listing,
// so the caller always learns the full set of files the archive contains.
// Partially written files are not cleaned up on failure.
func (r *resolver) Extract(fromPath string, opts ...ExtractOption) ([]string, error) {
	cfg := &extractConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	toPath := cfg.toPath
	if toPath == "" {
		toPath = filepath.Dir(fromPath)
	}

	switch FormatForPath(fromPath) {
	case FormatTarGzip:
		return r.extractTarGzip(fromPath, toPath, cfg.overwrite)
	case FormatZip:
		return r.extractZip(fromPath, toPath, cfg.overwrite)
	case FormatGzipFile:
		return r.extractGzipFile(fromPath)
	default:
		return nil, fmt.Errorf("%w: %s (supported: .tar.gz, .tgz, .zip, .gz)", ErrUnsupportedFormat, fromPath)
	}
}

// extractTarGzip unpacks a gzip-compressed tar archive.
// Non-file entries (directories, symlinks) are not overwrite-guarded and
// are extracted unconditionally; device and fifo entries are skipped.
func (r *resolver) extractTarGzip(fromPath, toPath string, overwrite bool) ([]string, error) {
	if r.logger != nil {
		r.logger.Info("opening tar file", "path", fromPath)
	}

	f, err := os.Open(fromPath)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrStorageError, fromPath, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidArchive, fromPath, err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	var files []string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrInvalidArchive, fromPath, err)
		}

		if !filepath.IsLocal(hdr.Name) {
			return nil, fmt.Errorf("%w: %s: entry %q escapes the extraction directory", ErrInvalidArchive, fromPath, hdr.Name)
		}

		target := filepath.Join(toPath, hdr.Name)
		switch hdr.Typeflag {
		case tar.TypeReg:
			files = append(files, target)
			if _, err := os.Stat(target); err == nil {
				if r.logger != nil {
					r.logger.Info("already extracted", "path", target)
				}
				if !overwrite {
					continue
				}
			}
			if err := writeTarFile(target, tr, hdr.FileInfo().Mode()); err != nil {
				return nil, err
			}
		case tar.TypeDir:
			if err := os.MkdirAll(target, hdr.FileInfo().Mode().Perm()|0700); err != nil {
				return nil, fmt.Errorf("%w: creating directory %s: %v", ErrStorageError, target, err)
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return nil, fmt.Errorf("%w: creating directory for %s: %v", ErrStorageError, target, err)
			}
			// A stale link from a previous extraction would make Symlink fail.
			if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: replacing %s: %v", ErrStorageError, target, err)
			}
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return nil, fmt.Errorf("%w: linking %s: %v", ErrStorageError, target, err)
			}
		default:
			// Device, fifo and hardlink entries have no place in a data
			// archive; note and move on.
			if r.logger != nil {
				r.logger.Warn("skipping unsupported tar entry", "name", hdr.Name, "type", hdr.Typeflag)
			}
		}
	}

	if r.logger != nil {
		r.logger.Info("finished extracting tar file", "path", fromPath)
	}
	return files, nil
}

// writeTarFile writes one regular-file tar entry to target.
func writeTarFile(target string, tr *tar.Reader, mode os.FileMode) error {
	// Archives need not list parent directories before their files.
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("%w: creating directory for %s: %v", ErrStorageError, target, err)
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrStorageError, target, err)
	}
	if _, err := io.Copy(out, tr); err != nil {
		out.Close()
		return fmt.Errorf("%w: extracting %s: %v", ErrStorageError, target, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %v", ErrStorageError, target, err)
	}
	return nil
}

// extractZip unpacks a zip archive. The archive must pass a well-formedness
// check before extraction begins. Directory entries in the namelist are
// extracted but the final listing is filtered to entries that are regular
// files on disk.
func (r *resolver) extractZip(fromPath, toPath string, overwrite bool) ([]string, error) {
	// Validity check and open in one step: a malformed zip fails here
	// before anything is written.
	zr, err := zip.OpenReader(fromPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidArchive, fromPath, err)
	}
	defer zr.Close()

	if r.logger != nil {
		r.logger.Info("opening zip file", "path", fromPath)
	}

	var files []string
	for _, entry := range zr.File {
		if !filepath.IsLocal(entry.Name) {
			return nil, fmt.Errorf("%w: %s: entry %q escapes the extraction directory", ErrInvalidArchive, fromPath, entry.Name)
		}

		target := filepath.Join(toPath, entry.Name)
		files = append(files, target)

		if _, err := os.Stat(target); err == nil {
			if r.logger != nil {
				r.logger.Info("already extracted", "path", target)
			}
			if !overwrite {
				continue
			}
		}

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, entry.Mode().Perm()|0700); err != nil {
				return nil, fmt.Errorf("%w: creating directory %s: %v", ErrStorageError, target, err)
			}
			continue
		}

		if err := writeZipFile(target, entry); err != nil {
			return nil, err
		}
	}

	// Directory entries were listed during iteration but only regular
	// files belong in the result.
	regular := make([]string, 0, len(files))
	for _, p := range files {
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			regular = append(regular, p)
		}
	}

	if r.logger != nil {
		r.logger.Info("finished extracting zip file", "path", fromPath)
	}
	return regular, nil
}

// writeZipFile writes one zip entry to target.
func writeZipFile(target string, entry *zip.File) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("%w: creating directory for %s: %v", ErrStorageError, target, err)
	}

	rc, err := entry.Open()
	if err != nil {
		return fmt.Errorf("%w: opening entry %s: %v", ErrInvalidArchive, entry.Name, err)
	}
	defer rc.Close()

	mode := entry.Mode().Perm()
	if mode == 0 {
		mode = 0644
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrStorageError, target, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("%w: extracting %s: %v", ErrStorageError, target, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %v", ErrStorageError, target, err)
	}
	return nil
}

// extractGzipFile decompresses a single-file gzip stream. The target is the
// source path with its .gz suffix stripped, written in 64 KiB blocks.
func (r *resolver) extractGzipFile(fromPath string) ([]string, error) {
	if r.logger != nil {
		r.logger.Info("opening gz file", "path", fromPath)
	}

	target := strings.TrimSuffix(fromPath, ".gz")

	f, err := os.Open(fromPath)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrStorageError, fromPath, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidArchive, fromPath, err)
	}
	defer gz.Close()

	out, err := os.Create(target)
	if err != nil {
		return nil, fmt.Errorf("%w: creating %s: %v", ErrStorageError, target, err)
	}

	buf := make([]byte, gzipBlockSize)
	if _, err := io.CopyBuffer(out, gz, buf); err != nil {
		out.Close()
		return nil, fmt.Errorf("%w: extracting %s: %v", ErrStorageError, target, err)
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("%w: closing %s: %v", ErrStorageError, target, err)
	}

	if r.logger != nil {
		r.logger.Info("finished extracting gz file", "path", fromPath)
	}
	return []string{target}, nil
}
