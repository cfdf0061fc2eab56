package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/juju/ratelimit"
)

// Transferer fetches a remote resource and writes it to a local file.
// The default implementation speaks HTTP; callers can substitute their own
// backend (cloud SDK, torrent, test double) via WithTransferer.
type Transferer interface {
	// Transfer fetches url and writes the bytes to dest.
	// onProgress, when non-nil, receives byte deltas as they arrive.
	// Failure modes (network error, non-success status) are fatal and
	// wrap ErrTransferError.
	Transfer(ctx context.Context, url, dest string, onProgress func(delta int64)) error
}

// httpTransferer is the default Transferer, fetching resources over HTTP(S).
type httpTransferer struct {
	// client is used for HTTP requests.
	client HTTPClient

	// logger receives diagnostic messages. May be nil.
	logger Logger

	// bucket throttles reads when non-nil.
	bucket *ratelimit.Bucket
}

// Ensure httpTransferer implements Transferer.
var _ Transferer = (*httpTransferer)(nil)

// newHTTPTransferer creates the default HTTP transfer backend.
// bytesPerSec > 0 throttles all transfers through a shared token bucket.
func newHTTPTransferer(client HTTPClient, logger Logger, bytesPerSec int64) *httpTransferer {
	t := &httpTransferer{
		client: client,
		logger: logger,
	}
	if bytesPerSec > 0 {
		t.bucket = ratelimit.NewBucketWithRate(float64(bytesPerSec), bytesPerSec)
	}
	return t
}

// Transfer fetches url into dest in a single streaming pass.
func (t *httpTransferer) Transfer(ctx context.Context, url, dest string, onProgress func(delta int64)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request for %s: %v: %w", url, err, ErrTransferError)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %v: %w", url, err, ErrTransferError)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s: status %d: %w", url, resp.StatusCode, ErrTransferError)
	}

	var reader io.Reader = resp.Body
	if t.bucket != nil {
		reader = ratelimit.Reader(reader, t.bucket)
	}
	if onProgress != nil {
		reader = &progressReader{reader: reader, onProgress: onProgress}
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrStorageError, dest, err)
	}

	if _, err := io.Copy(out, reader); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %v: %w", dest, err, ErrTransferError)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %v", ErrStorageError, dest, err)
	}

	if t.logger != nil {
		t.logger.Debug("transfer complete", "url", url, "dest", dest)
	}
	return nil
}

// progressReader wraps an io.Reader and reports progress as bytes are read.
type progressReader struct {
	reader     io.Reader
	onProgress func(delta int64)
}

func (pr *progressReader) Read(p []byte) (n int, err error) {
	n, err = pr.reader.Read(p)
	if n > 0 && pr.onProgress != nil {
		pr.onProgress(int64(n))
	}
	return
}
