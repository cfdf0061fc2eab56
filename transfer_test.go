package assets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

func TestHTTPTransferer(t *testing.T) {
	t.Run("writes response body to destination", func(t *testing.T) {
		tmpDir := t.TempDir()
		body := []byte("remote file contents")

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write(body)
		}))
		defer server.Close()

		tr := newHTTPTransferer(server.Client(), nil, 0)
		dest := filepath.Join(tmpDir, "out.bin")

		if err := tr.Transfer(context.Background(), server.URL+"/out.bin", dest, nil); err != nil {
			t.Fatalf("Transfer() error = %v", err)
		}

		got, err := os.ReadFile(dest)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if string(got) != string(body) {
			t.Errorf("destination contents = %q, want %q", got, body)
		}
	})

	t.Run("non-success status wraps ErrTransferError", func(t *testing.T) {
		tmpDir := t.TempDir()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		tr := newHTTPTransferer(server.Client(), nil, 0)
		dest := filepath.Join(tmpDir, "out.bin")

		err := tr.Transfer(context.Background(), server.URL+"/missing", dest, nil)
		if !errors.Is(err, ErrTransferError) {
			t.Errorf("Transfer() error = %v, want ErrTransferError", err)
		}
	})

	t.Run("network error wraps ErrTransferError", func(t *testing.T) {
		tmpDir := t.TempDir()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		tr := newHTTPTransferer(http.DefaultClient, nil, 0)
		dest := filepath.Join(tmpDir, "out.bin")

		err := tr.Transfer(context.Background(), server.URL, dest, nil)
		if !errors.Is(err, ErrTransferError) {
			t.Errorf("Transfer() error = %v, want ErrTransferError", err)
		}
	})

	t.Run("malformed URL fails with ErrTransferError", func(t *testing.T) {
		tmpDir := t.TempDir()

		tr := newHTTPTransferer(http.DefaultClient, nil, 0)
		dest := filepath.Join(tmpDir, "out.bin")

		err := tr.Transfer(context.Background(), "://missing-scheme", dest, nil)
		if !errors.Is(err, ErrTransferError) {
			t.Fatalf("Transfer() error = %v, want ErrTransferError", err)
		}
		// The underlying parse failure must survive into the message.
		if !strings.Contains(err.Error(), "missing protocol scheme") {
			t.Errorf("Transfer() error = %v, want underlying cause in message", err)
		}
	})

	t.Run("progress deltas sum to the body size", func(t *testing.T) {
		tmpDir := t.TempDir()
		body := make([]byte, 256*1024)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write(body)
		}))
		defer server.Close()

		tr := newHTTPTransferer(server.Client(), nil, 0)
		dest := filepath.Join(tmpDir, "out.bin")

		var received int64
		err := tr.Transfer(context.Background(), server.URL, dest, func(delta int64) {
			atomic.AddInt64(&received, delta)
		})
		if err != nil {
			t.Fatalf("Transfer() error = %v", err)
		}

		if atomic.LoadInt64(&received) != int64(len(body)) {
			t.Errorf("progress deltas sum = %d, want %d", received, len(body))
		}
	})

	t.Run("rate-limited transfer still completes", func(t *testing.T) {
		tmpDir := t.TempDir()
		body := []byte("small body")

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write(body)
		}))
		defer server.Close()

		// Generous rate so the test stays fast; exercises the bucket path.
		tr := newHTTPTransferer(server.Client(), nil, 1<<30)
		dest := filepath.Join(tmpDir, "out.bin")

		if err := tr.Transfer(context.Background(), server.URL, dest, nil); err != nil {
			t.Fatalf("Transfer() error = %v", err)
		}

		got, err := os.ReadFile(dest)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if string(got) != string(body) {
			t.Errorf("destination contents = %q, want %q", got, body)
		}
	})
}
