package storage

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNotConfigured is returned when no storage backend is configured.
	ErrNotConfigured = errors.New("file storage is not configured")

	// ErrUploadFailed is returned when the backend rejects or fails an upload.
	ErrUploadFailed = errors.New("file upload failed")
)

// Uploader stores a blob and returns its public URL.
// Implementations are expected to be time-bounded on network I/O.
type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
}
