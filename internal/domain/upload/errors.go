package upload

import "errors"

var (
	ErrNoFile          = errors.New("no file provided")
	ErrInvalidFileType = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file too large")
	ErrNotConfigured   = errors.New("upload backend not configured")
	ErrInternal        = errors.New("internal error")
)
