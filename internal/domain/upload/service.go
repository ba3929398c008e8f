package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rendertool/rendertool-api/internal/pkg/imaging"
	"github.com/rendertool/rendertool-api/internal/pkg/storage"
)

// PictureUpdater persists the avatar URL on an account
type PictureUpdater interface {
	UpdatePicture(ctx context.Context, id uuid.UUID, pictureURL string) error
}

// Service handles file uploads and avatar processing
type Service struct {
	uploader  storage.Uploader
	processor *imaging.Processor
	accounts  PictureUpdater
}

// NewService creates a new upload service. The uploader may be nil when no
// backend is configured; uploads then fail with ErrNotConfigured.
func NewService(uploader storage.Uploader, processor *imaging.Processor, accounts PictureUpdater) *Service {
	return &Service{
		uploader:  uploader,
		processor: processor,
		accounts:  accounts,
	}
}

// Result is the public URL of a stored file
type Result struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// UploadFile streams an arbitrary file to the configured backend
func (s *Service) UploadFile(ctx context.Context, filename, contentType string, size int64, r io.Reader) (*Result, error) {
	if s.uploader == nil {
		return nil, ErrNotConfigured
	}
	if size > imaging.MaxFileSize {
		return nil, ErrFileTooLarge
	}

	url, err := s.uploader.Upload(ctx, filename, contentType, io.LimitReader(r, imaging.MaxFileSize))
	if err != nil {
		if errors.Is(err, storage.ErrNotConfigured) {
			return nil, ErrNotConfigured
		}
		log.Error().Err(err).Str("filename", filename).Msg("file upload failed")
		return nil, ErrInternal
	}

	return &Result{
		URL:         url,
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
	}, nil
}

// UploadAvatar downscales an image, stores it and saves the URL on the account
func (s *Service) UploadAvatar(ctx context.Context, accountID uuid.UUID, filename string, size int64, r io.Reader) (*Result, error) {
	if s.uploader == nil {
		return nil, ErrNotConfigured
	}
	if !imaging.ValidateType(filename) {
		return nil, ErrInvalidFileType
	}
	if size > imaging.MaxFileSize {
		return nil, ErrFileTooLarge
	}

	processed, err := s.processor.Process(io.LimitReader(r, imaging.MaxFileSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFileType, err)
	}

	url, err := s.uploader.Upload(ctx, filename, processed.ContentType, bytes.NewReader(processed.Data))
	if err != nil {
		if errors.Is(err, storage.ErrNotConfigured) {
			return nil, ErrNotConfigured
		}
		log.Error().Err(err).Str("account_id", accountID.String()).Msg("avatar upload failed")
		return nil, ErrInternal
	}

	if err := s.accounts.UpdatePicture(ctx, accountID, url); err != nil {
		log.Error().Err(err).Str("account_id", accountID.String()).Msg("avatar url persistence failed")
		return nil, ErrInternal
	}

	log.Info().
		Str("account_id", accountID.String()).
		Str("url", url).
		Int("width", processed.Width).
		Int("height", processed.Height).
		Msg("avatar updated")

	return &Result{
		URL:         url,
		Filename:    filename,
		ContentType: processed.ContentType,
		Size:        int64(len(processed.Data)),
	}, nil
}
