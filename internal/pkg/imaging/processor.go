package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Config for avatar processing
type Config struct {
	MaxWidth  int // max dimension before downscale (default 512)
	MaxHeight int
	Quality   int // JPEG quality 1-100 (default 85)
}

// DefaultConfig returns the default avatar processing config
func DefaultConfig() Config {
	return Config{
		MaxWidth:  512,
		MaxHeight: 512,
		Quality:   85,
	}
}

// Processor downscales avatar images before upload
type Processor struct {
	config Config
}

// NewProcessor creates an image processor
func NewProcessor(config Config) *Processor {
	return &Processor{config: config}
}

// ProcessedImage is a re-encoded, size-bounded image
type ProcessedImage struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// Process decodes an image, downscales it to fit the configured bounds
// and re-encodes it in its original format (JPEG fallback).
func (p *Processor) Process(reader io.Reader) (*ProcessedImage, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := img
	if img.Bounds().Dx() > p.config.MaxWidth || img.Bounds().Dy() > p.config.MaxHeight {
		resized = imaging.Fit(img, p.config.MaxWidth, p.config.MaxHeight, imaging.Lanczos)
	}

	encoded, err := p.encode(resized, format)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &ProcessedImage{
		Data:        encoded,
		ContentType: mimeFromFormat(format),
		Width:       resized.Bounds().Dx(),
		Height:      resized.Bounds().Dy(),
	}, nil
}

// ValidateType checks if file has a supported image extension
func ValidateType(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	default:
		return false
	}
}

// MaxFileSize in bytes (10MB)
const MaxFileSize int64 = 10 * 1024 * 1024

func (p *Processor) encode(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.config.Quality}); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

func mimeFromFormat(format string) string {
	switch format {
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
