package upload

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/rendertool/rendertool-api/internal/pkg/imaging"
)

type fakeUploader struct {
	url      string
	err      error
	uploaded []string
	lastData []byte
}

func (f *fakeUploader) Upload(_ context.Context, filename, _ string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.lastData = data
	f.uploaded = append(f.uploaded, filename)
	return f.url, nil
}

type fakePictureUpdater struct {
	updates map[uuid.UUID]string
}

func (f *fakePictureUpdater) UpdatePicture(_ context.Context, id uuid.UUID, pictureURL string) error {
	if f.updates == nil {
		f.updates = make(map[uuid.UUID]string)
	}
	f.updates[id] = pictureURL
	return nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func testUploadService(uploader *fakeUploader, accounts *fakePictureUpdater) *Service {
	return NewService(uploader, imaging.NewProcessor(imaging.DefaultConfig()), accounts)
}

func TestUploadFile(t *testing.T) {
	uploader := &fakeUploader{url: "https://files.example.com/u/doc.pdf"}
	svc := testUploadService(uploader, &fakePictureUpdater{})

	result, err := svc.UploadFile(context.Background(), "doc.pdf", "application/pdf", 128, strings.NewReader("pdf"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.URL != uploader.url {
		t.Errorf("url = %q", result.URL)
	}
	if len(uploader.uploaded) != 1 {
		t.Fatalf("uploaded %d files, want 1", len(uploader.uploaded))
	}
}

func TestUploadFileTooLarge(t *testing.T) {
	svc := testUploadService(&fakeUploader{url: "u"}, &fakePictureUpdater{})

	_, err := svc.UploadFile(context.Background(), "big.bin", "application/octet-stream", imaging.MaxFileSize+1, strings.NewReader("x"))
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestUploadFileNotConfigured(t *testing.T) {
	svc := NewService(nil, imaging.NewProcessor(imaging.DefaultConfig()), &fakePictureUpdater{})

	_, err := svc.UploadFile(context.Background(), "a.txt", "text/plain", 1, strings.NewReader("x"))
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestUploadAvatarPersistsPictureURL(t *testing.T) {
	uploader := &fakeUploader{url: "https://files.example.com/u/avatar.png"}
	accounts := &fakePictureUpdater{}
	svc := testUploadService(uploader, accounts)

	accountID := uuid.New()
	data := pngBytes(t, 64, 64)

	result, err := svc.UploadAvatar(context.Background(), accountID, "avatar.png", int64(len(data)), bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ContentType != "image/png" {
		t.Errorf("content type = %q", result.ContentType)
	}
	if accounts.updates[accountID] != uploader.url {
		t.Errorf("picture url not persisted, got %q", accounts.updates[accountID])
	}
}

func TestUploadAvatarDownscalesLargeImages(t *testing.T) {
	uploader := &fakeUploader{url: "https://files.example.com/u/avatar.png"}
	svc := testUploadService(uploader, &fakePictureUpdater{})

	data := pngBytes(t, 2048, 1024)

	_, err := svc.UploadAvatar(context.Background(), uuid.New(), "big.png", int64(len(data)), bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(uploader.lastData))
	if err != nil {
		t.Fatalf("uploaded avatar not decodable: %v", err)
	}
	if cfg.Width > 512 || cfg.Height > 512 {
		t.Errorf("avatar not downscaled, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestUploadAvatarRejectsNonImage(t *testing.T) {
	svc := testUploadService(&fakeUploader{url: "u"}, &fakePictureUpdater{})

	_, err := svc.UploadAvatar(context.Background(), uuid.New(), "script.sh", 4, strings.NewReader("data"))
	if !errors.Is(err, ErrInvalidFileType) {
		t.Fatalf("expected ErrInvalidFileType, got %v", err)
	}
}

func TestUploadAvatarRejectsCorruptImage(t *testing.T) {
	svc := testUploadService(&fakeUploader{url: "u"}, &fakePictureUpdater{})

	_, err := svc.UploadAvatar(context.Background(), uuid.New(), "broken.png", 9, strings.NewReader("not a png"))
	if !errors.Is(err, ErrInvalidFileType) {
		t.Fatalf("expected ErrInvalidFileType, got %v", err)
	}
}
