package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"

	"celenk/internal/logging"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"go.uber.org/zap"
)

const (
	// MaxUploadBytes is the largest accepted image upload.
	MaxUploadBytes = 10 << 20
	maxImageWidth  = 1600
	jpegQuality    = 85
	// maxImagePixels bounds the decoded bitmap; headers may claim far more
	// than the file size suggests.
	maxImagePixels = 40_000_000
)

// ImageStore persists an encoded JPEG and returns its public URL.
type ImageStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// UploadService normalises uploaded product and blog images.
type UploadService struct {
	store  ImageStore
	logger *zap.Logger
}

// NewUploadService creates a new UploadService.
func NewUploadService(store ImageStore, logger *zap.Logger) *UploadService {
	return &UploadService{store: store, logger: logging.OrNop(logger)}
}

// UploadImage decodes a JPEG or PNG, shrinks it to at most 1600px wide,
// re-encodes it as JPEG and stores it.
func (s *UploadService) UploadImage(ctx context.Context, r io.Reader, size int64) (string, error) {
	if size > MaxUploadBytes {
		return "", fieldError("file", fmt.Sprintf("image is larger than %d MB", MaxUploadBytes>>20))
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return "", fieldError("file", fmt.Sprintf("image is larger than %d MB", MaxUploadBytes>>20))
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if format != "jpeg" && format != "png" {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, format)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return "", fieldError("file", fmt.Sprintf("image is %dx%d pixels, too large", cfg.Width, cfg.Height))
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	if img.Bounds().Dx() > maxImageWidth {
		img = resize.Resize(maxImageWidth, 0, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}

	name := uuid.New().String()
	url, err := s.store.Save(ctx, name, &buf)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	s.logger.Info("image uploaded",
		zap.String("url", url),
		zap.String("source_format", format),
		zap.Int("width", img.Bounds().Dx()))
	return url, nil
}
