package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// MaxDecodePixels caps width*height accepted from an image header. A full
// decode allocates roughly 4 bytes per pixel, so this bounds it near 700 MiB.
const MaxDecodePixels = 178956970

// ErrImageTooLarge marks an image whose header declares more than MaxDecodePixels
var ErrImageTooLarge = errors.New("image dimensions exceed decode limit")

// Decoder turns raw image bytes into pixel dimensions. Verify is the cheap
// structural check (header only); Load decodes every pixel so truncated or
// corrupt payloads are caught.
type Decoder interface {
	Verify(r io.Reader) (format string, err error)
	Load(r io.Reader) (width, height int, err error)
}

// ImagingDecoder decodes with disintegration/imaging and the registered
// image format decoders
type ImagingDecoder struct{}

func NewImagingDecoder() *ImagingDecoder {
	return &ImagingDecoder{}
}

// Verify reads the image header and returns the detected format
func (d *ImagingDecoder) Verify(r io.Reader) (string, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return "", fmt.Errorf("failed to read image header: %w", err)
	}
	if err := checkDimensions(cfg); err != nil {
		return "", err
	}
	return format, nil
}

// Load fully decodes the image and returns its pixel dimensions. The header
// is checked first so oversized images are never allocated.
func (d *ImagingDecoder) Load(r io.Reader) (int, int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read image: %w", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image: %w", err)
	}
	if err := checkDimensions(cfg); err != nil {
		return 0, 0, err
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image: %w", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return 0, 0, fmt.Errorf("invalid decoded image dimensions: %dx%d", bounds.Dx(), bounds.Dy())
	}
	return bounds.Dx(), bounds.Dy(), nil
}

func checkDimensions(cfg image.Config) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("invalid image dimensions in header: %dx%d", cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxDecodePixels {
		return fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}
	return nil
}
