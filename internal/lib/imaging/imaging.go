// Package imaging produces width-bounded WebP derivatives of uploaded photos.
package imaging

import (
	"errors"
	"fmt"

	"github.com/h2non/bimg"
)

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrEmptyImage      = errors.New("empty image")
)

const (
	MIMEImageJPEG = "image/jpeg"
	MIMEImagePNG  = "image/png"
	MIMEImageWebP = "image/webp"
)

// AllowedTypes lists the MIME types accepted for upload.
var AllowedTypes = []string{
	MIMEImageJPEG,
	MIMEImagePNG,
	MIMEImageWebP,
}

const DefaultQuality = 80

type Config struct {
	// Quality for WebP encoding (1-100)
	Quality int
}

// Processor re-encodes images through libvips.
type Processor struct {
	config Config
}

func NewProcessor(config Config) *Processor {
	if config.Quality <= 0 || config.Quality > 100 {
		config.Quality = DefaultQuality
	}
	return &Processor{config: config}
}

// Resize encodes data as WebP no wider than maxWidth. Smaller images keep
// their dimensions; alpha channels are preserved.
func (p *Processor) Resize(data []byte, maxWidth int) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	img := bimg.NewImage(data)

	switch bimg.DetermineImageType(data) {
	case bimg.JPEG, bimg.PNG, bimg.WEBP:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, img.Type())
	}

	size, err := img.Size()
	if err != nil {
		return nil, fmt.Errorf("failed to read image size: %w", err)
	}

	options := bimg.Options{
		Quality:       p.config.Quality,
		Type:          bimg.WEBP,
		StripMetadata: true,
	}

	// bimg derives the height from the width when only one side is set.
	if width, _ := FitWidth(size.Width, size.Height, maxWidth); width != size.Width {
		options.Width = width
	}

	out, err := img.Process(options)
	if err != nil {
		return nil, fmt.Errorf("failed to process image: %w", err)
	}

	return out, nil
}

// FitWidth scales width x height down so that width <= maxWidth, keeping the
// aspect ratio. It never scales up.
func FitWidth(width, height, maxWidth int) (int, int) {
	if width <= 0 || height <= 0 || maxWidth <= 0 || width <= maxWidth {
		return width, height
	}

	h := int(float64(height)*float64(maxWidth)/float64(width) + 0.5)
	if h < 1 {
		h = 1
	}
	return maxWidth, h
}
