// Package imagecodec inspects uploaded images and converts them to WebP.
package imagecodec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	contentapp "github.com/masgolf/backend/internal/application/content"
)

const defaultQuality = 80

// ErrEmptyImage is returned for zero-length input
var ErrEmptyImage = errors.New("imagecodec: empty image data")

// Codec implements contentapp.ImageCodec
type Codec struct {
	quality float32
}

// New creates a codec encoding WebP at quality (1-100, default 80)
func New(quality float32) *Codec {
	if quality <= 0 || quality > 100 {
		quality = defaultQuality
	}
	return &Codec{quality: quality}
}

// Inspect returns the dimensions and format name (jpeg, png, gif, webp)
func (c *Codec) Inspect(data []byte) (image.Config, string, error) {
	if len(data) == 0 {
		return image.Config{}, "", ErrEmptyImage
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, "", fmt.Errorf("decode image header: %w", err)
	}
	return cfg, format, nil
}

// ToWebP re-encodes data as WebP, honoring EXIF orientation and shrinking to
// maxWidth when the image is wider. maxWidth <= 0 keeps the original size.
func (c *Codec) ToWebP(data []byte, maxWidth int) ([]byte, int, int, error) {
	if len(data) == 0 {
		return nil, 0, 0, ErrEmptyImage
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decode image: %w", err)
	}
	if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: c.quality}); err != nil {
		return nil, 0, 0, fmt.Errorf("encode webp: %w", err)
	}
	b := img.Bounds()
	return buf.Bytes(), b.Dx(), b.Dy(), nil
}

var _ contentapp.ImageCodec = (*Codec)(nil)
