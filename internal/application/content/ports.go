package content

import (
	"context"
	"image"
)

// ObjectStorage stores image files and serves them under a public URL
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, error)
	DeleteObject(ctx context.Context, key string) error
	PublicURL(key string) string
}

// ImageCodec decodes uploads and re-encodes them as resized WebP
type ImageCodec interface {
	// Inspect returns the pixel size of an encoded image
	Inspect(data []byte) (image.Config, string, error)
	// ToWebP resizes to maxWidth (keeping aspect ratio, never upscaling) and encodes WebP
	ToWebP(data []byte, maxWidth int) (out []byte, width, height int, err error)
}
