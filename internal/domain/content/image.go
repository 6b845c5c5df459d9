package content

import (
	"path"
	"strings"

	"github.com/masgolf/backend/internal/domain/shared"
)

// ImageMetadata describes an image stored in object storage
type ImageMetadata struct {
	shared.BaseEntity
	ImageURL    string   `gorm:"type:text;not null;uniqueIndex" json:"image_url"`
	StoragePath string   `gorm:"type:text" json:"storage_path"`
	AltText     string   `gorm:"type:text" json:"alt_text,omitempty"`
	Title       string   `gorm:"type:varchar(300)" json:"title,omitempty"`
	Description string   `gorm:"type:text" json:"description,omitempty"`
	Keywords    []string `gorm:"serializer:json;type:jsonb" json:"keywords"`
	Category    string   `gorm:"type:varchar(100);index" json:"category,omitempty"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	FileSize    int64    `json:"file_size"`
	Format      string   `gorm:"type:varchar(10)" json:"format"`
	Hash        string   `gorm:"type:varchar(64);index" json:"hash,omitempty"`
	UsageCount  int      `gorm:"not null;default:0" json:"usage_count"`
}

// TableName returns the table name for GORM
func (ImageMetadata) TableName() string {
	return "image_metadata"
}

// NewImageMetadata creates metadata for an uploaded object
func NewImageMetadata(url, storagePath string) (*ImageMetadata, error) {
	if url == "" {
		return nil, shared.InvalidInput("image_url is required")
	}
	return &ImageMetadata{
		BaseEntity:  shared.NewBaseEntity(),
		ImageURL:    url,
		StoragePath: storagePath,
		Keywords:    []string{},
		Format:      FormatOf(storagePath),
	}, nil
}

// IsWebP reports whether the image is already WebP
func (m *ImageMetadata) IsWebP() bool {
	return m.Format == "webp"
}

// FormatOf returns the lowercase extension of p without the dot ("jpeg" becomes "jpg")
func FormatOf(p string) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(p)), ".")
	if ext == "jpeg" {
		return "jpg"
	}
	return ext
}

// WebPPath replaces the extension of p with .webp
func WebPPath(p string) string {
	return strings.TrimSuffix(p, path.Ext(p)) + ".webp"
}
