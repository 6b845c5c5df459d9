package content

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/content"
	"github.com/masgolf/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// MaxWebPWidth is the width images are scaled down to when converted
const MaxWebPWidth = 1600

const (
	imagePrefix   = "blog-images"
	webpMime      = "image/webp"
	maxUploadSize = 20 << 20
)

// ErrWebPPartial reports a conversion whose new object was uploaded but whose
// metadata could not be rewritten. The new object is left in place.
var ErrWebPPartial = shared.NewDomainError("WEBP_PARTIAL", "converted image uploaded but metadata update failed")

// ImageService handles image upload and metadata use cases
type ImageService struct {
	repo    content.ImageRepository
	storage ObjectStorage
	codec   ImageCodec
	logger  *zap.Logger
	now     func() time.Time
}

// NewImageService creates a new ImageService
func NewImageService(repo content.ImageRepository, storage ObjectStorage, codec ImageCodec, logger *zap.Logger) *ImageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageService{repo: repo, storage: storage, codec: codec, logger: logger, now: time.Now}
}

// Upload stores the file in object storage and records its metadata.
// With ConvertWebP the file is resized and stored as WebP instead.
func (s *ImageService) Upload(ctx context.Context, req UploadImageRequest) (*ImageResponse, error) {
	if len(req.Data) == 0 {
		return nil, shared.InvalidInput("file is empty")
	}
	if len(req.Data) > maxUploadSize {
		return nil, shared.InvalidInput("file exceeds 20MB")
	}
	cfg, format, err := s.codec.Inspect(req.Data)
	if err != nil {
		return nil, shared.InvalidInput("file is not a supported image")
	}

	data, width, height := req.Data, cfg.Width, cfg.Height
	contentType := req.ContentType
	ext := strings.ToLower(path.Ext(req.Filename))
	if ext == "" {
		ext = "." + format
	}
	if req.ConvertWebP && format != "webp" {
		if data, width, height, err = s.codec.ToWebP(req.Data, MaxWebPWidth); err != nil {
			return nil, fmt.Errorf("convert to webp: %w", err)
		}
		ext, contentType = ".webp", webpMime
	}
	if contentType == "" {
		contentType = "image/" + strings.TrimPrefix(ext, ".")
	}

	key := s.objectKey(req.Category, ext)
	if err := s.storage.Upload(ctx, key, data, contentType); err != nil {
		return nil, err
	}

	m, err := content.NewImageMetadata(s.storage.PublicURL(key), key)
	if err != nil {
		return nil, err
	}
	m.AltText = req.AltText
	m.Title = req.Title
	m.Description = req.Description
	m.Keywords = cleanTags(req.Keywords)
	m.Category = strings.TrimSpace(req.Category)
	m.Width, m.Height = width, height
	m.FileSize = int64(len(data))
	m.Hash = hashOf(data)

	if err := s.repo.Save(ctx, m); err != nil {
		return nil, err
	}
	s.logger.Info("Image uploaded",
		zap.String("image_id", m.ID.String()),
		zap.String("key", key),
		zap.Int64("size", m.FileSize))
	resp := ToImageResponse(m)
	return &resp, nil
}

func (s *ImageService) objectKey(category, ext string) string {
	folder := strings.Trim(strings.TrimSpace(category), "/")
	if folder == "" {
		folder = "uncategorized"
	}
	return fmt.Sprintf("%s/%s/%s/%s%s", imagePrefix, folder, s.now().Format("2006-01"), uuid.NewString(), ext)
}

func hashOf(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// GetByID returns image metadata
func (s *ImageService) GetByID(ctx context.Context, id uuid.UUID) (*ImageResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToImageResponse(m)
	return &resp, nil
}

// List returns a page of image metadata
func (s *ImageService) List(ctx context.Context, f ListImagesFilter) (shared.Paginated[ImageResponse], error) {
	filter := content.ImageFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			Search:   f.Search,
		}.Normalize(),
		Category: f.Category,
		Format:   strings.ToLower(f.Format),
	}
	items, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[ImageResponse]{}, err
	}
	out := make([]ImageResponse, len(items))
	for i := range items {
		out[i] = ToImageResponse(&items[i])
	}
	return shared.NewPaginated(out, total, filter.Page, filter.PageSize), nil
}

// Update edits the descriptive metadata of an image
func (s *ImageService) Update(ctx context.Context, id uuid.UUID, req UpdateImageRequest) (*ImageResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.AltText != nil {
		m.AltText = *req.AltText
	}
	if req.Title != nil {
		m.Title = *req.Title
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.Keywords != nil {
		m.Keywords = cleanTags(req.Keywords)
	}
	if req.Category != nil {
		m.Category = strings.TrimSpace(*req.Category)
	}
	m.Touch()
	if err := s.repo.Save(ctx, m); err != nil {
		return nil, err
	}
	resp := ToImageResponse(m)
	return &resp, nil
}

// Delete removes the stored object and its metadata. A missing object is not an error.
func (s *ImageService) Delete(ctx context.Context, id uuid.UUID) error {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if m.StoragePath != "" {
		if err := s.storage.DeleteObject(ctx, m.StoragePath); err != nil {
			s.logger.Warn("Failed to delete image object",
				zap.String("key", m.StoragePath),
				zap.Error(err))
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Image deleted", zap.String("image_id", id.String()))
	return nil
}

// MigrateToWebP converts one stored image: download, resize to MaxWebPWidth,
// encode WebP, upload next to the original and rewrite the metadata.
// The original object is kept. Images already in WebP are returned unchanged.
func (s *ImageService) MigrateToWebP(ctx context.Context, id uuid.UUID) (*ImageResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.IsWebP() {
		resp := ToImageResponse(m)
		return &resp, nil
	}
	if m.StoragePath == "" {
		return nil, shared.NewDomainError("INVALID_STATE", "image has no storage path")
	}

	data, err := s.storage.Download(ctx, m.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", m.StoragePath, err)
	}
	out, width, height, err := s.codec.ToWebP(data, MaxWebPWidth)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", m.StoragePath, err)
	}
	key := content.WebPPath(m.StoragePath)
	if err := s.storage.Upload(ctx, key, out, webpMime); err != nil {
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}

	m.ImageURL = s.storage.PublicURL(key)
	m.StoragePath = key
	m.Format = content.FormatOf(key)
	m.Width, m.Height = width, height
	m.FileSize = int64(len(out))
	m.Hash = hashOf(out)
	m.Touch()
	if err := s.repo.Save(ctx, m); err != nil {
		s.logger.Error("WebP metadata update failed after upload",
			zap.String("image_id", m.ID.String()),
			zap.String("key", key),
			zap.Error(err))
		return nil, shared.WrapDomainError(ErrWebPPartial.Code, ErrWebPPartial.Message+" ("+key+")", err)
	}

	s.logger.Info("Image converted to WebP",
		zap.String("image_id", m.ID.String()),
		zap.String("key", key),
		zap.Int("width", width))
	resp := ToImageResponse(m)
	return &resp, nil
}

// MigrateAll converts every non-WebP image, at most limit when limit > 0.
// Failures are collected and the run continues.
func (s *ImageService) MigrateAll(ctx context.Context, limit int) (*MigrationReport, error) {
	report := &MigrationReport{Failed: []string{}}
	var pending []content.ImageMetadata
	for page := 1; ; page++ {
		filter := content.ImageFilter{Filter: shared.Filter{Page: page, PageSize: 200}.Normalize()}
		items, total, err := s.repo.FindAll(ctx, filter)
		if err != nil {
			return nil, err
		}
		for _, m := range items {
			if m.IsWebP() {
				report.Skipped++
				continue
			}
			pending = append(pending, m)
		}
		if len(items) == 0 || int64(page*filter.PageSize) >= total {
			break
		}
	}

	for _, m := range pending {
		if limit > 0 && report.Converted+len(report.Failed) >= limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if _, err := s.MigrateToWebP(ctx, m.ID); err != nil {
			s.logger.Warn("WebP migration failed", zap.String("image_id", m.ID.String()), zap.Error(err))
			report.Failed = append(report.Failed, m.ID.String())
			continue
		}
		report.Converted++
	}
	return report, nil
}
