package content

import (
	"time"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/content"
)

// CreatePostRequest represents a request to create a blog post
type CreatePostRequest struct {
	Title         string   `json:"title" binding:"required,max=300"`
	Slug          string   `json:"slug" binding:"max=120"`
	Content       string   `json:"content"`
	Excerpt       string   `json:"excerpt" binding:"max=2000"`
	FeaturedImage string   `json:"featured_image" binding:"max=2000"`
	Category      string   `json:"category" binding:"max=100"`
	Tags          []string `json:"tags"`
	Status        string   `json:"status" binding:"omitempty,oneof=draft published archived"`
}

// UpdatePostRequest represents a partial blog post update
type UpdatePostRequest struct {
	Title         *string  `json:"title" binding:"omitempty,min=1,max=300"`
	Slug          *string  `json:"slug" binding:"omitempty,max=120"`
	Content       *string  `json:"content"`
	Excerpt       *string  `json:"excerpt" binding:"omitempty,max=2000"`
	FeaturedImage *string  `json:"featured_image" binding:"omitempty,max=2000"`
	Category      *string  `json:"category" binding:"omitempty,max=100"`
	Tags          []string `json:"tags"`
	Status        *string  `json:"status" binding:"omitempty,oneof=draft published archived"`
}

// ListPostsFilter represents filter options for the post list
type ListPostsFilter struct {
	Search   string `form:"q"`
	Status   string `form:"status" binding:"omitempty,oneof=draft published archived"`
	Category string `form:"category"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=1000"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PostResponse represents a blog post in API responses
type PostResponse struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Content       string     `json:"content"`
	Excerpt       string     `json:"excerpt,omitempty"`
	FeaturedImage string     `json:"featured_image,omitempty"`
	Category      string     `json:"category,omitempty"`
	Tags          []string   `json:"tags"`
	Status        string     `json:"status"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ToPostResponse converts a domain post to a response
func ToPostResponse(p *content.BlogPost) PostResponse {
	return PostResponse{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Content:       p.Content,
		Excerpt:       p.Excerpt,
		FeaturedImage: p.FeaturedImage,
		Category:      p.Category,
		Tags:          p.Tags,
		Status:        string(p.Status),
		PublishedAt:   p.PublishedAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// UploadImageRequest carries an uploaded file and its metadata
type UploadImageRequest struct {
	Filename    string
	ContentType string
	Data        []byte
	Category    string
	AltText     string
	Title       string
	Description string
	Keywords    []string
	ConvertWebP bool
}

// UpdateImageRequest represents a partial image metadata update
type UpdateImageRequest struct {
	AltText     *string  `json:"alt_text" binding:"omitempty,max=500"`
	Title       *string  `json:"title" binding:"omitempty,max=300"`
	Description *string  `json:"description" binding:"omitempty,max=2000"`
	Keywords    []string `json:"keywords"`
	Category    *string  `json:"category" binding:"omitempty,max=100"`
}

// ListImagesFilter represents filter options for the image list
type ListImagesFilter struct {
	Search   string `form:"q"`
	Category string `form:"category"`
	Format   string `form:"format"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=1000"`
}

// ImageResponse represents image metadata in API responses
type ImageResponse struct {
	ID          uuid.UUID `json:"id"`
	ImageURL    string    `json:"image_url"`
	StoragePath string    `json:"storage_path"`
	AltText     string    `json:"alt_text,omitempty"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	Keywords    []string  `json:"keywords"`
	Category    string    `json:"category,omitempty"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	FileSize    int64     `json:"file_size"`
	Format      string    `json:"format"`
	Hash        string    `json:"hash,omitempty"`
	UsageCount  int       `json:"usage_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToImageResponse converts domain image metadata to a response
func ToImageResponse(m *content.ImageMetadata) ImageResponse {
	return ImageResponse{
		ID:          m.ID,
		ImageURL:    m.ImageURL,
		StoragePath: m.StoragePath,
		AltText:     m.AltText,
		Title:       m.Title,
		Description: m.Description,
		Keywords:    m.Keywords,
		Category:    m.Category,
		Width:       m.Width,
		Height:      m.Height,
		FileSize:    m.FileSize,
		Format:      m.Format,
		Hash:        m.Hash,
		UsageCount:  m.UsageCount,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// MigrationReport summarizes a bulk WebP migration
type MigrationReport struct {
	Converted int      `json:"converted"`
	Skipped   int      `json:"skipped"`
	Failed    []string `json:"failed"`
}

// CreatePlanRequest represents a request to create a monthly funnel plan
type CreatePlanRequest struct {
	Year       int    `json:"year" binding:"required,min=2000,max=2100"`
	Month      int    `json:"month" binding:"required,min=1,max=12"`
	FunnelName string `json:"funnel_name" binding:"required,max=100"`
	Theme      string `json:"theme" binding:"max=200"`
	Goals      string `json:"goals"`
	Status     string `json:"status" binding:"omitempty,oneof=planned active done"`
}

// UpdatePlanRequest represents a partial plan update
type UpdatePlanRequest struct {
	FunnelName *string `json:"funnel_name" binding:"omitempty,min=1,max=100"`
	Theme      *string `json:"theme" binding:"omitempty,max=200"`
	Goals      *string `json:"goals"`
	Status     *string `json:"status" binding:"omitempty,oneof=planned active done"`
}

// ListPlansFilter selects plans of one month, or all when Year is zero
type ListPlansFilter struct {
	Year  int `form:"year" binding:"omitempty,min=2000,max=2100"`
	Month int `form:"month" binding:"omitempty,min=1,max=12"`
}

// PlanResponse represents a funnel plan in API responses
type PlanResponse struct {
	ID         uuid.UUID `json:"id"`
	Year       int       `json:"year"`
	Month      int       `json:"month"`
	FunnelName string    `json:"funnel_name"`
	Theme      string    `json:"theme,omitempty"`
	Goals      string    `json:"goals,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ToPlanResponse converts a domain plan to a response
func ToPlanResponse(p *content.MonthlyFunnelPlan) PlanResponse {
	return PlanResponse{
		ID:         p.ID,
		Year:       p.Year,
		Month:      p.Month,
		FunnelName: p.FunnelName,
		Theme:      p.Theme,
		Goals:      p.Goals,
		Status:     string(p.Status),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
