package content

import (
	"context"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/shared"
)

// PostFilter narrows blog post listings
type PostFilter struct {
	shared.Filter
	Status   PostStatus
	Category string
}

// PostRepository defines blog post persistence
type PostRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BlogPost, error)
	FindBySlug(ctx context.Context, slug string) (*BlogPost, error)
	FindAll(ctx context.Context, filter PostFilter) ([]BlogPost, int64, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Save(ctx context.Context, p *BlogPost) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ImageFilter narrows image metadata listings
type ImageFilter struct {
	shared.Filter
	Category string
	Format   string
}

// ImageRepository defines image metadata persistence
type ImageRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ImageMetadata, error)
	FindByURL(ctx context.Context, url string) (*ImageMetadata, error)
	FindAll(ctx context.Context, filter ImageFilter) ([]ImageMetadata, int64, error)
	Save(ctx context.Context, m *ImageMetadata) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PlanRepository defines monthly funnel plan persistence
type PlanRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*MonthlyFunnelPlan, error)
	FindByMonth(ctx context.Context, year, month int) ([]MonthlyFunnelPlan, error)
	FindAll(ctx context.Context) ([]MonthlyFunnelPlan, error)
	Save(ctx context.Context, p *MonthlyFunnelPlan) error
	Delete(ctx context.Context, id uuid.UUID) error
}
