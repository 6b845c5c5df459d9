package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/content"
	"gorm.io/gorm"
)

// GormPostRepository implements content.PostRepository using GORM
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a new GormPostRepository
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// FindByID finds a post by its ID
func (r *GormPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*content.BlogPost, error) {
	var p content.BlogPost
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// FindBySlug finds a post by its slug
func (r *GormPostRepository) FindBySlug(ctx context.Context, slug string) (*content.BlogPost, error) {
	var p content.BlogPost
	if err := r.db.WithContext(ctx).First(&p, "slug = ?", slug).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// FindAll lists posts with pagination
func (r *GormPostRepository) FindAll(ctx context.Context, filter content.PostFilter) ([]content.BlogPost, int64, error) {
	q := r.db.WithContext(ctx).Model(&content.BlogPost{})
	q = search(q, filter.Search, "title", "excerpt")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []content.BlogPost
	order := orderClause(filter.OrderBy, filter.OrderDir, PostSortFields, "created_at")
	if err := paginate(q, filter.Filter, order).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// SlugExists reports whether slug is taken
func (r *GormPostRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&content.BlogPost{}).Where("slug = ?", slug).Count(&n).Error
	return n > 0, err
}

// Save creates or updates a post
func (r *GormPostRepository) Save(ctx context.Context, p *content.BlogPost) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete removes a post
func (r *GormPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[content.BlogPost](ctx, r.db, id)
}

// GormImageRepository implements content.ImageRepository using GORM
type GormImageRepository struct {
	db *gorm.DB
}

// NewGormImageRepository creates a new GormImageRepository
func NewGormImageRepository(db *gorm.DB) *GormImageRepository {
	return &GormImageRepository{db: db}
}

// FindByID finds image metadata by its ID
func (r *GormImageRepository) FindByID(ctx context.Context, id uuid.UUID) (*content.ImageMetadata, error) {
	var m content.ImageMetadata
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

// FindByURL finds image metadata by its public URL
func (r *GormImageRepository) FindByURL(ctx context.Context, url string) (*content.ImageMetadata, error) {
	var m content.ImageMetadata
	if err := r.db.WithContext(ctx).First(&m, "image_url = ?", url).Error; err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

// FindAll lists image metadata with pagination
func (r *GormImageRepository) FindAll(ctx context.Context, filter content.ImageFilter) ([]content.ImageMetadata, int64, error) {
	q := r.db.WithContext(ctx).Model(&content.ImageMetadata{})
	q = search(q, filter.Search, "title", "alt_text", "image_url")
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Format != "" {
		q = q.Where("format = ?", filter.Format)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []content.ImageMetadata
	order := orderClause(filter.OrderBy, filter.OrderDir, ImageSortFields, "created_at")
	if err := paginate(q, filter.Filter, order).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Save creates or updates image metadata
func (r *GormImageRepository) Save(ctx context.Context, m *content.ImageMetadata) error {
	return r.db.WithContext(ctx).Save(m).Error
}

// Delete removes image metadata
func (r *GormImageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[content.ImageMetadata](ctx, r.db, id)
}

// GormPlanRepository implements content.PlanRepository using GORM
type GormPlanRepository struct {
	db *gorm.DB
}

// NewGormPlanRepository creates a new GormPlanRepository
func NewGormPlanRepository(db *gorm.DB) *GormPlanRepository {
	return &GormPlanRepository{db: db}
}

// FindByID finds a plan by its ID
func (r *GormPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*content.MonthlyFunnelPlan, error) {
	var p content.MonthlyFunnelPlan
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// FindByMonth returns the plans of one month
func (r *GormPlanRepository) FindByMonth(ctx context.Context, year, month int) ([]content.MonthlyFunnelPlan, error) {
	var items []content.MonthlyFunnelPlan
	err := r.db.WithContext(ctx).
		Where("year = ? AND month = ?", year, month).
		Order("funnel_name ASC").
		Find(&items).Error
	return items, err
}

// FindAll returns every plan, newest month first
func (r *GormPlanRepository) FindAll(ctx context.Context) ([]content.MonthlyFunnelPlan, error) {
	var items []content.MonthlyFunnelPlan
	err := r.db.WithContext(ctx).Order("year DESC, month DESC, funnel_name ASC").Find(&items).Error
	return items, err
}

// Save creates or updates a plan
func (r *GormPlanRepository) Save(ctx context.Context, p *content.MonthlyFunnelPlan) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete removes a plan
func (r *GormPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[content.MonthlyFunnelPlan](ctx, r.db, id)
}

var (
	_ content.PostRepository  = (*GormPostRepository)(nil)
	_ content.ImageRepository = (*GormImageRepository)(nil)
	_ content.PlanRepository  = (*GormPlanRepository)(nil)
)
