package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/catalog"
	"github.com/masgolf/backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.Repository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var p catalog.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// FindByIDs finds the products with the given IDs
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	var items []catalog.Product
	if len(ids) == 0 {
		return items, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error
	return items, err
}

// FindAll lists products. Without an explicit IsActive filter only active
// products are returned unless IncludeInactive is set. A zero PageSize returns every row.
func (r *GormProductRepository) FindAll(ctx context.Context, filter catalog.ListFilter) ([]catalog.Product, error) {
	q := r.db.WithContext(ctx).Model(&catalog.Product{})
	q = search(q, filter.Search, "name", "sku", "legacy_name")

	switch {
	case filter.IsActive != nil:
		q = q.Where("is_active = ?", *filter.IsActive)
	case !filter.IncludeInactive:
		q = q.Where("is_active = ?", true)
	}
	if filter.IsGift != nil {
		q = q.Where("is_gift = ?", *filter.IsGift)
	}
	if filter.IsSellable != nil {
		q = q.Where("is_sellable = ?", *filter.IsSellable)
	}
	if filter.IsComponent != nil {
		q = q.Where("is_component = ?", *filter.IsComponent)
	}
	if c := strings.TrimSpace(filter.Category); c != "" {
		q = q.Where("category = ?", c)
	}
	if c := strings.TrimSpace(filter.Condition); c != "" {
		q = q.Where("condition = ?", c)
	}
	if t := strings.TrimSpace(filter.ProductType); t != "" {
		q = q.Where("product_type = ?", t)
	}
	if filter.MinPrice != nil {
		q = q.Where("normal_price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("normal_price <= ?", *filter.MaxPrice)
	}

	q = q.Order(catalog.SortColumn(filter.OrderBy) + " " + ValidateSortOrder(filter.OrderDir))
	if filter.PageSize > 0 {
		f := filter.Normalize()
		q = q.Offset(f.Offset()).Limit(f.PageSize)
	}

	var items []catalog.Product
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// DistinctCategories returns the sorted non-empty categories
func (r *GormProductRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	var cats []string
	err := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("category IS NOT NULL AND TRIM(category) <> ''").
		Distinct("category").
		Order("category ASC").
		Pluck("category", &cats).Error
	return cats, err
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// HardDelete removes the product and its inventory transactions in one transaction
func (r *GormProductRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&inventory.Transaction{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&catalog.Product{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound)
		}
		return nil
	})
}

var _ catalog.Repository = (*GormProductRepository)(nil)
