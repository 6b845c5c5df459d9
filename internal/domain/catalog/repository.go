package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// sortColumns are the only columns a listing may be ordered by
var sortColumns = map[string]bool{
	"name":         true,
	"sku":          true,
	"category":     true,
	"color":        true,
	"size":         true,
	"normal_price": true,
	"sale_price":   true,
	"is_gift":      true,
	"is_sellable":  true,
	"is_active":    true,
	"is_component": true,
	"condition":    true,
	"created_at":   true,
	"updated_at":   true,
}

// SortColumn returns col when allowlisted, otherwise "name"
func SortColumn(col string) string {
	if col == "price" {
		return "normal_price"
	}
	if sortColumns[col] {
		return col
	}
	return "name"
}

// ListFilter holds product listing criteria. Nil pointers mean "any".
type ListFilter struct {
	shared.Filter
	Category        string
	IsGift          *bool
	IsSellable      *bool
	IsActive        *bool
	IncludeInactive bool
	IsComponent     *bool
	Condition       string
	ProductType     string
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
}

// Repository defines product persistence
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	FindAll(ctx context.Context, filter ListFilter) ([]Product, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	Save(ctx context.Context, p *Product) error
	// HardDelete removes the product and its inventory transactions atomically
	HardDelete(ctx context.Context, id uuid.UUID) error
}
