// Package catalog implements product catalog use cases.
package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/catalog"
	"github.com/masgolf/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service handles product use cases
type Service struct {
	repo   catalog.Repository
	logger *zap.Logger
}

// NewService creates a new catalog Service
func NewService(repo catalog.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Create adds a product
func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	p, err := catalog.NewProduct(req.Name, req.SKU)
	if err != nil {
		return nil, err
	}
	normal, sale := decimal.Zero, decimal.Zero
	if req.NormalPrice != nil {
		normal = *req.NormalPrice
	}
	if req.SalePrice != nil {
		sale = *req.SalePrice
	}
	if err := p.SetPrices(normal, sale); err != nil {
		return nil, err
	}
	if err := p.SetMinStockLevel(req.MinStockLevel); err != nil {
		return nil, err
	}
	p.LegacyName = req.LegacyName
	p.Category = req.Category
	p.Color = req.Color
	p.Size = req.Size
	p.IsGift = req.IsGift
	if req.IsSellable != nil {
		p.IsSellable = *req.IsSellable
	}
	p.IsComponent = req.IsComponent
	p.Condition = req.Condition
	p.ProductType = req.ProductType

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("Product created", zap.String("product_id", p.ID.String()), zap.String("sku", p.SKU))
	resp := ToProductResponse(p)
	return &resp, nil
}

// GetByID returns a product
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(p)
	return &resp, nil
}

// List returns products matching the filter, or only the distinct category
// names when DistinctCategories is set
func (s *Service) List(ctx context.Context, f ListProductsFilter) (*ListProductsResponse, error) {
	if f.DistinctCategories {
		cats, err := s.repo.DistinctCategories(ctx)
		if err != nil {
			return nil, err
		}
		if cats == nil {
			cats = []string{}
		}
		return &ListProductsResponse{Categories: cats}, nil
	}

	minPrice, err := parsePrice("min_price", f.MinPrice)
	if err != nil {
		return nil, err
	}
	maxPrice, err := parsePrice("max_price", f.MaxPrice)
	if err != nil {
		return nil, err
	}
	if minPrice != nil && maxPrice != nil && minPrice.GreaterThan(*maxPrice) {
		return nil, shared.InvalidInput("min_price cannot exceed max_price")
	}
	filter := catalog.ListFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			OrderBy:  catalog.SortColumn(f.SortBy),
			OrderDir: f.SortOrder,
			Search:   f.Search,
		},
		Category:        f.Category,
		IsGift:          f.IsGift,
		IsSellable:      f.IsSellable,
		IsActive:        f.IsActive,
		IncludeInactive: f.IncludeInactive,
		IsComponent:     f.IsComponent,
		Condition:       f.Condition,
		ProductType:     f.ProductType,
		MinPrice:        minPrice,
		MaxPrice:        maxPrice,
	}
	if filter.OrderDir != "desc" {
		filter.OrderDir = "asc"
	}
	items, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]ProductResponse, len(items))
	for i := range items {
		out[i] = ToProductResponse(&items[i])
	}
	return &ListProductsResponse{Products: out}, nil
}

func parsePrice(field, raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, shared.InvalidInput(field + " must be a number")
	}
	return &d, nil
}

// Update applies a partial update
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		renamed, err := catalog.NewProduct(*req.Name, p.SKU)
		if err != nil {
			return nil, err
		}
		p.Name = renamed.Name
	}
	if req.SKU != nil {
		p.SKU = *req.SKU
	}
	if req.NormalPrice != nil || req.SalePrice != nil {
		normal, sale := p.NormalPrice, p.SalePrice
		if req.NormalPrice != nil {
			normal = *req.NormalPrice
		}
		if req.SalePrice != nil {
			sale = *req.SalePrice
		}
		if err := p.SetPrices(normal, sale); err != nil {
			return nil, err
		}
	}
	if req.MinStockLevel != nil {
		if err := p.SetMinStockLevel(*req.MinStockLevel); err != nil {
			return nil, err
		}
	}
	assign(&p.LegacyName, req.LegacyName)
	assign(&p.Category, req.Category)
	assign(&p.Color, req.Color)
	assign(&p.Size, req.Size)
	assign(&p.Condition, req.Condition)
	assign(&p.ProductType, req.ProductType)
	assign(&p.IsGift, req.IsGift)
	assign(&p.IsSellable, req.IsSellable)
	assign(&p.IsActive, req.IsActive)
	assign(&p.IsComponent, req.IsComponent)
	p.Touch()

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("Product updated", zap.String("product_id", p.ID.String()))
	resp := ToProductResponse(p)
	return &resp, nil
}

func assign[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Delete deactivates a product. A hard delete removes it together with its
// inventory transactions.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, hard bool) error {
	if hard {
		if err := s.repo.HardDelete(ctx, id); err != nil {
			return err
		}
		s.logger.Info("Product hard deleted", zap.String("product_id", id.String()))
		return nil
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	p.Deactivate()
	if err := s.repo.Save(ctx, p); err != nil {
		return err
	}
	s.logger.Info("Product deactivated", zap.String("product_id", id.String()))
	return nil
}
