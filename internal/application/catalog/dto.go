package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name          string           `json:"name" binding:"required,min=1,max=200"`
	SKU           string           `json:"sku" binding:"max=100"`
	LegacyName    string           `json:"legacy_name" binding:"max=200"`
	Category      string           `json:"category" binding:"max=100"`
	Color         string           `json:"color" binding:"max=50"`
	Size          string           `json:"size" binding:"max=50"`
	NormalPrice   *decimal.Decimal `json:"normal_price"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
	IsGift        bool             `json:"is_gift"`
	IsSellable    *bool            `json:"is_sellable"`
	IsComponent   bool             `json:"is_component"`
	Condition     string           `json:"condition" binding:"omitempty,oneof=new used refurbished"`
	ProductType   string           `json:"product_type" binding:"max=50"`
	MinStockLevel int              `json:"min_stock_level" binding:"min=0"`
}

// UpdateProductRequest represents a partial product update
type UpdateProductRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=200"`
	SKU           *string          `json:"sku" binding:"omitempty,max=100"`
	LegacyName    *string          `json:"legacy_name" binding:"omitempty,max=200"`
	Category      *string          `json:"category" binding:"omitempty,max=100"`
	Color         *string          `json:"color" binding:"omitempty,max=50"`
	Size          *string          `json:"size" binding:"omitempty,max=50"`
	NormalPrice   *decimal.Decimal `json:"normal_price"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
	IsGift        *bool            `json:"is_gift"`
	IsSellable    *bool            `json:"is_sellable"`
	IsActive      *bool            `json:"is_active"`
	IsComponent   *bool            `json:"is_component"`
	Condition     *string          `json:"condition" binding:"omitempty,oneof=new used refurbished"`
	ProductType   *string          `json:"product_type" binding:"omitempty,max=50"`
	MinStockLevel *int             `json:"min_stock_level" binding:"omitempty,min=0"`
}

// ListProductsFilter represents filter options for the product list
type ListProductsFilter struct {
	Search             string `form:"q"`
	Category           string `form:"category"`
	IsGift             *bool  `form:"is_gift"`
	IsSellable         *bool  `form:"is_sellable"`
	IsActive           *bool  `form:"is_active"`
	IncludeInactive    bool   `form:"include_inactive"`
	IsComponent        *bool  `form:"is_component"`
	Condition          string `form:"condition"`
	ProductType        string `form:"product_type"`
	MinPrice           string `form:"min_price"`
	MaxPrice           string `form:"max_price"`
	SortBy             string `form:"sort_by"`
	SortOrder          string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
	DistinctCategories bool   `form:"distinct_categories"`
	Page               int    `form:"page" binding:"omitempty,min=1"`
	PageSize           int    `form:"page_size" binding:"omitempty,min=1,max=1000"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	SKU            string          `json:"sku"`
	LegacyName     string          `json:"legacy_name,omitempty"`
	Category       string          `json:"category"`
	Color          string          `json:"color,omitempty"`
	Size           string          `json:"size,omitempty"`
	NormalPrice    decimal.Decimal `json:"normal_price"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	EffectivePrice decimal.Decimal `json:"price"`
	IsGift         bool            `json:"is_gift"`
	IsSellable     bool            `json:"is_sellable"`
	IsActive       bool            `json:"is_active"`
	IsComponent    bool            `json:"is_component"`
	Condition      string          `json:"condition,omitempty"`
	ProductType    string          `json:"product_type,omitempty"`
	MinStockLevel  int             `json:"min_stock_level"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ListProductsResponse carries products, or categories when distinct_categories is set
type ListProductsResponse struct {
	Products   []ProductResponse `json:"products,omitempty"`
	Categories []string          `json:"categories,omitempty"`
}

// ToProductResponse converts a domain product to a response
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		SKU:            p.SKU,
		LegacyName:     p.LegacyName,
		Category:       p.Category,
		Color:          p.Color,
		Size:           p.Size,
		NormalPrice:    p.NormalPrice,
		SalePrice:      p.SalePrice,
		EffectivePrice: p.EffectivePrice(),
		IsGift:         p.IsGift,
		IsSellable:     p.IsSellable,
		IsActive:       p.IsActive,
		IsComponent:    p.IsComponent,
		Condition:      p.Condition,
		ProductType:    p.ProductType,
		MinStockLevel:  p.MinStockLevel,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
