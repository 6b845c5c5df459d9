package catalog

import (
	"strings"

	"github.com/masgolf/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// UncategorizedLabel groups products with no category
const UncategorizedLabel = "uncategorized"

// Product is a sellable club, component, or gift item
type Product struct {
	shared.BaseEntity
	Name          string          `gorm:"type:varchar(200);not null" json:"name"`
	SKU           string          `gorm:"column:sku;type:varchar(100);index" json:"sku"`
	LegacyName    string          `gorm:"type:varchar(200)" json:"legacy_name,omitempty"`
	Category      string          `gorm:"type:varchar(100);index" json:"category"`
	Color         string          `gorm:"type:varchar(50)" json:"color,omitempty"`
	Size          string          `gorm:"type:varchar(50)" json:"size,omitempty"`
	NormalPrice   decimal.Decimal `gorm:"type:decimal(12,0);not null;default:0" json:"normal_price"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(12,0);not null;default:0" json:"sale_price"`
	IsGift        bool            `gorm:"not null;default:false" json:"is_gift"`
	IsSellable    bool            `gorm:"not null" json:"is_sellable"`
	IsActive      bool            `gorm:"not null" json:"is_active"`
	IsComponent   bool            `gorm:"not null;default:false" json:"is_component"`
	Condition     string          `gorm:"type:varchar(20)" json:"condition,omitempty"`
	ProductType   string          `gorm:"type:varchar(50)" json:"product_type,omitempty"`
	MinStockLevel int             `gorm:"not null;default:0" json:"min_stock_level"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates an active, sellable product
func NewProduct(name, sku string) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.InvalidInput("product name is required")
	}
	if len(name) > 200 {
		return nil, shared.InvalidInput("product name cannot exceed 200 characters")
	}
	return &Product{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		SKU:         strings.TrimSpace(sku),
		NormalPrice: decimal.Zero,
		SalePrice:   decimal.Zero,
		IsSellable:  true,
		IsActive:    true,
	}, nil
}

// SetPrices sets the list and sale price. A zero sale price means "no discount".
func (p *Product) SetPrices(normal, sale decimal.Decimal) error {
	if normal.IsNegative() || sale.IsNegative() {
		return shared.InvalidInput("price cannot be negative")
	}
	p.NormalPrice = normal
	p.SalePrice = sale
	p.Touch()
	return nil
}

// SetMinStockLevel sets the low-stock alert threshold
func (p *Product) SetMinStockLevel(level int) error {
	if level < 0 {
		return shared.InvalidInput("min stock level cannot be negative")
	}
	p.MinStockLevel = level
	p.Touch()
	return nil
}

// Deactivate performs the soft delete
func (p *Product) Deactivate() {
	p.IsActive = false
	p.Touch()
}

// EffectivePrice is the sale price when set, otherwise the list price
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice.IsPositive() {
		return p.SalePrice
	}
	return p.NormalPrice
}

// CategoryLabel returns the category or UncategorizedLabel
func (p *Product) CategoryLabel() string {
	if c := strings.TrimSpace(p.Category); c != "" {
		return c
	}
	return UncategorizedLabel
}
