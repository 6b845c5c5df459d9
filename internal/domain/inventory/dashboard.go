package inventory

import (
	"sort"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// RecentLimit caps Dashboard.RecentTransactions
const RecentLimit = 10

// Summary is the store-wide stock total
type Summary struct {
	TotalProducts int             `json:"total_products"`
	TotalQuantity int             `json:"total_quantity"`
	TotalValue    decimal.Decimal `json:"total_value"`
}

// CategoryStat is the stock of one category
type CategoryStat struct {
	Category string          `json:"category"`
	Count    int             `json:"count"`
	Quantity int             `json:"quantity"`
	Value    decimal.Decimal `json:"value"`
}

// LowStockProduct is a product below its alert threshold
type LowStockProduct struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Stock         int       `json:"stock"`
	MinStockLevel int       `json:"min_stock_level"`
}

// RecentTransaction is a transaction joined with its product name
type RecentTransaction struct {
	Transaction
	ProductName string `json:"product_name"`
}

// Dashboard is the inventory overview
type Dashboard struct {
	Summary            Summary             `json:"summary"`
	CategoryStats      []CategoryStat      `json:"category_stats"`
	LowStockProducts   []LowStockProduct   `json:"low_stock_products"`
	RecentTransactions []RecentTransaction `json:"recent_transactions"`
}

// BuildDashboard aggregates txs against products in memory.
// Transactions of unknown products count toward UncategorizedLabel at zero value,
// so category totals always add up to the summary.
func BuildDashboard(txs []Transaction, products []catalog.Product) Dashboard {
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	stock := make(map[uuid.UUID]int, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
		stock[products[i].ID] = 0
	}

	orphan := 0
	for i := range txs {
		if _, ok := byID[txs[i].ProductID]; !ok {
			orphan += txs[i].SignedQuantity()
			continue
		}
		stock[txs[i].ProductID] += txs[i].SignedQuantity()
	}

	d := Dashboard{
		Summary:            Summary{TotalProducts: len(products), TotalValue: decimal.Zero},
		CategoryStats:      []CategoryStat{},
		LowStockProducts:   []LowStockProduct{},
		RecentTransactions: []RecentTransaction{},
	}
	cats := make(map[string]*CategoryStat)
	stat := func(label string) *CategoryStat {
		s, ok := cats[label]
		if !ok {
			s = &CategoryStat{Category: label, Value: decimal.Zero}
			cats[label] = s
		}
		return s
	}

	for i := range products {
		p := &products[i]
		qty := stock[p.ID]
		value := p.NormalPrice.Mul(decimal.NewFromInt(int64(qty)))

		s := stat(p.CategoryLabel())
		s.Count++
		s.Quantity += qty
		s.Value = s.Value.Add(value)

		d.Summary.TotalQuantity += qty
		d.Summary.TotalValue = d.Summary.TotalValue.Add(value)

		if qty < p.MinStockLevel {
			d.LowStockProducts = append(d.LowStockProducts, LowStockProduct{
				ID:            p.ID,
				Name:          p.Name,
				Category:      p.CategoryLabel(),
				Stock:         qty,
				MinStockLevel: p.MinStockLevel,
			})
		}
	}
	if orphan != 0 {
		stat(catalog.UncategorizedLabel).Quantity += orphan
		d.Summary.TotalQuantity += orphan
	}

	for _, s := range cats {
		d.CategoryStats = append(d.CategoryStats, *s)
	}
	sort.Slice(d.CategoryStats, func(i, j int) bool {
		return d.CategoryStats[i].Category < d.CategoryStats[j].Category
	})
	sort.Slice(d.LowStockProducts, func(i, j int) bool {
		return d.LowStockProducts[i].Stock < d.LowStockProducts[j].Stock
	})

	d.RecentTransactions = recent(txs, byID)
	return d
}

func recent(txs []Transaction, products map[uuid.UUID]*catalog.Product) []RecentTransaction {
	sorted := make([]Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].TxDate.Equal(sorted[j].TxDate) {
			return sorted[i].TxDate.After(sorted[j].TxDate)
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > RecentLimit {
		sorted = sorted[:RecentLimit]
	}
	out := make([]RecentTransaction, 0, len(sorted))
	for _, tx := range sorted {
		name := ""
		if p, ok := products[tx.ProductID]; ok {
			name = p.Name
		}
		out = append(out, RecentTransaction{Transaction: tx, ProductName: name})
	}
	return out
}
