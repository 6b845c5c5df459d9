package inventory

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(name, category string, price int64, min int) catalog.Product {
	p, _ := catalog.NewProduct(name, "")
	p.Category = category
	p.NormalPrice = decimal.NewFromInt(price)
	p.MinStockLevel = min
	return *p
}

func tx(pid uuid.UUID, typ TransactionType, qty int, day int) Transaction {
	t, _ := NewTransaction(pid, typ, qty, time.Date(2025, 11, day, 0, 0, 0, 0, time.UTC))
	return *t
}

func TestBuildDashboard(t *testing.T) {
	driver := product("드라이버", "club", 1_000_000, 2)
	goods := product("모자", "goods", 30_000, 0)
	towel := product("타월", "", 10_000, 5)
	products := []catalog.Product{driver, goods, towel}

	txs := []Transaction{
		tx(driver.ID, TransactionTypeInbound, 3, 1),
		tx(driver.ID, TransactionTypeOutbound, 2, 2),
		tx(goods.ID, TransactionTypeInbound, 10, 3),
		tx(goods.ID, TransactionTypeScrap, 1, 4),
		tx(towel.ID, TransactionTypeAdjustment, 4, 5),
	}

	d := BuildDashboard(txs, products)

	assert.Equal(t, 3, d.Summary.TotalProducts)
	assert.Equal(t, 1+9+4, d.Summary.TotalQuantity)
	assert.True(t, d.Summary.TotalValue.Equal(decimal.NewFromInt(1_000_000+9*30_000+4*10_000)))

	require.Len(t, d.CategoryStats, 3)
	assert.Equal(t, "club", d.CategoryStats[0].Category)
	assert.Equal(t, "goods", d.CategoryStats[1].Category)
	assert.Equal(t, catalog.UncategorizedLabel, d.CategoryStats[2].Category)
	assert.Equal(t, 9, d.CategoryStats[1].Quantity)

	require.Len(t, d.LowStockProducts, 2)
	assert.Equal(t, "드라이버", d.LowStockProducts[0].Name)
	assert.Equal(t, "타월", d.LowStockProducts[1].Name)

	require.Len(t, d.RecentTransactions, 5)
	assert.Equal(t, "타월", d.RecentTransactions[0].ProductName)
	assert.Equal(t, "드라이버", d.RecentTransactions[4].ProductName)
}

func TestBuildDashboard_Empty(t *testing.T) {
	d := BuildDashboard(nil, nil)
	assert.Equal(t, 0, d.Summary.TotalProducts)
	assert.NotNil(t, d.CategoryStats)
	assert.NotNil(t, d.LowStockProducts)
	assert.NotNil(t, d.RecentTransactions)
}

func TestBuildDashboard_RecentLimit(t *testing.T) {
	p := product("볼", "goods", 5_000, 0)
	var txs []Transaction
	for day := 1; day <= 15; day++ {
		txs = append(txs, tx(p.ID, TransactionTypeInbound, 1, day))
	}
	d := BuildDashboard(txs, []catalog.Product{p})
	require.Len(t, d.RecentTransactions, RecentLimit)
	assert.Equal(t, 15, d.RecentTransactions[0].TxDate.Day())
}

func TestBuildDashboard_CategoryTotalsMatchSummary(t *testing.T) {
	f := gofakeit.New(42)
	categories := []string{"club", "goods", "shaft", ""}
	types := []string{"inbound", "outbound", "scrap", "adjustment"}

	for round := 0; round < 50; round++ {
		var products []catalog.Product
		for i := 0; i < f.Number(0, 8); i++ {
			products = append(products, product(f.Word(), f.RandomString(categories), int64(f.Number(0, 500_000)), f.Number(0, 5)))
		}

		var txs []Transaction
		var want int
		for i := 0; i < f.Number(0, 40); i++ {
			pid := uuid.New()
			if len(products) > 0 && f.Number(0, 9) > 0 {
				pid = products[f.Number(0, len(products)-1)].ID
			}
			row := Transaction{ProductID: pid, TxType: TransactionType(f.RandomString(types)), Quantity: f.Number(1, 20)}
			want += row.SignedQuantity()
			txs = append(txs, row)
		}

		d := BuildDashboard(txs, products)

		qty := 0
		value := decimal.Zero
		for _, s := range d.CategoryStats {
			qty += s.Quantity
			value = value.Add(s.Value)
		}
		assert.Equal(t, want, d.Summary.TotalQuantity, "round %d", round)
		assert.Equal(t, d.Summary.TotalQuantity, qty, "round %d", round)
		assert.True(t, d.Summary.TotalValue.Equal(value), "round %d", round)
	}
}
