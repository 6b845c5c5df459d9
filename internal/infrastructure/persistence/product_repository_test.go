package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/catalog"
	"github.com/masgolf/backend/internal/domain/inventory"
	"github.com/masgolf/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustProduct(t *testing.T, name, category string, price int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(name, "")
	require.NoError(t, err)
	p.Category = category
	require.NoError(t, p.SetPrices(decimal.NewFromInt(price), decimal.Zero))
	return p
}

func mustTransaction(t *testing.T, productID uuid.UUID, typ inventory.TransactionType, qty int, day time.Time) *inventory.Transaction {
	t.Helper()
	tx, err := inventory.NewTransaction(productID, typ, qty, day)
	require.NoError(t, err)
	return tx
}

func TestGormProductRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormProductRepository(db)

	driver := mustProduct(t, "시크리트포스 드라이버", "driver", 1_150_000)
	goods := mustProduct(t, "MASGOLF 캡", "goods", 35_000)
	goods.IsGift = true
	goods.IsSellable = false
	retired := mustProduct(t, "구형 드라이버", "driver", 900_000)
	retired.Deactivate()
	for _, p := range []*catalog.Product{driver, goods, retired} {
		require.NoError(t, repo.Save(ctx, p))
	}

	t.Run("hides inactive products by default", func(t *testing.T) {
		items, err := repo.FindAll(ctx, catalog.ListFilter{})
		require.NoError(t, err)
		assert.Len(t, items, 2)

		items, err = repo.FindAll(ctx, catalog.ListFilter{IncludeInactive: true})
		require.NoError(t, err)
		assert.Len(t, items, 3)
	})

	t.Run("filters gifts", func(t *testing.T) {
		yes := true
		items, err := repo.FindAll(ctx, catalog.ListFilter{IsGift: &yes})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, goods.ID, items[0].ID)
	})

	t.Run("filters price range and sorts by price", func(t *testing.T) {
		lo := decimal.NewFromInt(10_000)
		hi := decimal.NewFromInt(2_000_000)
		f := catalog.ListFilter{MinPrice: &lo, MaxPrice: &hi, IncludeInactive: true}
		f.OrderBy = "price"
		f.OrderDir = "desc"
		items, err := repo.FindAll(ctx, f)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, driver.ID, items[0].ID)
		assert.Equal(t, goods.ID, items[2].ID)
	})

	t.Run("lists distinct categories", func(t *testing.T) {
		cats, err := repo.DistinctCategories(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"driver", "goods"}, cats)
	})

	t.Run("finds by ids", func(t *testing.T) {
		items, err := repo.FindByIDs(ctx, []uuid.UUID{driver.ID, goods.ID})
		require.NoError(t, err)
		assert.Len(t, items, 2)

		items, err = repo.FindByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("hard delete removes the transactions too", func(t *testing.T) {
		txRepo := NewGormInventoryTransactionRepository(db)
		day := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, txRepo.Save(ctx, mustTransaction(t, retired.ID, inventory.TransactionTypeInbound, 3, day)))
		require.NoError(t, txRepo.Save(ctx, mustTransaction(t, driver.ID, inventory.TransactionTypeInbound, 5, day)))

		require.NoError(t, repo.HardDelete(ctx, retired.ID))

		_, err := repo.FindByID(ctx, retired.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		all, err := txRepo.All(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, driver.ID, all[0].ProductID)

		assert.ErrorIs(t, repo.HardDelete(ctx, retired.ID), shared.ErrNotFound)
	})
}

func TestGormInventoryTransactionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormInventoryTransactionRepository(newTestDB(t))

	product := uuid.New()
	giftID := uuid.New()
	d1 := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC)

	out := mustTransaction(t, product, inventory.TransactionTypeOutbound, 2, d2)
	out.RelatedGiftID = &giftID
	for _, tx := range []*inventory.Transaction{
		mustTransaction(t, product, inventory.TransactionTypeInbound, 10, d1),
		mustTransaction(t, product, inventory.TransactionTypeScrap, 1, d1),
		mustTransaction(t, product, inventory.TransactionTypeAdjustment, -3, d1),
		out,
	} {
		require.NoError(t, repo.Save(ctx, tx))
	}

	t.Run("stock matches the in-memory sum", func(t *testing.T) {
		all, err := repo.All(ctx)
		require.NoError(t, err)

		stock, err := repo.StockOf(ctx, product)
		require.NoError(t, err)
		assert.Equal(t, 4, stock)
		assert.Equal(t, inventory.StockOf(all), stock)
	})

	t.Run("stock of an unknown product is zero", func(t *testing.T) {
		stock, err := repo.StockOf(ctx, uuid.New())
		require.NoError(t, err)
		assert.Zero(t, stock)
	})

	t.Run("filters by type", func(t *testing.T) {
		items, total, err := repo.FindAll(ctx, inventory.ListFilter{TxType: inventory.TransactionTypeOutbound})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, out.ID, items[0].ID)
	})

	t.Run("moves gift transactions to a new date", func(t *testing.T) {
		moved := time.Date(2025, 9, 9, 0, 0, 0, 0, time.UTC)
		require.NoError(t, repo.MoveGiftTransactions(ctx, giftID, moved))

		items, err := repo.FindByGiftID(ctx, giftID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.True(t, moved.Equal(items[0].TxDate))
	})

	t.Run("deletes gift transactions", func(t *testing.T) {
		require.NoError(t, repo.DeleteByGiftID(ctx, giftID))
		items, err := repo.FindByGiftID(ctx, giftID)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}
