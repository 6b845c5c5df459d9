package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormInventoryTransactionRepository implements inventory.Repository using GORM
type GormInventoryTransactionRepository struct {
	db *gorm.DB
}

// NewGormInventoryTransactionRepository creates a new GormInventoryTransactionRepository
func NewGormInventoryTransactionRepository(db *gorm.DB) *GormInventoryTransactionRepository {
	return &GormInventoryTransactionRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *GormInventoryTransactionRepository) WithTx(tx *gorm.DB) *GormInventoryTransactionRepository {
	return &GormInventoryTransactionRepository{db: tx}
}

// FindAll lists transactions, newest tx_date first by default
func (r *GormInventoryTransactionRepository) FindAll(ctx context.Context, filter inventory.ListFilter) ([]inventory.Transaction, int64, error) {
	q := r.db.WithContext(ctx).Model(&inventory.Transaction{})
	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	if filter.TxType != "" {
		q = q.Where("tx_type = ?", filter.TxType)
	}
	if filter.DateFrom != nil {
		q = q.Where("tx_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("tx_date <= ?", *filter.DateTo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []inventory.Transaction
	order := orderClause(filter.OrderBy, filter.OrderDir, TransactionSortFields, "tx_date")
	if err := paginate(q, filter.Filter, order).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// All returns every transaction
func (r *GormInventoryTransactionRepository) All(ctx context.Context) ([]inventory.Transaction, error) {
	var items []inventory.Transaction
	err := r.db.WithContext(ctx).Find(&items).Error
	return items, err
}

// StockOf sums signed quantities of a product in SQL
func (r *GormInventoryTransactionRepository) StockOf(ctx context.Context, productID uuid.UUID) (int, error) {
	var stock int
	err := r.db.WithContext(ctx).Model(&inventory.Transaction{}).
		Select(`COALESCE(SUM(CASE WHEN tx_type IN ('outbound', 'scrap') THEN -quantity ELSE quantity END), 0)`).
		Where("product_id = ?", productID).
		Scan(&stock).Error
	return stock, err
}

// Save creates or updates a transaction
func (r *GormInventoryTransactionRepository) Save(ctx context.Context, tx *inventory.Transaction) error {
	return r.db.WithContext(ctx).Save(tx).Error
}

// FindByGiftID returns the transactions recorded for a gift
func (r *GormInventoryTransactionRepository) FindByGiftID(ctx context.Context, giftID uuid.UUID) ([]inventory.Transaction, error) {
	var items []inventory.Transaction
	err := r.db.WithContext(ctx).Where("related_gift_id = ?", giftID).Find(&items).Error
	return items, err
}

// MoveGiftTransactions updates tx_date of a gift's outbound transactions
func (r *GormInventoryTransactionRepository) MoveGiftTransactions(ctx context.Context, giftID uuid.UUID, txDate time.Time) error {
	return r.db.WithContext(ctx).Model(&inventory.Transaction{}).
		Where("related_gift_id = ? AND tx_type = ?", giftID, inventory.TransactionTypeOutbound).
		Updates(map[string]any{"tx_date": txDate, "updated_at": time.Now()}).Error
}

// DeleteByGiftID removes every transaction of a gift
func (r *GormInventoryTransactionRepository) DeleteByGiftID(ctx context.Context, giftID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("related_gift_id = ?", giftID).Delete(&inventory.Transaction{}).Error
}

var _ inventory.Repository = (*GormInventoryTransactionRepository)(nil)
