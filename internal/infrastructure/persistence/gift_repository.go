package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/gift"
	"github.com/masgolf/backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormGiftRepository implements gift.Repository using GORM
type GormGiftRepository struct {
	db *gorm.DB
}

// NewGormGiftRepository creates a new GormGiftRepository
func NewGormGiftRepository(db *gorm.DB) *GormGiftRepository {
	return &GormGiftRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *GormGiftRepository) WithTx(tx *gorm.DB) *GormGiftRepository {
	return &GormGiftRepository{db: tx}
}

// FindByID finds a gift by its ID
func (r *GormGiftRepository) FindByID(ctx context.Context, id uuid.UUID) (*gift.CustomerGift, error) {
	var g gift.CustomerGift
	if err := r.db.WithContext(ctx).First(&g, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &g, nil
}

// FindAll lists gifts, undated gifts last
func (r *GormGiftRepository) FindAll(ctx context.Context, filter gift.ListFilter) ([]gift.CustomerGift, error) {
	q := r.db.WithContext(ctx).Model(&gift.CustomerGift{})
	if filter.CustomerID != nil {
		q = q.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.SurveyID != nil {
		q = q.Where("survey_id = ?", *filter.SurveyID)
	}

	var items []gift.CustomerGift
	err := q.Order("CASE WHEN delivery_date IS NULL THEN 1 ELSE 0 END, delivery_date DESC, created_at DESC").
		Find(&items).Error
	return items, err
}

// Save creates or updates a gift
func (r *GormGiftRepository) Save(ctx context.Context, g *gift.CustomerGift) error {
	return r.db.WithContext(ctx).Save(g).Error
}

// Delete removes a gift
func (r *GormGiftRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[gift.CustomerGift](ctx, r.db, id)
}

var _ gift.Repository = (*GormGiftRepository)(nil)

// GormGiftUnitOfWork writes a gift and its stock movements in one transaction
type GormGiftUnitOfWork struct {
	db    *gorm.DB
	gifts *GormGiftRepository
	txs   *GormInventoryTransactionRepository
}

// NewGormGiftUnitOfWork creates a new GormGiftUnitOfWork
func NewGormGiftUnitOfWork(db *gorm.DB) *GormGiftUnitOfWork {
	return &GormGiftUnitOfWork{
		db:    db,
		gifts: NewGormGiftRepository(db),
		txs:   NewGormInventoryTransactionRepository(db),
	}
}

// Do runs fn inside a transaction; any error from fn rolls it back
func (u *GormGiftUnitOfWork) Do(ctx context.Context, fn func(gifts gift.Repository, txs inventory.Repository) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(u.gifts.WithTx(tx), u.txs.WithTx(tx))
	})
}
