package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/shared"
)

// ListFilter narrows transaction listings
type ListFilter struct {
	shared.Filter
	ProductID *uuid.UUID
	TxType    TransactionType
	DateFrom  *time.Time
	DateTo    *time.Time
}

// Repository defines inventory transaction persistence
type Repository interface {
	FindAll(ctx context.Context, filter ListFilter) ([]Transaction, int64, error)
	// All returns every transaction, for the dashboard
	All(ctx context.Context) ([]Transaction, error)
	StockOf(ctx context.Context, productID uuid.UUID) (int, error)
	Save(ctx context.Context, tx *Transaction) error
	FindByGiftID(ctx context.Context, giftID uuid.UUID) ([]Transaction, error)
	// MoveGiftTransactions sets tx_date on the outbound transactions of a gift
	MoveGiftTransactions(ctx context.Context, giftID uuid.UUID, txDate time.Time) error
	DeleteByGiftID(ctx context.Context, giftID uuid.UUID) error
}
