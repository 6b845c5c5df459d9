package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/shared"
)

// TransactionType represents the type of inventory transaction
type TransactionType string

const (
	// TransactionTypeInbound represents stock received from a supplier
	TransactionTypeInbound TransactionType = "inbound"
	// TransactionTypeOutbound represents stock leaving the store (sale, gift)
	TransactionTypeOutbound TransactionType = "outbound"
	// TransactionTypeScrap represents damaged stock written off
	TransactionTypeScrap TransactionType = "scrap"
	// TransactionTypeAdjustment corrects stock after a count; quantity may be negative
	TransactionTypeAdjustment TransactionType = "adjustment"
)

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeInbound, TransactionTypeOutbound, TransactionTypeScrap, TransactionTypeAdjustment:
		return true
	}
	return false
}

// Transaction is a single stock movement
type Transaction struct {
	shared.BaseEntity
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	TxType        TransactionType `gorm:"column:tx_type;type:varchar(20);not null" json:"tx_type"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	TxDate        time.Time       `gorm:"column:tx_date;type:date;not null;index" json:"tx_date"`
	Note          string          `gorm:"type:text" json:"note,omitempty"`
	Supplier      string          `gorm:"type:varchar(100)" json:"supplier,omitempty"`
	RelatedGiftID *uuid.UUID      `gorm:"type:uuid;index" json:"related_gift_id,omitempty"`
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "inventory_transactions"
}

// NewTransaction validates and creates a stock movement
func NewTransaction(productID uuid.UUID, txType TransactionType, quantity int, txDate time.Time) (*Transaction, error) {
	if productID == uuid.Nil {
		return nil, shared.InvalidInput("product_id is required")
	}
	if !txType.IsValid() {
		return nil, shared.InvalidInput("tx_type must be one of inbound, outbound, scrap, adjustment")
	}
	if quantity == 0 {
		return nil, shared.InvalidInput("quantity cannot be zero")
	}
	if quantity < 0 && txType != TransactionTypeAdjustment {
		return nil, shared.InvalidInput("quantity must be positive")
	}
	if txDate.IsZero() {
		txDate = time.Now()
	}
	return &Transaction{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		TxType:     txType,
		Quantity:   quantity,
		TxDate:     txDate,
	}, nil
}

// SignedQuantity is the effect on stock: inbound and adjustment add, outbound and scrap subtract
func (t *Transaction) SignedQuantity() int {
	switch t.TxType {
	case TransactionTypeOutbound, TransactionTypeScrap:
		return -t.Quantity
	default:
		return t.Quantity
	}
}

// StockOf sums the signed quantities of txs
func StockOf(txs []Transaction) int {
	total := 0
	for i := range txs {
		total += txs[i].SignedQuantity()
	}
	return total
}
