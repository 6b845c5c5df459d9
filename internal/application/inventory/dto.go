package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/inventory"
)

// RecordTransactionRequest represents a stock movement to record
type RecordTransactionRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	TxType    string    `json:"tx_type" binding:"required,oneof=inbound outbound scrap adjustment"`
	Quantity  int       `json:"quantity" binding:"required"`
	TxDate    string    `json:"tx_date" binding:"omitempty,datetime=2006-01-02"`
	Note      string    `json:"note" binding:"max=1000"`
	Supplier  string    `json:"supplier" binding:"max=100"`
}

// ListTransactionsFilter represents filter options for the transaction list
type ListTransactionsFilter struct {
	ProductID *uuid.UUID `form:"-"`
	TxType    string     `form:"tx_type" binding:"omitempty,oneof=inbound outbound scrap adjustment"`
	DateFrom  string     `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo    string     `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=1000"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID             uuid.UUID  `json:"id"`
	ProductID      uuid.UUID  `json:"product_id"`
	ProductName    string     `json:"product_name,omitempty"`
	TxType         string     `json:"tx_type"`
	Quantity       int        `json:"quantity"`
	SignedQuantity int        `json:"signed_quantity"`
	TxDate         string     `json:"tx_date"`
	Note           string     `json:"note,omitempty"`
	Supplier       string     `json:"supplier,omitempty"`
	RelatedGiftID  *uuid.UUID `json:"related_gift_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// StockResponse is the current stock of one product
type StockResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Stock     int       `json:"stock"`
}

// ToTransactionResponse converts a domain transaction to a response
func ToTransactionResponse(tx *inventory.Transaction, productName string) TransactionResponse {
	return TransactionResponse{
		ID:             tx.ID,
		ProductID:      tx.ProductID,
		ProductName:    productName,
		TxType:         string(tx.TxType),
		Quantity:       tx.Quantity,
		SignedQuantity: tx.SignedQuantity(),
		TxDate:         tx.TxDate.Format(dateLayout),
		Note:           tx.Note,
		Supplier:       tx.Supplier,
		RelatedGiftID:  tx.RelatedGiftID,
		CreatedAt:      tx.CreatedAt,
	}
}
