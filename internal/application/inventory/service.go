// Package inventory implements stock movements and the inventory dashboard.
package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/catalog"
	"github.com/masgolf/backend/internal/domain/inventory"
	"github.com/masgolf/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// Service handles inventory use cases
type Service struct {
	txs      inventory.Repository
	products catalog.Repository
	logger   *zap.Logger
}

// NewService creates a new inventory Service
func NewService(txs inventory.Repository, products catalog.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{txs: txs, products: products, logger: logger}
}

func parseDay(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, shared.InvalidInput(field + " must be YYYY-MM-DD")
	}
	return &d, nil
}

// RecordTransaction records a stock movement of an existing product
func (s *Service) RecordTransaction(ctx context.Context, req RecordTransactionRequest) (*TransactionResponse, error) {
	p, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	day, err := parseDay("tx_date", req.TxDate)
	if err != nil {
		return nil, err
	}
	var txDate time.Time
	if day != nil {
		txDate = *day
	}

	tx, err := inventory.NewTransaction(p.ID, inventory.TransactionType(req.TxType), req.Quantity, txDate)
	if err != nil {
		return nil, err
	}
	tx.Note = req.Note
	tx.Supplier = req.Supplier

	if err := s.txs.Save(ctx, tx); err != nil {
		return nil, err
	}
	s.logger.Info("Inventory transaction recorded",
		zap.String("product_id", p.ID.String()),
		zap.String("tx_type", string(tx.TxType)),
		zap.Int("quantity", tx.Quantity))

	resp := ToTransactionResponse(tx, p.Name)
	return &resp, nil
}

// ListTransactions returns a page of transactions with product names
func (s *Service) ListTransactions(ctx context.Context, f ListTransactionsFilter) (shared.Paginated[TransactionResponse], error) {
	from, err := parseDay("date_from", f.DateFrom)
	if err != nil {
		return shared.Paginated[TransactionResponse]{}, err
	}
	to, err := parseDay("date_to", f.DateTo)
	if err != nil {
		return shared.Paginated[TransactionResponse]{}, err
	}
	filter := inventory.ListFilter{
		Filter:    shared.Filter{Page: f.Page, PageSize: f.PageSize, OrderBy: "tx_date", OrderDir: "desc"}.Normalize(),
		ProductID: f.ProductID,
		TxType:    inventory.TransactionType(f.TxType),
		DateFrom:  from,
		DateTo:    to,
	}
	items, total, err := s.txs.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[TransactionResponse]{}, err
	}

	names, err := s.productNames(ctx, items)
	if err != nil {
		return shared.Paginated[TransactionResponse]{}, err
	}
	out := make([]TransactionResponse, len(items))
	for i := range items {
		out[i] = ToTransactionResponse(&items[i], names[items[i].ProductID])
	}
	return shared.NewPaginated(out, total, filter.Page, filter.PageSize), nil
}

func (s *Service) productNames(ctx context.Context, items []inventory.Transaction) (map[uuid.UUID]string, error) {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for i := range items {
		if id := items[i].ProductID; !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range products {
		names[products[i].ID] = products[i].Name
	}
	return names, nil
}

// StockOf returns the current stock of a product
func (s *Service) StockOf(ctx context.Context, productID uuid.UUID) (*StockResponse, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	stock, err := s.txs.StockOf(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &StockResponse{ProductID: productID, Stock: stock}, nil
}

// Dashboard summarizes stock and value over every active product
func (s *Service) Dashboard(ctx context.Context) (*inventory.Dashboard, error) {
	products, err := s.products.FindAll(ctx, catalog.ListFilter{})
	if err != nil {
		return nil, err
	}
	txs, err := s.txs.All(ctx)
	if err != nil {
		return nil, err
	}
	d := inventory.BuildDashboard(txs, products)
	return &d, nil
}
