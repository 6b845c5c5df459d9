package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransaction(t *testing.T) {
	pid := uuid.New()
	day := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		txType  TransactionType
		qty     int
		wantErr bool
	}{
		{"inbound", TransactionTypeInbound, 5, false},
		{"negative adjustment", TransactionTypeAdjustment, -2, false},
		{"negative outbound", TransactionTypeOutbound, -1, true},
		{"zero", TransactionTypeScrap, 0, true},
		{"unknown type", TransactionType("transfer"), 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := NewTransaction(pid, tt.txType, tt.qty, day)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, day, tx.TxDate)
		})
	}

	_, err := NewTransaction(uuid.Nil, TransactionTypeInbound, 1, day)
	assert.Error(t, err)
}

func TestTransaction_SignedQuantity(t *testing.T) {
	assert.Equal(t, 3, (&Transaction{TxType: TransactionTypeInbound, Quantity: 3}).SignedQuantity())
	assert.Equal(t, -3, (&Transaction{TxType: TransactionTypeOutbound, Quantity: 3}).SignedQuantity())
	assert.Equal(t, -1, (&Transaction{TxType: TransactionTypeScrap, Quantity: 1}).SignedQuantity())
	assert.Equal(t, -4, (&Transaction{TxType: TransactionTypeAdjustment, Quantity: -4}).SignedQuantity())

	txs := []Transaction{
		{TxType: TransactionTypeInbound, Quantity: 10},
		{TxType: TransactionTypeOutbound, Quantity: 3},
		{TxType: TransactionTypeScrap, Quantity: 1},
		{TxType: TransactionTypeAdjustment, Quantity: -2},
	}
	assert.Equal(t, 4, StockOf(txs))
}
