package gift

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/catalog"
	"github.com/masgolf/backend/internal/domain/customer"
	"github.com/masgolf/backend/internal/domain/gift"
	"github.com/masgolf/backend/internal/domain/inventory"
	"github.com/masgolf/backend/internal/domain/shared"
	"github.com/masgolf/backend/internal/domain/survey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc       *Service
	gifts     *MockGiftRepository
	customers *MockCustomerRepository
	surveys   *MockSurveyRepository
	products  *MockProductRepository
	txs       *MockTransactionRepository
	uow       *inlineUnitOfWork
	customer  *customer.Customer
	product   *catalog.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		gifts:     new(MockGiftRepository),
		customers: new(MockCustomerRepository),
		surveys:   new(MockSurveyRepository),
		products:  new(MockProductRepository),
		txs:       new(MockTransactionRepository),
	}
	f.uow = &inlineUnitOfWork{gifts: f.gifts, txs: f.txs}
	f.svc = NewService(f.gifts, f.customers, f.surveys, f.products, f.uow, nil)

	c, err := customer.NewCustomer("김영수", "01055556666")
	require.NoError(t, err)
	f.customer = c
	p, err := catalog.NewProduct("모자", "CAP")
	require.NoError(t, err)
	f.product = p
	return f
}

// inlineUnitOfWork hands the mocks to fn and records whether the work
// would have been rolled back
type inlineUnitOfWork struct {
	gifts      *MockGiftRepository
	txs        *MockTransactionRepository
	runs       int
	rolledBack int
}

func (u *inlineUnitOfWork) Do(_ context.Context, fn func(gift.Repository, inventory.Repository) error) error {
	u.runs++
	err := fn(u.gifts, u.txs)
	if err != nil {
		u.rolledBack++
	}
	return err
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("auto-links survey by phone and records outbound", func(t *testing.T) {
		f := newFixture(t)
		sv, err := survey.NewSurvey("김영수", "01055556666")
		require.NoError(t, err)

		f.customers.On("FindByID", ctx, f.customer.ID).Return(f.customer, nil)
		f.products.On("FindByID", ctx, f.product.ID).Return(f.product, nil)
		f.surveys.On("FindLatestByPhone", ctx, "01055556666").Return(sv, nil)
		f.gifts.On("Save", ctx, mock.AnythingOfType("*gift.CustomerGift")).Return(nil)
		f.txs.On("Save", ctx, mock.AnythingOfType("*inventory.Transaction")).Return(nil)
		f.surveys.On("SetGiftDelivered", ctx, sv.ID, true).Return(nil)

		resp, err := f.svc.Create(ctx, CreateGiftRequest{
			CustomerID:     f.customer.ID,
			ProductID:      &f.product.ID,
			Quantity:       2,
			DeliveryStatus: "sent",
			DeliveryDate:   "2025-11-20",
		})
		require.NoError(t, err)
		assert.True(t, resp.AutoLinkedSurvey)
		assert.Equal(t, sv.ID, *resp.SurveyID)
		assert.Equal(t, "2025-11-20", resp.DeliveryDate)

		tx := f.txs.Calls[0].Arguments.Get(1).(*inventory.Transaction)
		assert.Equal(t, inventory.TransactionTypeOutbound, tx.TxType)
		assert.Equal(t, 2, tx.Quantity)
		assert.Equal(t, "2025-11-20", tx.TxDate.Format(dateLayout))
		assert.Equal(t, resp.ID, *tx.RelatedGiftID)
		f.surveys.AssertExpectations(t)
	})

	t.Run("falls back to name match", func(t *testing.T) {
		f := newFixture(t)
		sv, err := survey.NewSurvey("김영수", "01099998888")
		require.NoError(t, err)

		f.customers.On("FindByID", ctx, f.customer.ID).Return(f.customer, nil)
		f.surveys.On("FindLatestByPhone", ctx, "01055556666").Return(nil, shared.NotFound("Survey"))
		f.surveys.On("FindLatestByName", ctx, "김영수").Return(sv, nil)
		f.gifts.On("Save", ctx, mock.AnythingOfType("*gift.CustomerGift")).Return(nil)

		resp, err := f.svc.Create(ctx, CreateGiftRequest{CustomerID: f.customer.ID, GiftText: "장갑"})
		require.NoError(t, err)
		assert.Equal(t, sv.ID, *resp.SurveyID)
		f.surveys.AssertNotCalled(t, "SetGiftDelivered", mock.Anything, mock.Anything, mock.Anything)
		f.txs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("explicit survey is not marked", func(t *testing.T) {
		f := newFixture(t)
		surveyID := uuid.New()
		f.customers.On("FindByID", ctx, f.customer.ID).Return(f.customer, nil)
		f.gifts.On("Save", ctx, mock.AnythingOfType("*gift.CustomerGift")).Return(nil)

		resp, err := f.svc.Create(ctx, CreateGiftRequest{CustomerID: f.customer.ID, SurveyID: &surveyID, DeliveryStatus: "sent"})
		require.NoError(t, err)
		assert.False(t, resp.AutoLinkedSurvey)
		f.surveys.AssertNotCalled(t, "SetGiftDelivered", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown customer", func(t *testing.T) {
		f := newFixture(t)
		id := uuid.New()
		f.customers.On("FindByID", ctx, id).Return(nil, shared.NotFound("Customer"))
		_, err := f.svc.Create(ctx, CreateGiftRequest{CustomerID: id})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Zero(t, f.uow.runs)
	})

	t.Run("failed outbound rolls back the gift", func(t *testing.T) {
		f := newFixture(t)
		surveyID := uuid.New()
		f.customers.On("FindByID", ctx, f.customer.ID).Return(f.customer, nil)
		f.products.On("FindByID", ctx, f.product.ID).Return(f.product, nil)
		f.gifts.On("Save", ctx, mock.AnythingOfType("*gift.CustomerGift")).Return(nil)
		f.txs.On("Save", ctx, mock.AnythingOfType("*inventory.Transaction")).Return(errors.New("db down"))

		_, err := f.svc.Create(ctx, CreateGiftRequest{
			CustomerID:     f.customer.ID,
			SurveyID:       &surveyID,
			ProductID:      &f.product.ID,
			DeliveryStatus: "sent",
		})
		require.EqualError(t, err, "db down")
		assert.Equal(t, 1, f.uow.runs)
		assert.Equal(t, 1, f.uow.rolledBack)
		f.gifts.AssertNumberOfCalls(t, "Save", 1)
	})
}

func existingGift(t *testing.T, f *fixture) *gift.CustomerGift {
	t.Helper()
	g, err := gift.NewCustomerGift(f.customer.ID)
	require.NoError(t, err)
	surveyID := uuid.New()
	g.SurveyID = &surveyID
	g.ProductID = &f.product.ID
	d := time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC)
	g.DeliveryDate = &d
	return g
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("delivery date moves transactions", func(t *testing.T) {
		f := newFixture(t)
		g := existingGift(t, f)
		f.gifts.On("FindByID", ctx, g.ID).Return(g, nil)
		f.gifts.On("Save", ctx, g).Return(nil)
		want := time.Date(2025, 11, 25, 0, 0, 0, 0, time.UTC)
		f.txs.On("MoveGiftTransactions", ctx, g.ID, want).Return(nil)

		date := "2025-11-25"
		resp, err := f.svc.Update(ctx, g.ID, UpdateGiftRequest{DeliveryDate: &date})
		require.NoError(t, err)
		assert.Equal(t, "2025-11-25", resp.DeliveryDate)
		f.txs.AssertExpectations(t)
		f.txs.AssertNotCalled(t, "DeleteByGiftID", mock.Anything, mock.Anything)
	})

	t.Run("failed transaction move rolls back the save", func(t *testing.T) {
		f := newFixture(t)
		g := existingGift(t, f)
		f.gifts.On("FindByID", ctx, g.ID).Return(g, nil)
		f.gifts.On("Save", ctx, g).Return(nil)
		f.txs.On("MoveGiftTransactions", ctx, g.ID, mock.AnythingOfType("time.Time")).Return(errors.New("db down"))

		date := "2025-11-25"
		_, err := f.svc.Update(ctx, g.ID, UpdateGiftRequest{DeliveryDate: &date})
		require.EqualError(t, err, "db down")
		assert.Equal(t, 1, f.uow.rolledBack)
		f.surveys.AssertNotCalled(t, "SetGiftDelivered", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cancel removes transactions and unmarks survey", func(t *testing.T) {
		f := newFixture(t)
		g := existingGift(t, f)
		g.DeliveryStatus = gift.StatusSent
		f.gifts.On("FindByID", ctx, g.ID).Return(g, nil)
		f.gifts.On("Save", ctx, g).Return(nil)
		f.txs.On("DeleteByGiftID", ctx, g.ID).Return(nil)
		f.surveys.On("SetGiftDelivered", ctx, *g.SurveyID, false).Return(nil)

		status := "canceled"
		_, err := f.svc.Update(ctx, g.ID, UpdateGiftRequest{DeliveryStatus: &status})
		require.NoError(t, err)
		f.txs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.surveys.AssertExpectations(t)
	})

	t.Run("quantity change rewrites transactions", func(t *testing.T) {
		f := newFixture(t)
		g := existingGift(t, f)
		f.gifts.On("FindByID", ctx, g.ID).Return(g, nil)
		f.gifts.On("Save", ctx, g).Return(nil)
		f.txs.On("DeleteByGiftID", ctx, g.ID).Return(nil)
		f.txs.On("Save", ctx, mock.MatchedBy(func(tx *inventory.Transaction) bool {
			return tx.Quantity == 3 && *tx.RelatedGiftID == g.ID
		})).Return(nil)

		qty := 3
		_, err := f.svc.Update(ctx, g.ID, UpdateGiftRequest{Quantity: &qty})
		require.NoError(t, err)
		f.txs.AssertExpectations(t)
	})

	t.Run("empty update", func(t *testing.T) {
		f := newFixture(t)
		g := existingGift(t, f)
		f.gifts.On("FindByID", ctx, g.ID).Return(g, nil)

		_, err := f.svc.Update(ctx, g.ID, UpdateGiftRequest{})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.List(ctx, ListGiftsFilter{})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	g := existingGift(t, f)
	f.gifts.On("FindAll", ctx, gift.ListFilter{CustomerID: &f.customer.ID}).Return([]gift.CustomerGift{*g}, nil)
	items, err := f.svc.List(ctx, ListGiftsFilter{CustomerID: &f.customer.ID})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := existingGift(t, f)
	f.gifts.On("FindByID", ctx, g.ID).Return(g, nil)
	f.txs.On("DeleteByGiftID", ctx, g.ID).Return(nil)
	f.gifts.On("Delete", ctx, g.ID).Return(nil)

	require.NoError(t, f.svc.Delete(ctx, g.ID))
	f.txs.AssertExpectations(t)
	f.gifts.AssertExpectations(t)
	assert.Equal(t, 1, f.uow.runs)
	assert.Zero(t, f.uow.rolledBack)
}

func TestService_Delete_FailureRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := existingGift(t, f)
	f.gifts.On("FindByID", ctx, g.ID).Return(g, nil)
	f.txs.On("DeleteByGiftID", ctx, g.ID).Return(nil)
	f.gifts.On("Delete", ctx, g.ID).Return(errors.New("db down"))

	require.EqualError(t, f.svc.Delete(ctx, g.ID), "db down")
	// both deletes ran inside the one unit that failed
	f.txs.AssertCalled(t, "DeleteByGiftID", ctx, g.ID)
	assert.Equal(t, 1, f.uow.runs)
	assert.Equal(t, 1, f.uow.rolledBack)
}
