package gift

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/catalog"
	"github.com/masgolf/backend/internal/domain/customer"
	"github.com/masgolf/backend/internal/domain/gift"
	"github.com/masgolf/backend/internal/domain/inventory"
	"github.com/masgolf/backend/internal/domain/survey"
	"github.com/stretchr/testify/mock"
)

type MockGiftRepository struct {
	mock.Mock
}

func (m *MockGiftRepository) FindByID(ctx context.Context, id uuid.UUID) (*gift.CustomerGift, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gift.CustomerGift), args.Error(1)
}

func (m *MockGiftRepository) FindAll(ctx context.Context, filter gift.ListFilter) ([]gift.CustomerGift, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]gift.CustomerGift), args.Error(1)
}

func (m *MockGiftRepository) Save(ctx context.Context, g *gift.CustomerGift) error {
	return m.Called(ctx, g).Error(0)
}

func (m *MockGiftRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByPhone(ctx context.Context, phone string) (*customer.Customer, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByPhones(ctx context.Context, phones []string) ([]customer.Customer, error) {
	args := m.Called(ctx, phones)
	return args.Get(0).([]customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter customer.ListFilter) ([]customer.Customer, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]customer.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) OptedOutPhones(ctx context.Context, phones []string) (map[string]bool, error) {
	args := m.Called(ctx, phones)
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCustomerRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	args := m.Called(ctx, phone)
	return args.Bool(0), args.Error(1)
}

type MockSurveyRepository struct {
	mock.Mock
}

func (m *MockSurveyRepository) FindByID(ctx context.Context, id uuid.UUID) (*survey.Survey, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*survey.Survey), args.Error(1)
}

func (m *MockSurveyRepository) FindAll(ctx context.Context, filter survey.ListFilter) ([]survey.Survey, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]survey.Survey), args.Get(1).(int64), args.Error(2)
}

func (m *MockSurveyRepository) FindLatestByPhone(ctx context.Context, phone string) (*survey.Survey, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*survey.Survey), args.Error(1)
}

func (m *MockSurveyRepository) FindLatestByName(ctx context.Context, name string) (*survey.Survey, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*survey.Survey), args.Error(1)
}

func (m *MockSurveyRepository) Save(ctx context.Context, s *survey.Survey) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSurveyRepository) SetGiftDelivered(ctx context.Context, id uuid.UUID, delivered bool) error {
	return m.Called(ctx, id, delivered).Error(0)
}

func (m *MockSurveyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter catalog.ListFilter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindAll(ctx context.Context, filter inventory.ListFilter) ([]inventory.Transaction, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransactionRepository) All(ctx context.Context) ([]inventory.Transaction, error) {
	args := m.Called(ctx)
	return args.Get(0).([]inventory.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) StockOf(ctx context.Context, productID uuid.UUID) (int, error) {
	args := m.Called(ctx, productID)
	return args.Int(0), args.Error(1)
}

func (m *MockTransactionRepository) Save(ctx context.Context, tx *inventory.Transaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockTransactionRepository) FindByGiftID(ctx context.Context, giftID uuid.UUID) ([]inventory.Transaction, error) {
	args := m.Called(ctx, giftID)
	return args.Get(0).([]inventory.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) MoveGiftTransactions(ctx context.Context, giftID uuid.UUID, txDate time.Time) error {
	return m.Called(ctx, giftID, txDate).Error(0)
}

func (m *MockTransactionRepository) DeleteByGiftID(ctx context.Context, giftID uuid.UUID) error {
	return m.Called(ctx, giftID).Error(0)
}
