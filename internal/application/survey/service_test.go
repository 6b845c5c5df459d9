package survey

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/customer"
	"github.com/masgolf/backend/internal/domain/shared"
	"github.com/masgolf/backend/internal/domain/survey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSurveyRepository is a mock implementation of survey.Repository
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

// MockCustomerRepository is a mock implementation of customer.Repository
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

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the customer when the phone is new", func(t *testing.T) {
		repo := new(MockSurveyRepository)
		customers := new(MockCustomerRepository)
		svc := NewService(repo, customers, nil)

		customers.On("FindByPhone", ctx, "01055556666").Return(nil, shared.NotFound("Customer"))
		customers.On("Save", ctx, mock.AnythingOfType("*customer.Customer")).Return(nil)
		repo.On("Save", ctx, mock.AnythingOfType("*survey.Survey")).Return(nil)

		age := 57
		resp, err := svc.Create(ctx, CreateSurveyRequest{
			Name:             "김영수",
			Phone:            "010-5555-6666",
			Age:              &age,
			SelectedModel:    "시크릿포스 V3",
			ImportantFactors: []string{"비거리", "방향성"},
			Address:          "경기 수원시 영통구",
		})
		require.NoError(t, err)
		assert.Equal(t, "50대", resp.AgeGroup)
		require.NotNil(t, resp.CustomerID)

		c := customers.Calls[1].Arguments.Get(1).(*customer.Customer)
		assert.Equal(t, *resp.CustomerID, c.ID)
		assert.Equal(t, "경기 수원시 영통구", c.Address)
	})

	t.Run("links the existing customer without overwriting the address", func(t *testing.T) {
		repo := new(MockSurveyRepository)
		customers := new(MockCustomerRepository)
		svc := NewService(repo, customers, nil)

		existing, err := customer.NewCustomer("김영수", "01055556666")
		require.NoError(t, err)
		require.NoError(t, existing.Update("김영수", "서울 강남구", ""))

		customers.On("FindByPhone", ctx, "01055556666").Return(existing, nil)
		customers.On("Save", ctx, existing).Return(nil)
		repo.On("Save", ctx, mock.AnythingOfType("*survey.Survey")).Return(nil)

		resp, err := svc.Create(ctx, CreateSurveyRequest{Name: "김영수", Phone: "01055556666", Address: "직접 방문"})
		require.NoError(t, err)
		assert.Equal(t, existing.ID, *resp.CustomerID)
		assert.Equal(t, survey.AddressVisit, resp.Address)
		assert.Equal(t, "서울 강남구", existing.Address)
	})

	t.Run("invalid phone", func(t *testing.T) {
		svc := NewService(new(MockSurveyRepository), new(MockCustomerRepository), nil)
		_, err := svc.Create(ctx, CreateSurveyRequest{Name: "김영수", Phone: "5555"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSurveyRepository)
	svc := NewService(repo, new(MockCustomerRepository), nil)

	sv, err := survey.NewSurvey("김영수", "01055556666")
	require.NoError(t, err)
	sv.SelectedModel = "A"
	repo.On("FindByID", ctx, sv.ID).Return(sv, nil)
	repo.On("Save", ctx, sv).Return(nil)

	delivered := true
	name := " 김영희 "
	resp, err := svc.Update(ctx, sv.ID, UpdateSurveyRequest{Name: &name, GiftDelivered: &delivered})
	require.NoError(t, err)
	assert.Equal(t, "김영희", resp.Name)
	assert.True(t, resp.GiftDelivered)
	assert.Equal(t, "A", resp.SelectedModel)
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSurveyRepository)
	svc := NewService(repo, new(MockCustomerRepository), nil)

	delivered := false
	repo.On("FindAll", ctx, mock.MatchedBy(func(f survey.ListFilter) bool {
		return f.GiftDelivered != nil && !*f.GiftDelivered && f.PageSize == 20 && f.Page == 1
	})).Return([]survey.Survey{{Name: "김영수"}}, int64(1), nil)

	page, err := svc.List(ctx, ListSurveysFilter{GiftDelivered: &delivered})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.NotNil(t, page.Items[0].ImportantFactors)
}
