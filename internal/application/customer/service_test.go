package customer

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/customer"
	"github.com/masgolf/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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

func ptr[T any](v T) *T { return &v }

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes phone and saves", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewService(repo, nil)

		repo.On("ExistsByPhone", ctx, "01012345678").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*customer.Customer")).Return(nil)

		resp, err := svc.Create(ctx, CreateCustomerRequest{
			Name:      " 홍길동 ",
			Phone:     "010-1234-5678",
			Address:   "경기 수원시",
			Latitude:  ptr(37.27),
			Longitude: ptr(127.03),
		})
		require.NoError(t, err)
		assert.Equal(t, "홍길동", resp.Name)
		assert.Equal(t, "01012345678", resp.Phone)
		assert.Equal(t, "010-1234-5678", resp.FormattedPhone)
		assert.Equal(t, "non_purchaser:near", resp.Segment)
		require.NotNil(t, resp.DistanceKM)
		repo.AssertExpectations(t)
	})

	t.Run("invalid phone", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		_, err := NewService(repo, nil).Create(ctx, CreateCustomerRequest{Name: "홍길동", Phone: "02-555-1234"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("duplicate phone", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		repo.On("ExistsByPhone", ctx, "01012345678").Return(true, nil)

		_, err := NewService(repo, nil).Create(ctx, CreateCustomerRequest{Name: "홍길동", Phone: "01012345678"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update keeps other fields", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		c, _ := customer.NewCustomer("홍길동", "01012345678")
		c.Notes = "VIP"
		repo.On("FindByID", ctx, c.ID).Return(c, nil)
		repo.On("Save", ctx, c).Return(nil)

		resp, err := NewService(repo, nil).Update(ctx, c.ID, UpdateCustomerRequest{Address: ptr("서울"), OptOut: ptr(true)})
		require.NoError(t, err)
		assert.Equal(t, "홍길동", resp.Name)
		assert.Equal(t, "서울", resp.Address)
		assert.Equal(t, "VIP", resp.Notes)
		assert.True(t, resp.OptOut)
	})

	t.Run("phone change to a taken number", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		c, _ := customer.NewCustomer("홍길동", "01012345678")
		repo.On("FindByID", ctx, c.ID).Return(c, nil)
		repo.On("ExistsByPhone", ctx, "01099998888").Return(true, nil)

		_, err := NewService(repo, nil).Update(ctx, c.ID, UpdateCustomerRequest{Phone: ptr("010 9999 8888")})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("same phone skips the uniqueness check", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		c, _ := customer.NewCustomer("홍길동", "01012345678")
		repo.On("FindByID", ctx, c.ID).Return(c, nil)
		repo.On("Save", ctx, c).Return(nil)

		_, err := NewService(repo, nil).Update(ctx, c.ID, UpdateCustomerRequest{Phone: ptr("+82 10-1234-5678")})
		require.NoError(t, err)
		repo.AssertNotCalled(t, "ExistsByPhone", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(nil, shared.NotFound("customer"))

		_, err := NewService(repo, nil).Update(ctx, id, UpdateCustomerRequest{})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)
	c, _ := customer.NewCustomer("홍길동", "01012345678")

	purchased := true
	repo.On("FindAll", ctx, mock.MatchedBy(func(f customer.ListFilter) bool {
		return f.Search == "홍" && f.Page == 1 && f.PageSize == 20 && f.Purchased != nil && *f.Purchased
	})).Return([]customer.Customer{*c}, int64(21), nil)

	page, err := NewService(repo, nil).List(ctx, ListCustomersFilter{Search: "홍", Purchased: &purchased})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int64(21), page.Total)
	assert.Equal(t, 2, page.TotalPages)
}

func TestService_SetOptOut(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)
	c, _ := customer.NewCustomer("홍길동", "01012345678")
	repo.On("FindByID", ctx, c.ID).Return(c, nil)
	repo.On("Save", ctx, c).Return(nil)

	resp, err := NewService(repo, nil).SetOptOut(ctx, c.ID, true)
	require.NoError(t, err)
	assert.True(t, resp.OptOut)
}

func TestService_Segments(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)

	page1 := make([]customer.Customer, pageScan)
	for i := range page1 {
		c, _ := customer.NewCustomer("고객", "01000000000")
		page1[i] = *c
	}
	buyer, _ := customer.NewCustomer("구매", "01011112222")
	buyer.IsPurchaser = true
	optOut, _ := customer.NewCustomer("거부", "01033334444")
	optOut.SetOptOut(true)

	repo.On("FindAll", ctx, mock.MatchedBy(func(f customer.ListFilter) bool { return f.Page == 1 })).
		Return(page1, int64(pageScan+2), nil)
	repo.On("FindAll", ctx, mock.MatchedBy(func(f customer.ListFilter) bool { return f.Page == 2 })).
		Return([]customer.Customer{*buyer, *optOut}, int64(pageScan+2), nil)

	seg, err := NewService(repo, nil).Segments(ctx)
	require.NoError(t, err)
	assert.Equal(t, pageScan+1, seg.Total)
	assert.Equal(t, 1, seg.OptOut)
	assert.Equal(t, pageScan, seg.Buckets["non_purchaser:unknown"])
	assert.Equal(t, 1, seg.Buckets["purchaser:unknown"])
	repo.AssertNumberOfCalls(t, "FindAll", 2)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)
	id := uuid.New()
	repo.On("Delete", ctx, id).Return(nil)

	require.NoError(t, NewService(repo, nil).Delete(ctx, id))
	repo.AssertExpectations(t)
}

func TestService_NormalizePhones(t *testing.T) {
	ctx := context.Background()
	stored := []customer.Customer{
		{Name: "하이픈", Phone: "010-1234-5678"},
		{Name: "구번호", Phone: "0161234567"},
		{Name: "잘못됨", Phone: "1234"},
		{Name: "기존", Phone: "01022223333"},
		{Name: "중복", Phone: "010 2222 3333"},
		{Name: "정상", Phone: "01099998888"},
	}
	for i := range stored {
		stored[i].ID = uuid.New()
	}

	t.Run("saves normalized phones", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		rows := append([]customer.Customer(nil), stored...)
		repo.On("FindAll", ctx, mock.Anything).Return(rows, int64(len(rows)), nil)
		var saved []string
		repo.On("Save", ctx, mock.Anything).Run(func(args mock.Arguments) {
			saved = append(saved, args.Get(1).(*customer.Customer).Phone)
		}).Return(nil)

		report, err := NewService(repo, nil).NormalizePhones(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, 6, report.Scanned)
		assert.Equal(t, 2, report.Updated)
		assert.Equal(t, []string{"1234"}, report.Invalid)
		assert.Equal(t, []string{"010 2222 3333"}, report.Conflicts)
		assert.ElementsMatch(t, []string{"01012345678", "01061234567"}, saved)
	})

	t.Run("dry run saves nothing", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		rows := append([]customer.Customer(nil), stored...)
		repo.On("FindAll", ctx, mock.Anything).Return(rows, int64(len(rows)), nil)

		report, err := NewService(repo, nil).NormalizePhones(ctx, true)
		require.NoError(t, err)
		assert.True(t, report.DryRun)
		assert.Equal(t, 2, report.Updated)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
