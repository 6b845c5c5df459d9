package booking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	messagingapp "github.com/masgolf/backend/internal/application/messaging"
	"github.com/masgolf/backend/internal/domain/booking"
	"github.com/masgolf/backend/internal/domain/customer"
	"github.com/masgolf/backend/internal/domain/messaging"
	"github.com/masgolf/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockBookingRepository is a mock implementation of booking.Repository
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindAll(ctx context.Context, filter booking.ListFilter) ([]booking.Booking, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]booking.Booking), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookingRepository) FindActiveOnDate(ctx context.Context, date string) ([]booking.Booking, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) Save(ctx context.Context, b *booking.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockScheduleRepository is a mock implementation of booking.ScheduleRepository
type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) GetSettings(ctx context.Context) (*booking.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Settings), args.Error(1)
}

func (m *MockScheduleRepository) SaveSettings(ctx context.Context, s *booking.Settings) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockScheduleRepository) FindHours(ctx context.Context, dayOfWeek int) ([]booking.Hours, error) {
	args := m.Called(ctx, dayOfWeek)
	return args.Get(0).([]booking.Hours), args.Error(1)
}

func (m *MockScheduleRepository) ReplaceHours(ctx context.Context, dayOfWeek int, hours []booking.Hours) error {
	return m.Called(ctx, dayOfWeek, hours).Error(0)
}

func (m *MockScheduleRepository) FindBlocksOnDate(ctx context.Context, date string) ([]booking.Block, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]booking.Block), args.Error(1)
}

func (m *MockScheduleRepository) SaveBlock(ctx context.Context, b *booking.Block) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockScheduleRepository) DeleteBlock(ctx context.Context, id uuid.UUID) error {
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

// MockCampaignRepository is a mock implementation of messaging.Repository
type MockCampaignRepository struct {
	mock.Mock
}

func (m *MockCampaignRepository) FindByID(ctx context.Context, id uuid.UUID) (*messaging.ChannelSMS, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*messaging.ChannelSMS), args.Error(1)
}

func (m *MockCampaignRepository) FindAll(ctx context.Context, filter messaging.ListFilter) ([]messaging.ChannelSMS, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]messaging.ChannelSMS), args.Get(1).(int64), args.Error(2)
}

func (m *MockCampaignRepository) FindDue(ctx context.Context, now time.Time) ([]messaging.ChannelSMS, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]messaging.ChannelSMS), args.Error(1)
}

func (m *MockCampaignRepository) FindPendingReminder(ctx context.Context, bookingID uuid.UUID) (*messaging.ChannelSMS, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*messaging.ChannelSMS), args.Error(1)
}

func (m *MockCampaignRepository) Save(ctx context.Context, c *messaging.ChannelSMS) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCampaignRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockSMSGateway is a mock implementation of messagingapp.SMSGateway
type MockSMSGateway struct {
	mock.Mock
}

func (m *MockSMSGateway) SendMany(ctx context.Context, msgs []messagingapp.OutboundMessage) (*messagingapp.SendResult, error) {
	args := m.Called(ctx, msgs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*messagingapp.SendResult), args.Error(1)
}

func (m *MockSMSGateway) SendKakao(ctx context.Context, msgs []messagingapp.KakaoMessage) (*messagingapp.SendResult, error) {
	args := m.Called(ctx, msgs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*messagingapp.SendResult), args.Error(1)
}

func (m *MockSMSGateway) UploadImage(ctx context.Context, imageURL string) (string, error) {
	args := m.Called(ctx, imageURL)
	return args.String(0), args.Error(1)
}

// recorder captures notifications and events
type recorder struct {
	mu            sync.Mutex
	notifications []shared.Notification
	events        []shared.DomainEvent
}

func (r *recorder) Notify(_ context.Context, n shared.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *recorder) Publish(_ context.Context, events ...shared.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return nil
}
