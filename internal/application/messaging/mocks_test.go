package messaging

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/customer"
	"github.com/masgolf/backend/internal/domain/messaging"
	"github.com/masgolf/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

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

// MockLogRepository is a mock implementation of messaging.LogRepository
type MockLogRepository struct {
	mock.Mock
}

func (m *MockLogRepository) SentPhones(ctx context.Context, contentID string) (map[string]bool, error) {
	args := m.Called(ctx, contentID)
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *MockLogRepository) Upsert(ctx context.Context, logs []messaging.MessageLog) error {
	return m.Called(ctx, logs).Error(0)
}

func (m *MockLogRepository) FindByContent(ctx context.Context, contentID string) ([]messaging.MessageLog, error) {
	args := m.Called(ctx, contentID)
	return args.Get(0).([]messaging.MessageLog), args.Error(1)
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

// MockSMSGateway is a mock implementation of SMSGateway
type MockSMSGateway struct {
	mock.Mock
}

func (m *MockSMSGateway) SendMany(ctx context.Context, msgs []OutboundMessage) (*SendResult, error) {
	args := m.Called(ctx, msgs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SendResult), args.Error(1)
}

func (m *MockSMSGateway) SendKakao(ctx context.Context, msgs []KakaoMessage) (*SendResult, error) {
	args := m.Called(ctx, msgs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SendResult), args.Error(1)
}

func (m *MockSMSGateway) UploadImage(ctx context.Context, imageURL string) (string, error) {
	args := m.Called(ctx, imageURL)
	return args.String(0), args.Error(1)
}

type eventRecorder struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (r *eventRecorder) Publish(_ context.Context, events ...shared.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return nil
}

type metricsRecorder struct {
	statuses []string
}

func (r *metricsRecorder) RecordCampaignSend(_ context.Context, status string, _, _ int) {
	r.statuses = append(r.statuses, status)
}
