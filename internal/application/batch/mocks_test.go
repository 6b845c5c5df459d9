package batch

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/batch"
	"github.com/masgolf/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockJobRepository is a mock implementation of batch.Repository
type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*batch.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*batch.Job), args.Error(1)
}

func (m *MockJobRepository) FindAll(ctx context.Context, filter shared.Filter) ([]batch.Job, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]batch.Job), args.Get(1).(int64), args.Error(2)
}

func (m *MockJobRepository) FindByStatus(ctx context.Context, status batch.Status) ([]batch.Job, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]batch.Job), args.Error(1)
}

func (m *MockJobRepository) Save(ctx context.Context, j *batch.Job) error {
	return m.Called(ctx, j).Error(0)
}

// MockScraper is a mock implementation of Scraper
type MockScraper struct {
	mock.Mock
}

func (m *MockScraper) Scrape(ctx context.Context, url string) (*Page, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Page), args.Error(1)
}

// MockAnalyzer is a mock implementation of Analyzer
type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, page *Page) (*Analysis, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Analysis), args.Error(1)
}

// MockImageGenerator is a mock implementation of ImageGenerator
type MockImageGenerator struct {
	mock.Mock
}

func (m *MockImageGenerator) Generate(ctx context.Context, prompt string) (*GeneratedImage, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*GeneratedImage), args.Error(1)
}

// MockQueue is a mock implementation of JobQueue
type MockQueue struct {
	mock.Mock
}

func (m *MockQueue) Submit(jobID uuid.UUID) error {
	return m.Called(jobID).Error(0)
}

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (s *memStore) Upload(_ context.Context, key string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.objects == nil {
		s.objects = map[string][]byte{}
	}
	s.objects[key] = data
	return nil
}

func (s *memStore) PublicURL(key string) string {
	return "https://cdn.example/" + key
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
