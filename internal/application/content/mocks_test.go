package content

import (
	"context"
	"errors"
	"image"
	"sync"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/content"
	"github.com/stretchr/testify/mock"
)

// MockPostRepository is a mock implementation of content.PostRepository
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*content.BlogPost, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.BlogPost), args.Error(1)
}

func (m *MockPostRepository) FindBySlug(ctx context.Context, slug string) (*content.BlogPost, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.BlogPost), args.Error(1)
}

func (m *MockPostRepository) FindAll(ctx context.Context, filter content.PostFilter) ([]content.BlogPost, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]content.BlogPost), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) Save(ctx context.Context, p *content.BlogPost) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockImageRepository is a mock implementation of content.ImageRepository
type MockImageRepository struct {
	mock.Mock
}

func (m *MockImageRepository) FindByID(ctx context.Context, id uuid.UUID) (*content.ImageMetadata, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.ImageMetadata), args.Error(1)
}

func (m *MockImageRepository) FindByURL(ctx context.Context, url string) (*content.ImageMetadata, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.ImageMetadata), args.Error(1)
}

func (m *MockImageRepository) FindAll(ctx context.Context, filter content.ImageFilter) ([]content.ImageMetadata, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]content.ImageMetadata), args.Get(1).(int64), args.Error(2)
}

func (m *MockImageRepository) Save(ctx context.Context, img *content.ImageMetadata) error {
	return m.Called(ctx, img).Error(0)
}

func (m *MockImageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockPlanRepository is a mock implementation of content.PlanRepository
type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*content.MonthlyFunnelPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.MonthlyFunnelPlan), args.Error(1)
}

func (m *MockPlanRepository) FindByMonth(ctx context.Context, year, month int) ([]content.MonthlyFunnelPlan, error) {
	args := m.Called(ctx, year, month)
	return args.Get(0).([]content.MonthlyFunnelPlan), args.Error(1)
}

func (m *MockPlanRepository) FindAll(ctx context.Context) ([]content.MonthlyFunnelPlan, error) {
	args := m.Called(ctx)
	return args.Get(0).([]content.MonthlyFunnelPlan), args.Error(1)
}

func (m *MockPlanRepository) Save(ctx context.Context, p *content.MonthlyFunnelPlan) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// memStorage keeps objects in a map
type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	failPut bool
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *memStorage) Upload(_ context.Context, key string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPut {
		return errors.New("bucket unavailable")
	}
	s.objects[key] = data
	s.types[key] = contentType
	return nil
}

func (s *memStorage) Download(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return data, nil
}

func (s *memStorage) DeleteObject(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *memStorage) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

// fakeCodec reports a fixed size and "converts" by prefixing the input
type fakeCodec struct {
	width, height int
	format        string
}

func (c fakeCodec) Inspect(data []byte) (image.Config, string, error) {
	if string(data) == "not an image" {
		return image.Config{}, "", errors.New("unknown format")
	}
	return image.Config{Width: c.width, Height: c.height}, c.format, nil
}

func (c fakeCodec) ToWebP(data []byte, maxWidth int) ([]byte, int, int, error) {
	w, h := c.width, c.height
	if w > maxWidth {
		h = h * maxWidth / w
		w = maxWidth
	}
	return append([]byte("webp:"), data...), w, h, nil
}
