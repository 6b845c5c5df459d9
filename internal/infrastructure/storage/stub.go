package storage

import (
	"context"
	"errors"
	"strings"
	"sync"

	contentapp "github.com/masgolf/backend/internal/application/content"
)

// ErrObjectNotFound is returned by MemoryObjectStorage for unknown keys
var ErrObjectNotFound = errors.New("object not found")

// MemoryObjectStorage keeps objects in memory. It backs local development when
// object storage is disabled, and tests.
type MemoryObjectStorage struct {
	// BaseURL prefixes public URLs. Defaults to "http://localhost:8080/uploads".
	BaseURL string

	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	data        []byte
	contentType string
}

// NewMemoryObjectStorage creates an empty in-memory storage
func NewMemoryObjectStorage(baseURL string) *MemoryObjectStorage {
	if baseURL == "" {
		baseURL = "http://localhost:8080/uploads"
	}
	return &MemoryObjectStorage{
		BaseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string]memoryObject),
	}
}

var _ contentapp.ObjectStorage = (*MemoryObjectStorage)(nil)

// Upload stores a copy of data
func (s *MemoryObjectStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return ErrKeyRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = memoryObject{data: append([]byte(nil), data...), contentType: contentType}
	return nil
}

// Download returns a copy of the stored bytes
func (s *MemoryObjectStorage) Download(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return append([]byte(nil), obj.data...), nil
}

// DeleteObject removes key; deleting a missing key is not an error
func (s *MemoryObjectStorage) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// ObjectExists reports whether key is stored
func (s *MemoryObjectStorage) ObjectExists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrKeyRequired
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok, nil
}

// ContentType returns the content type key was stored with
func (s *MemoryObjectStorage) ContentType(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.objects[key].contentType
}

// PublicURL returns BaseURL/key
func (s *MemoryObjectStorage) PublicURL(key string) string {
	return joinURL(s.BaseURL, key)
}
