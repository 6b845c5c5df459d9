package survey

import (
	"context"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/shared"
)

// ListFilter narrows survey listings
type ListFilter struct {
	shared.Filter
	CustomerID    *uuid.UUID
	SelectedModel string
	GiftDelivered *bool
}

// Repository defines survey persistence
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Survey, error)
	FindAll(ctx context.Context, filter ListFilter) ([]Survey, int64, error)
	// FindLatestByPhone matches on the normalized phone
	FindLatestByPhone(ctx context.Context, phone string) (*Survey, error)
	// FindLatestByName matches the exact trimmed name
	FindLatestByName(ctx context.Context, name string) (*Survey, error)
	Save(ctx context.Context, s *Survey) error
	SetGiftDelivered(ctx context.Context, id uuid.UUID, delivered bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}
