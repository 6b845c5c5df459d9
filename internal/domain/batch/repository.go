package batch

import (
	"context"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/shared"
)

// Repository defines batch job persistence
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Job, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Job, int64, error)
	// FindByStatus is used on startup to resume jobs left pending
	FindByStatus(ctx context.Context, status Status) ([]Job, error)
	Save(ctx context.Context, j *Job) error
}
