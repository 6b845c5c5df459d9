package customer

import (
	"context"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/shared"
)

// ListFilter narrows customer listings
type ListFilter struct {
	shared.Filter
	Purchased *bool
	OptOut    *bool
}

// Repository defines customer persistence
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	// FindByPhone expects a normalized phone
	FindByPhone(ctx context.Context, phone string) (*Customer, error)
	FindByPhones(ctx context.Context, phones []string) ([]Customer, error)
	FindAll(ctx context.Context, filter ListFilter) ([]Customer, int64, error)
	// OptedOutPhones returns the normalized phones among the given ones whose owner opted out
	OptedOutPhones(ctx context.Context, phones []string) (map[string]bool, error)
	Save(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
}
