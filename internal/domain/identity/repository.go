package identity

import (
	"context"

	"github.com/google/uuid"
)

// AdminUserRepository defines admin account persistence
type AdminUserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AdminUser, error)
	FindByUsername(ctx context.Context, username string) (*AdminUser, error)
	Save(ctx context.Context, u *AdminUser) error
	Count(ctx context.Context) (int64, error)
}
