package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/identity"
	"gorm.io/gorm"
)

// GormAdminUserRepository implements identity.AdminUserRepository using GORM
type GormAdminUserRepository struct {
	db *gorm.DB
}

// NewGormAdminUserRepository creates a new GormAdminUserRepository
func NewGormAdminUserRepository(db *gorm.DB) *GormAdminUserRepository {
	return &GormAdminUserRepository{db: db}
}

// FindByID finds an admin by ID
func (r *GormAdminUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.AdminUser, error) {
	var u identity.AdminUser
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// FindByUsername finds an admin by username, case-insensitively
func (r *GormAdminUserRepository) FindByUsername(ctx context.Context, username string) (*identity.AdminUser, error) {
	var u identity.AdminUser
	err := r.db.WithContext(ctx).
		First(&u, "LOWER(username) = ?", strings.ToLower(strings.TrimSpace(username))).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// Save creates or updates an admin
func (r *GormAdminUserRepository) Save(ctx context.Context, u *identity.AdminUser) error {
	return r.db.WithContext(ctx).Save(u).Error
}

// Count returns the number of admin accounts
func (r *GormAdminUserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&identity.AdminUser{}).Count(&n).Error
	return n, err
}

var _ identity.AdminUserRepository = (*GormAdminUserRepository)(nil)
