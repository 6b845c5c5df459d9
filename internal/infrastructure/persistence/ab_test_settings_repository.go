package persistence

import (
	"context"

	"github.com/masgolf/backend/internal/domain/analytics"
	"gorm.io/gorm"
)

// GormABTestSettingsRepository implements analytics.SettingsRepository using GORM
type GormABTestSettingsRepository struct {
	db *gorm.DB
}

// NewGormABTestSettingsRepository creates a new GormABTestSettingsRepository
func NewGormABTestSettingsRepository(db *gorm.DB) *GormABTestSettingsRepository {
	return &GormABTestSettingsRepository{db: db}
}

// Get returns the settings of a test
func (r *GormABTestSettingsRepository) Get(ctx context.Context, testName string) (*analytics.Settings, error) {
	var s analytics.Settings
	if err := r.db.WithContext(ctx).First(&s, "test_name = ?", testName).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

// Save creates or updates test settings
func (r *GormABTestSettingsRepository) Save(ctx context.Context, s *analytics.Settings) error {
	return r.db.WithContext(ctx).Save(s).Error
}

var _ analytics.SettingsRepository = (*GormABTestSettingsRepository)(nil)
