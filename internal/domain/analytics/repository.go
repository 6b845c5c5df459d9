package analytics

import (
	"context"
)

// SettingsRepository defines ab_test_settings persistence
type SettingsRepository interface {
	// Get returns the settings of testName, or shared.ErrNotFound
	Get(ctx context.Context, testName string) (*Settings, error)
	Save(ctx context.Context, s *Settings) error
}
