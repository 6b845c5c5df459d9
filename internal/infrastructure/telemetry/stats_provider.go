package telemetry

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// GormStatsProvider counts backlog rows straight from the database
type GormStatsProvider struct {
	db *gorm.DB
}

// NewGormStatsProvider creates a stats provider on db
func NewGormStatsProvider(db *gorm.DB) *GormStatsProvider {
	return &GormStatsProvider{db: db}
}

// CountDueCampaigns counts drafts scheduled at or before now
func (p *GormStatsProvider) CountDueCampaigns(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := p.db.WithContext(ctx).Table("channel_sms").
		Where("status = ? AND scheduled_at IS NOT NULL AND scheduled_at <= ?", "draft", now).
		Count(&n).Error
	return n, err
}

// CountOpenBatchJobs counts jobs not yet finished
func (p *GormStatsProvider) CountOpenBatchJobs(ctx context.Context) (int64, error) {
	var n int64
	err := p.db.WithContext(ctx).Table("batch_jobs").
		Where("status IN ?", []string{"pending", "processing"}).
		Count(&n).Error
	return n, err
}
