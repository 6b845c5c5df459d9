package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/messaging"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormChannelSMSRepository implements messaging.Repository using GORM
type GormChannelSMSRepository struct {
	db *gorm.DB
}

// NewGormChannelSMSRepository creates a new GormChannelSMSRepository
func NewGormChannelSMSRepository(db *gorm.DB) *GormChannelSMSRepository {
	return &GormChannelSMSRepository{db: db}
}

// FindByID finds a campaign by its ID
func (r *GormChannelSMSRepository) FindByID(ctx context.Context, id uuid.UUID) (*messaging.ChannelSMS, error) {
	var c messaging.ChannelSMS
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// FindAll lists campaigns with pagination
func (r *GormChannelSMSRepository) FindAll(ctx context.Context, filter messaging.ListFilter) ([]messaging.ChannelSMS, int64, error) {
	q := r.db.WithContext(ctx).Model(&messaging.ChannelSMS{})
	q = search(q, filter.Search, "message_text", "note")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []messaging.ChannelSMS
	order := orderClause(filter.OrderBy, filter.OrderDir, CampaignSortFields, "created_at")
	if err := paginate(q, filter.Filter, order).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// FindDue returns scheduled drafts whose time has come, oldest first
func (r *GormChannelSMSRepository) FindDue(ctx context.Context, now time.Time) ([]messaging.ChannelSMS, error) {
	var items []messaging.ChannelSMS
	err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_at IS NOT NULL AND scheduled_at <= ?", messaging.StatusDraft, now).
		Order("scheduled_at ASC").
		Find(&items).Error
	return items, err
}

// FindPendingReminder returns the unsent reminder draft of a booking
func (r *GormChannelSMSRepository) FindPendingReminder(ctx context.Context, bookingID uuid.UUID) (*messaging.ChannelSMS, error) {
	var c messaging.ChannelSMS
	err := r.db.WithContext(ctx).
		Where("booking_id = ? AND purpose = ? AND status = ?", bookingID, messaging.PurposeBookingReminder, messaging.StatusDraft).
		Order("created_at DESC").
		First(&c).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// Save creates or updates a campaign
func (r *GormChannelSMSRepository) Save(ctx context.Context, c *messaging.ChannelSMS) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// Delete removes a campaign
func (r *GormChannelSMSRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[messaging.ChannelSMS](ctx, r.db, id)
}

// GormMessageLogRepository implements messaging.LogRepository using GORM
type GormMessageLogRepository struct {
	db *gorm.DB
}

// NewGormMessageLogRepository creates a new GormMessageLogRepository
func NewGormMessageLogRepository(db *gorm.DB) *GormMessageLogRepository {
	return &GormMessageLogRepository{db: db}
}

// SentPhones returns the phones already logged for contentID
func (r *GormMessageLogRepository) SentPhones(ctx context.Context, contentID string) (map[string]bool, error) {
	var phones []string
	err := r.db.WithContext(ctx).Model(&messaging.MessageLog{}).
		Where("content_id = ?", contentID).
		Pluck("customer_phone", &phones).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(phones))
	for _, p := range phones {
		out[p] = true
	}
	return out, nil
}

// Upsert inserts logs in batches, overwriting rows with the same content and phone
func (r *GormMessageLogRepository) Upsert(ctx context.Context, logs []messaging.MessageLog) error {
	if len(logs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "content_id"}, {Name: "customer_phone"}},
			DoUpdates: clause.AssignmentColumns([]string{"customer_id", "message_type", "status", "channel", "sent_at"}),
		}).
		CreateInBatches(logs, messaging.MaxChunk).Error
}

// FindByContent returns the logs of a campaign
func (r *GormMessageLogRepository) FindByContent(ctx context.Context, contentID string) ([]messaging.MessageLog, error) {
	var items []messaging.MessageLog
	err := r.db.WithContext(ctx).Where("content_id = ?", contentID).Order("id ASC").Find(&items).Error
	return items, err
}

var (
	_ messaging.Repository    = (*GormChannelSMSRepository)(nil)
	_ messaging.LogRepository = (*GormMessageLogRepository)(nil)
)
