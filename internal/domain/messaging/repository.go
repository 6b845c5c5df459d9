package messaging

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/shared"
)

// ListFilter narrows campaign listings
type ListFilter struct {
	shared.Filter
	Status Status
}

// Repository defines campaign persistence
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ChannelSMS, error)
	FindAll(ctx context.Context, filter ListFilter) ([]ChannelSMS, int64, error)
	// FindDue returns drafts with scheduled_at <= now
	FindDue(ctx context.Context, now time.Time) ([]ChannelSMS, error)
	// FindPendingReminder returns the draft reminder of a booking, if any
	FindPendingReminder(ctx context.Context, bookingID uuid.UUID) (*ChannelSMS, error)
	Save(ctx context.Context, c *ChannelSMS) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// LogRepository defines message log persistence
type LogRepository interface {
	// SentPhones returns phones already logged for contentID
	SentPhones(ctx context.Context, contentID string) (map[string]bool, error)
	// Upsert inserts logs, overwriting on (content_id, customer_phone)
	Upsert(ctx context.Context, logs []MessageLog) error
	FindByContent(ctx context.Context, contentID string) ([]MessageLog, error)
}
