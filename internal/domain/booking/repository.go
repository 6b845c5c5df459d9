package booking

import (
	"context"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/shared"
)

// ListFilter narrows booking listings
type ListFilter struct {
	shared.Filter
	DateFrom string
	DateTo   string
	Status   Status
	Phone    string
}

// Repository defines booking persistence
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	FindAll(ctx context.Context, filter ListFilter) ([]Booking, int64, error)
	// FindActiveOnDate returns pending and confirmed bookings on date
	FindActiveOnDate(ctx context.Context, date string) ([]Booking, error)
	Save(ctx context.Context, b *Booking) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ScheduleRepository defines persistence for settings, operating hours and blocks
type ScheduleRepository interface {
	// GetSettings returns DefaultSettings when no row exists
	GetSettings(ctx context.Context) (*Settings, error)
	SaveSettings(ctx context.Context, s *Settings) error
	FindHours(ctx context.Context, dayOfWeek int) ([]Hours, error)
	ReplaceHours(ctx context.Context, dayOfWeek int, hours []Hours) error
	FindBlocksOnDate(ctx context.Context, date string) ([]Block, error)
	SaveBlock(ctx context.Context, b *Block) error
	DeleteBlock(ctx context.Context, id uuid.UUID) error
}
