package booking

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/shared"
	"github.com/masgolf/backend/internal/domain/shared/valueobject"
)

// Status is the lifecycle state of a booking
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Occupies reports whether a booking in this status blocks its time slot
func (s Status) Occupies() bool {
	return s == StatusPending || s == StatusConfirmed
}

const DefaultDuration = 60

// Booking is a fitting appointment
type Booking struct {
	shared.BaseEntity
	CustomerID *uuid.UUID `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Name       string     `gorm:"type:varchar(100);not null" json:"name"`
	Phone      string     `gorm:"type:varchar(20);not null;index" json:"phone"`
	Date       string     `gorm:"type:varchar(10);not null;index" json:"date"` // YYYY-MM-DD
	Time       string     `gorm:"type:varchar(5);not null" json:"time"`        // HH:MM
	Duration   int        `gorm:"not null" json:"duration"`
	Service    string     `gorm:"type:varchar(100)" json:"service,omitempty"`
	Status     Status     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Notes      string     `gorm:"type:text" json:"notes,omitempty"`
}

// TableName returns the table name for GORM
func (Booking) TableName() string {
	return "bookings"
}

// NewBooking creates a pending booking
func NewBooking(name, phone, date, clock string, duration int, service string) (*Booking, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.InvalidInput("name is required")
	}
	normalized, ok := valueobject.NormalizePhone(phone)
	if !ok {
		return nil, shared.InvalidInput("phone must be a valid 010 mobile number")
	}
	if _, err := ParseDate(date); err != nil {
		return nil, err
	}
	hhmm, err := NormalizeClock(clock)
	if err != nil {
		return nil, err
	}
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Booking{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Phone:      normalized,
		Date:       date,
		Time:       hhmm,
		Duration:   duration,
		Service:    service,
		Status:     StatusPending,
	}, nil
}

// ChangeStatus moves the booking to the given status. Completed and cancelled
// bookings are final.
func (b *Booking) ChangeStatus(to Status) error {
	if !to.IsValid() {
		return shared.InvalidInput("unknown booking status: " + string(to))
	}
	if b.Status == to {
		return nil
	}
	if b.Status == StatusCompleted || b.Status == StatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "booking is already "+string(b.Status))
	}
	b.Status = to
	b.Touch()
	return nil
}

// StartsAt returns the booking start in the store's time zone
func (b *Booking) StartsAt() (time.Time, error) {
	d, err := ParseDate(b.Date)
	if err != nil {
		return time.Time{}, err
	}
	m, err := minutesOf(b.Time)
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(time.Duration(m) * time.Minute), nil
}

// span returns the occupied interval in minutes from midnight
func (b *Booking) span() (start, end int, err error) {
	start, err = minutesOf(b.Time)
	if err != nil {
		return 0, 0, err
	}
	d := b.Duration
	if d <= 0 {
		d = DefaultDuration
	}
	return start, start + d, nil
}
