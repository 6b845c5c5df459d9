package booking

import "github.com/masgolf/backend/internal/domain/shared"

// Event types
const (
	EventTypeBookingCreated       = "booking.created"
	EventTypeBookingStatusChanged = "booking.status_changed"
)

// CreatedEvent is raised when a customer books a fitting
type CreatedEvent struct {
	shared.BaseDomainEvent
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Service string `json:"service,omitempty"`
}

// NewCreatedEvent builds the event for b
func NewCreatedEvent(b *Booking) *CreatedEvent {
	return &CreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBookingCreated, b.ID),
		Name:            b.Name,
		Phone:           b.Phone,
		Date:            b.Date,
		Time:            b.Time,
		Service:         b.Service,
	}
}

// StatusChangedEvent is raised when an admin moves a booking to another status
type StatusChangedEvent struct {
	shared.BaseDomainEvent
	From Status `json:"from"`
	To   Status `json:"to"`
}

// NewStatusChangedEvent builds the event for b
func NewStatusChangedEvent(b *Booking, from Status) *StatusChangedEvent {
	return &StatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBookingStatusChanged, b.ID),
		From:            from,
		To:              b.Status,
	}
}
