package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DomainEvent represents something that happened in the domain and may be
// published to the event stream
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
}

// BaseDomainEvent provides common fields for all domain events
type BaseDomainEvent struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	AggID     uuid.UUID `json:"aggregate_id"`
}

// EventID returns the unique event identifier
func (e BaseDomainEvent) EventID() uuid.UUID { return e.ID }

// EventType returns the type of the event
func (e BaseDomainEvent) EventType() string { return e.Type }

// OccurredAt returns when the event occurred
func (e BaseDomainEvent) OccurredAt() time.Time { return e.Timestamp }

// AggregateID returns the ID of the entity that produced this event
func (e BaseDomainEvent) AggregateID() uuid.UUID { return e.AggID }

// NewBaseDomainEvent creates a new base domain event
func NewBaseDomainEvent(eventType string, aggID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: time.Now(),
		AggID:     aggID,
	}
}

// EventPublisher publishes domain events. Publishing is best effort: callers
// log failures and continue.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}
