package batch

import "github.com/masgolf/backend/internal/domain/shared"

const EventTypeBatchCompleted = "batch.completed"

// CompletedEvent is raised when a job reaches a terminal status
type CompletedEvent struct {
	shared.BaseDomainEvent
	Status   Status   `json:"status"`
	Progress Progress `json:"progress"`
}

// NewCompletedEvent builds the event for j
func NewCompletedEvent(j *Job) *CompletedEvent {
	return &CompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchCompleted, j.ID),
		Status:          j.Status,
		Progress:        j.Progress,
	}
}
