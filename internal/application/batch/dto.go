package batch

import (
	"time"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/batch"
)

// SubmitRequest lists the pages to process
type SubmitRequest struct {
	URLs []string `json:"urls" binding:"required,min=1,max=50"`
}

// ListJobsFilter represents filter options for the job list
type ListJobsFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// JobResponse represents a batch job in API responses
type JobResponse struct {
	ID        uuid.UUID          `json:"id"`
	URLs      []string           `json:"urls"`
	Status    string             `json:"status"`
	Progress  batch.Progress     `json:"progress"`
	Results   []batch.ItemResult `json:"results"`
	Error     string             `json:"error,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// ToJobResponse converts a domain job to a response
func ToJobResponse(j *batch.Job) JobResponse {
	return JobResponse{
		ID:        j.ID,
		URLs:      j.URLs,
		Status:    string(j.Status),
		Progress:  j.Progress,
		Results:   j.Results,
		Error:     j.Error,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}
