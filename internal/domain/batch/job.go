package batch

import (
	"net/url"
	"strings"

	"github.com/masgolf/backend/internal/domain/shared"
)

// Status is the job lifecycle
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// MaxURLs bounds a single job
const MaxURLs = 50

// Progress counts processed URLs
type Progress struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

// Done reports whether every URL has been processed
func (p Progress) Done() bool {
	return p.Completed+p.Failed >= p.Total
}

// ItemResult is the outcome of one URL
type ItemResult struct {
	URL      string `json:"url"`
	Success  bool   `json:"success"`
	Title    string `json:"title,omitempty"`
	Analysis string `json:"analysis,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Job scrapes, analyzes and illustrates a list of pages
type Job struct {
	shared.BaseEntity
	URLs     []string     `gorm:"column:urls;serializer:json;type:jsonb;not null" json:"urls"`
	Status   Status       `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Progress Progress     `gorm:"serializer:json;type:jsonb" json:"progress"`
	Results  []ItemResult `gorm:"serializer:json;type:jsonb" json:"results"`
	Error    string       `gorm:"type:text" json:"error,omitempty"`
}

// TableName returns the table name for GORM
func (Job) TableName() string {
	return "batch_jobs"
}

// NewJob validates urls and creates a pending job
func NewJob(urls []string) (*Job, error) {
	clean := make([]string, 0, len(urls))
	for _, raw := range urls {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, shared.InvalidInput("invalid url: " + raw)
		}
		clean = append(clean, raw)
	}
	if len(clean) == 0 {
		return nil, shared.InvalidInput("at least one url is required")
	}
	if len(clean) > MaxURLs {
		return nil, shared.InvalidInput("too many urls")
	}
	return &Job{
		BaseEntity: shared.NewBaseEntity(),
		URLs:       clean,
		Status:     StatusPending,
		Progress:   Progress{Total: len(clean)},
		Results:    []ItemResult{},
	}, nil
}

// Start moves a pending job to processing
func (j *Job) Start() error {
	if j.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "job is not pending")
	}
	j.Status = StatusProcessing
	j.Touch()
	return nil
}

// Record appends the outcome of one URL and completes the job after the last one
func (j *Job) Record(r ItemResult) {
	j.Results = append(j.Results, r)
	if r.Success {
		j.Progress.Completed++
	} else {
		j.Progress.Failed++
	}
	if j.Progress.Done() {
		j.Status = StatusCompleted
	}
	j.Touch()
}

// Abort fails the job as a whole, e.g. when it cannot be scheduled
func (j *Job) Abort(reason string) {
	j.Status = StatusFailed
	j.Error = reason
	j.Touch()
}
