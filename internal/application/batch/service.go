// Package batch runs scrape, analyze and illustrate jobs on the worker pool.
package batch

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/batch"
	"github.com/masgolf/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const defaultItemTimeout = 5 * time.Minute

// ErrQueueUnavailable is returned when a job cannot be handed to the worker pool
var ErrQueueUnavailable = shared.NewDomainError("QUEUE_UNAVAILABLE", "batch queue is not accepting jobs")

// Service handles batch job use cases
type Service struct {
	repo        batch.Repository
	scraper     Scraper
	analyzer    Analyzer
	images      ImageGenerator
	store       ImageStore
	queue       JobQueue
	events      shared.EventPublisher
	itemTimeout time.Duration
	logger      *zap.Logger
}

// NewService creates a new batch Service. A nil image generator skips illustration.
func NewService(repo batch.Repository, scraper Scraper, analyzer Analyzer, images ImageGenerator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:        repo,
		scraper:     scraper,
		analyzer:    analyzer,
		images:      images,
		itemTimeout: defaultItemTimeout,
		logger:      logger,
	}
}

// SetQueue sets the worker pool that executes submitted jobs
func (s *Service) SetQueue(q JobQueue) {
	s.queue = q
}

// SetImageStore stores inline generated images
func (s *Service) SetImageStore(store ImageStore) {
	s.store = store
}

// SetEventPublisher sets the domain event publisher
func (s *Service) SetEventPublisher(p shared.EventPublisher) {
	s.events = p
}

// SetItemTimeout bounds the processing of a single URL
func (s *Service) SetItemTimeout(d time.Duration) {
	if d > 0 {
		s.itemTimeout = d
	}
}

// Submit stores a pending job and queues it. A job the queue refuses is failed.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*JobResponse, error) {
	j, err := batch.NewJob(req.URLs)
	if err != nil {
		return nil, err
	}
	if s.queue == nil {
		return nil, ErrQueueUnavailable
	}
	if err := s.repo.Save(ctx, j); err != nil {
		return nil, err
	}
	if err := s.queue.Submit(j.ID); err != nil {
		j.Abort("queue rejected job: " + err.Error())
		if saveErr := s.repo.Save(ctx, j); saveErr != nil {
			s.logger.Error("Failed to record rejected job", zap.Error(saveErr))
		}
		return nil, shared.WrapDomainError(ErrQueueUnavailable.Code, ErrQueueUnavailable.Message, err)
	}
	s.logger.Info("Batch job submitted",
		zap.String("job_id", j.ID.String()),
		zap.Int("urls", len(j.URLs)))
	resp := ToJobResponse(j)
	return &resp, nil
}

// GetByID returns a job with its progress
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*JobResponse, error) {
	j, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToJobResponse(j)
	return &resp, nil
}

// List returns a page of jobs, newest first
func (s *Service) List(ctx context.Context, f ListJobsFilter) (shared.Paginated[JobResponse], error) {
	filter := shared.Filter{Page: f.Page, PageSize: f.PageSize, OrderBy: "created_at"}.Normalize()
	items, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[JobResponse]{}, err
	}
	out := make([]JobResponse, len(items))
	for i := range items {
		out[i] = ToJobResponse(&items[i])
	}
	return shared.NewPaginated(out, total, filter.Page, filter.PageSize), nil
}

// Process executes a job on a pool worker. URLs are handled in order and the
// job row is saved after each one. A job interrupted mid-run resumes after its
// last recorded result.
func (s *Service) Process(ctx context.Context, id uuid.UUID) error {
	j, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	switch j.Status {
	case batch.StatusPending:
		if err := j.Start(); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, j); err != nil {
			return err
		}
	case batch.StatusProcessing:
		s.logger.Info("Resuming batch job",
			zap.String("job_id", j.ID.String()),
			zap.Int("done", len(j.Results)))
	default:
		return nil
	}

	for i := len(j.Results); i < len(j.URLs); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		j.Record(s.processURL(ctx, j.ID, i, j.URLs[i]))
		if err := s.repo.Save(ctx, j); err != nil {
			return fmt.Errorf("save job progress: %w", err)
		}
	}

	s.logger.Info("Batch job finished",
		zap.String("job_id", j.ID.String()),
		zap.String("status", string(j.Status)),
		zap.Int("completed", j.Progress.Completed),
		zap.Int("failed", j.Progress.Failed))
	if s.events != nil {
		if err := s.events.Publish(ctx, batch.NewCompletedEvent(j)); err != nil {
			s.logger.Warn("Failed to publish batch event", zap.Error(err))
		}
	}
	return nil
}

func (s *Service) processURL(ctx context.Context, jobID uuid.UUID, index int, url string) batch.ItemResult {
	ctx, cancel := context.WithTimeout(ctx, s.itemTimeout)
	defer cancel()

	result := batch.ItemResult{URL: url}
	fail := func(step string, err error) batch.ItemResult {
		s.logger.Warn("Batch item failed",
			zap.String("job_id", jobID.String()),
			zap.String("url", url),
			zap.String("step", step),
			zap.Error(err))
		result.Success = false
		result.Error = step + ": " + err.Error()
		return result
	}

	page, err := s.scraper.Scrape(ctx, url)
	if err != nil {
		return fail("scrape", err)
	}
	result.Title = page.Title

	analysis, err := s.analyzer.Analyze(ctx, page)
	if err != nil {
		return fail("analyze", err)
	}
	result.Analysis = analysis.Summary

	if s.images != nil && strings.TrimSpace(analysis.ImagePrompt) != "" {
		img, err := s.images.Generate(ctx, analysis.ImagePrompt)
		if err != nil {
			return fail("image", err)
		}
		if result.ImageURL, err = s.publishImage(ctx, jobID, index, img); err != nil {
			return fail("image", err)
		}
	}

	result.Success = true
	return result
}

// publishImage returns a hosted image URL as is and uploads inline data
func (s *Service) publishImage(ctx context.Context, jobID uuid.UUID, index int, img *GeneratedImage) (string, error) {
	if img.URL != "" {
		return img.URL, nil
	}
	if len(img.Data) == 0 {
		return "", errors.New("generator returned no image")
	}
	if s.store == nil {
		return "", errors.New("no image store configured")
	}
	ext := ".png"
	if ct := img.ContentType; strings.HasPrefix(ct, "image/") {
		ext = "." + strings.TrimPrefix(ct, "image/")
	}
	key := path.Join("batch", jobID.String(), fmt.Sprintf("%02d%s", index+1, ext))
	if err := s.store.Upload(ctx, key, img.Data, img.ContentType); err != nil {
		return "", err
	}
	return s.store.PublicURL(key), nil
}

// ResumePending requeues jobs left pending or processing, e.g. by a restart.
// It returns the number of jobs queued.
func (s *Service) ResumePending(ctx context.Context) (int, error) {
	if s.queue == nil {
		return 0, ErrQueueUnavailable
	}
	queued := 0
	for _, status := range []batch.Status{batch.StatusProcessing, batch.StatusPending} {
		jobs, err := s.repo.FindByStatus(ctx, status)
		if err != nil {
			return queued, err
		}
		for _, j := range jobs {
			if err := s.queue.Submit(j.ID); err != nil {
				s.logger.Warn("Could not requeue batch job", zap.String("job_id", j.ID.String()), zap.Error(err))
				continue
			}
			queued++
		}
	}
	if queued > 0 {
		s.logger.Info("Requeued unfinished batch jobs", zap.Int("count", queued))
	}
	return queued, nil
}
