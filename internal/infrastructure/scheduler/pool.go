// Package scheduler runs background work: a worker pool for queued jobs and
// periodic tasks started and stopped with the server.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobExecutor runs one queued job to completion
type JobExecutor interface {
	Execute(ctx context.Context, jobID uuid.UUID) error
}

// ExecutorFunc adapts a function to JobExecutor
type ExecutorFunc func(ctx context.Context, jobID uuid.UUID) error

// Execute calls f
func (f ExecutorFunc) Execute(ctx context.Context, jobID uuid.UUID) error {
	return f(ctx, jobID)
}

// PoolConfig holds worker pool configuration
type PoolConfig struct {
	Workers    int
	QueueSize  int
	JobTimeout time.Duration
}

// DefaultPoolConfig returns default worker pool configuration
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		Workers:    2,
		QueueSize:  100,
		JobTimeout: 30 * time.Minute,
	}
}

// Validate fills zero values with defaults
func (c *PoolConfig) Validate() error {
	d := DefaultPoolConfig()
	if c.Workers < 0 || c.QueueSize < 0 || c.JobTimeout < 0 {
		return ErrInvalidConfig
	}
	if c.Workers == 0 {
		c.Workers = d.Workers
	}
	if c.QueueSize == 0 {
		c.QueueSize = d.QueueSize
	}
	if c.JobTimeout == 0 {
		c.JobTimeout = d.JobTimeout
	}
	return nil
}

// WorkerPool executes submitted job IDs on a fixed number of workers
type WorkerPool struct {
	name     string
	config   PoolConfig
	executor JobExecutor
	logger   *zap.Logger

	jobs      chan uuid.UUID
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewWorkerPool creates a new worker pool
func NewWorkerPool(name string, config PoolConfig, executor JobExecutor, logger *zap.Logger) (*WorkerPool, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkerPool{
		name:     name,
		config:   config,
		executor: executor,
		logger:   logger.With(zap.String("pool", name)),
		jobs:     make(chan uuid.UUID, config.QueueSize),
	}, nil
}

// Start starts the workers
func (p *WorkerPool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.isRunning {
		return nil
	}
	p.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.config.Workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}

	p.logger.Info("Worker pool started",
		zap.Int("workers", p.config.Workers),
		zap.Duration("job_timeout", p.config.JobTimeout),
	)
	return nil
}

// Stop cancels running jobs and waits for the workers, bounded by ctx.
// Jobs still queued are dropped; their rows stay pending for the next start.
func (p *WorkerPool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return nil
	}
	p.isRunning = false
	p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("Worker pool stopped gracefully")
		return nil
	case <-ctx.Done():
		p.logger.Warn("Worker pool stop timed out")
		return ctx.Err()
	}
}

// Submit queues a job without blocking
func (p *WorkerPool) Submit(jobID uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.isRunning {
		return ErrSchedulerNotRunning
	}

	select {
	case p.jobs <- jobID:
		p.logger.Debug("Job submitted", zap.String("job_id", jobID.String()))
		return nil
	default:
		return ErrJobQueueFull
	}
}

// IsRunning reports whether the pool accepts jobs
func (p *WorkerPool) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isRunning
}

func (p *WorkerPool) worker(ctx context.Context, workerID int) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case jobID := <-p.jobs:
			p.processJob(ctx, jobID, workerID)
		}
	}
}

func (p *WorkerPool) processJob(ctx context.Context, jobID uuid.UUID, workerID int) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Job panicked",
				zap.Int("worker_id", workerID),
				zap.String("job_id", jobID.String()),
				zap.Any("panic", r),
			)
		}
	}()

	p.logger.Info("Processing job",
		zap.Int("worker_id", workerID),
		zap.String("job_id", jobID.String()),
	)

	jobCtx, cancel := context.WithTimeout(ctx, p.config.JobTimeout)
	defer cancel()

	start := time.Now()
	if err := p.executor.Execute(jobCtx, jobID); err != nil {
		p.logger.Error("Job failed",
			zap.Int("worker_id", workerID),
			zap.String("job_id", jobID.String()),
			zap.Error(err),
		)
		return
	}
	p.logger.Info("Job completed",
		zap.Int("worker_id", workerID),
		zap.String("job_id", jobID.String()),
		zap.Duration("elapsed", time.Since(start)),
	)
}
