package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Locker grants cross-instance exclusion for one run of a task
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// Task is a function run on a fixed interval
type Task struct {
	Name     string
	Interval time.Duration
	// Timeout bounds one run. Zero means Interval.
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

// Runner runs periodic tasks until stopped. When a Locker is set, each run
// first takes the lock "scheduler:<task name>" so only one instance runs it.
type Runner struct {
	tasks  []Task
	locker Locker
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewRunner creates a runner. locker may be nil.
func NewRunner(locker Locker, logger *zap.Logger, tasks ...Task) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{tasks: tasks, locker: locker, logger: logger}
}

// Add registers a task; it must be called before Start
func (r *Runner) Add(t Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = append(r.tasks, t)
}

// Start launches one loop per task
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.isRunning {
		return nil
	}
	for _, t := range r.tasks {
		if t.Interval <= 0 || t.Run == nil {
			return ErrInvalidConfig
		}
	}
	r.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	for _, t := range r.tasks {
		r.wg.Add(1)
		go r.loop(ctx, t)
		r.logger.Info("Periodic task started",
			zap.String("task", t.Name),
			zap.Duration("interval", t.Interval),
		)
	}
	return nil
}

// Stop stops all loops and waits for in-flight runs, bounded by ctx
func (r *Runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.isRunning {
		r.mu.Unlock()
		return nil
	}
	r.isRunning = false
	r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("Periodic tasks stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) loop(ctx context.Context, t Task) {
	defer r.wg.Done()

	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.RunOnce(ctx, t)
		}
	}
}

// RunOnce runs t a single time, honoring the lock and timeout
func (r *Runner) RunOnce(ctx context.Context, t Task) {
	timeout := t.Timeout
	if timeout <= 0 {
		timeout = t.Interval
	}

	if r.locker != nil {
		// expire before the next tick so the following run is not skipped
		lockTTL := min(timeout, t.Interval*9/10)
		if lockTTL <= 0 {
			lockTTL = timeout
		}
		ok, err := r.locker.TryLock(ctx, "scheduler:"+t.Name, lockTTL)
		if err != nil {
			r.logger.Warn("Task lock failed", zap.String("task", t.Name), zap.Error(err))
			return
		}
		if !ok {
			r.logger.Debug("Task held by another instance", zap.String("task", t.Name))
			return
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Task panicked", zap.String("task", t.Name), zap.Any("panic", rec))
		}
	}()

	if err := t.Run(runCtx); err != nil {
		r.logger.Error("Task failed", zap.String("task", t.Name), zap.Error(err))
	}
}
