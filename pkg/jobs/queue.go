package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrNotStarted is returned when enqueueing before Start or after Stop.
	ErrNotStarted = errors.New("jobs: queue not running")
	// ErrQueueFull is returned instead of blocking the caller.
	ErrQueueFull = errors.New("jobs: queue full")
)

// Job is one unit of background work carrying a typed payload.
type Job[T any] struct {
	ID       string
	Payload  T
	Attempt  int
	Enqueued time.Time
}

// Handler processes a job. A returned error schedules a retry.
type Handler[T any] func(context.Context, Job[T]) error

// QueueConfig configures worker pool behaviour.
type QueueConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.Logger
}

// Queue is an in-memory job dispatcher backed by a fixed set of goroutines.
// Jobs still buffered when Stop is called are dropped.
type Queue[T any] struct {
	name    string
	handler Handler[T]

	workers    int
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger

	jobs    chan Job[T]
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewQueue builds a queue; call Start before enqueueing.
func NewQueue[T any](name string, handler Handler[T], cfg QueueConfig) *Queue[T] {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 16
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Queue[T]{
		name:       name,
		handler:    handler,
		workers:    cfg.Workers,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logger:     cfg.Logger.With(zap.String("queue", name)),
		jobs:       make(chan Job[T], cfg.BufferSize),
	}
}

// Start launches the workers. Calling it twice is a no-op.
func (q *Queue[T]) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.running {
		return
	}
	q.ctx, q.cancel = context.WithCancel(ctx)
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	q.running = true
	q.logger.Info("queue started", zap.Int("workers", q.workers))
}

// Stop cancels workers and pending retries and waits for them to exit.
func (q *Queue[T]) Stop() {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return
	}
	q.running = false
	q.cancel()
	q.mu.Unlock()
	q.wg.Wait()
	q.logger.Info("queue stopped")
}

// Enqueue schedules job without blocking.
func (q *Queue[T]) Enqueue(job Job[T]) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.running {
		return fmt.Errorf("%s: %w", q.name, ErrNotStarted)
	}
	if job.Enqueued.IsZero() {
		job.Enqueued = time.Now().UTC()
	}
	select {
	case q.jobs <- job:
		return nil
	default:
		return fmt.Errorf("%s: %w", q.name, ErrQueueFull)
	}
}

func (q *Queue[T]) worker() {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case job := <-q.jobs:
			if err := q.handler(q.ctx, job); err != nil {
				q.retry(job, err)
			}
		}
	}
}

func (q *Queue[T]) retry(job Job[T], err error) {
	job.Attempt++
	if job.Attempt > q.maxRetries {
		q.logger.Error("job exceeded retries", zap.String("job_id", job.ID), zap.Int("attempts", job.Attempt), zap.Error(err))
		return
	}
	q.logger.Warn("job failed, retrying", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt), zap.Error(err))

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		timer := time.NewTimer(q.retryDelay * time.Duration(job.Attempt))
		defer timer.Stop()
		select {
		case <-q.ctx.Done():
		case <-timer.C:
			if err := q.Enqueue(job); err != nil {
				q.logger.Error("failed to requeue job", zap.String("job_id", job.ID), zap.Error(err))
			}
		}
	}()
}
