package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/psagers/sat-browse/internal/metrics"
)

// Handler processes a single job. Returning an error triggers the queue's
// redelivery logic; request-level failures are recorded on the request
// record by the handler itself and are not errors here.
type Handler func(ctx context.Context, job *Job) error

// WorkerPool manages a pool of workers that drain the queue.
type WorkerPool struct {
	queue    Queue
	logger   *slog.Logger
	config   Config
	handlers map[string]Handler // job type -> handler
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	mu       sync.RWMutex
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(queue Queue, logger *slog.Logger, config Config) *WorkerPool {
	return &WorkerPool{
		queue:    queue,
		logger:   logger,
		config:   config,
		handlers: make(map[string]Handler),
	}
}

// RegisterHandler registers a handler for a specific job type.
func (wp *WorkerPool) RegisterHandler(jobType string, handler Handler) {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	wp.handlers[jobType] = handler
	wp.logger.Info("registered job handler", slog.String("job_type", jobType))
}

// Start starts the configured number of workers.
func (wp *WorkerPool) Start(ctx context.Context) error {
	wp.mu.Lock()
	if wp.cancel != nil {
		wp.mu.Unlock()
		return fmt.Errorf("worker pool already started")
	}

	workerCtx, cancel := context.WithCancel(ctx)
	wp.cancel = cancel
	wp.mu.Unlock()

	for i := 0; i < wp.config.WorkerCount; i++ {
		wp.wg.Add(1)
		workerID := fmt.Sprintf("worker-%d", i+1)

		go wp.worker(workerCtx, workerID)
	}

	wp.logger.Info("worker pool started",
		slog.Int("worker_count", wp.config.WorkerCount))

	return nil
}

// Stop gracefully stops the worker pool.
func (wp *WorkerPool) Stop() error {
	wp.mu.Lock()
	if wp.cancel == nil {
		wp.mu.Unlock()
		return fmt.Errorf("worker pool not started")
	}
	cancel := wp.cancel
	wp.cancel = nil
	wp.mu.Unlock()

	wp.logger.Info("stopping worker pool")
	cancel()

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		wp.logger.Info("worker pool stopped gracefully")
		return nil
	case <-time.After(wp.config.ShutdownTimeout):
		wp.logger.Warn("worker pool shutdown timeout",
			slog.Duration("timeout", wp.config.ShutdownTimeout))
		return fmt.Errorf("shutdown timeout after %v", wp.config.ShutdownTimeout)
	}
}

// worker is the main worker loop.
func (wp *WorkerPool) worker(ctx context.Context, workerID string) {
	defer wp.wg.Done()

	wp.logger.Debug("worker started", slog.String("worker_id", workerID))

	ticker := time.NewTicker(wp.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			wp.logger.Debug("worker stopping", slog.String("worker_id", workerID))
			return

		case <-ticker.C:
			if err := wp.processNextJob(ctx, workerID); err != nil {
				wp.logger.Error("failed to process job",
					slog.String("worker_id", workerID),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// processNextJob attempts to dequeue and process a single job.
func (wp *WorkerPool) processNextJob(ctx context.Context, workerID string) error {
	job, err := wp.queue.Dequeue(ctx, workerID)
	if err != nil {
		return fmt.Errorf("failed to dequeue job: %w", err)
	}

	if job == nil {
		return nil // No jobs available
	}

	return wp.executeJob(ctx, job)
}

// executeJob runs the job handler and updates the job status.
func (wp *WorkerPool) executeJob(ctx context.Context, job *Job) error {
	wp.logger.Info("processing job",
		slog.String("job_id", job.ID.String()),
		slog.String("type", job.Type),
		slog.String("request_id", job.RequestID.String()),
		slog.Int("attempt", job.AttemptCount),
	)

	wp.mu.RLock()
	handler, exists := wp.handlers[job.Type]
	wp.mu.RUnlock()

	if !exists {
		errMsg := fmt.Sprintf("no handler registered for job type: %s", job.Type)
		wp.logger.Error("handler not found",
			slog.String("job_id", job.ID.String()),
			slog.String("job_type", job.Type),
		)
		return wp.queue.Fail(ctx, job.ID, errMsg)
	}

	jobCtx, cancel := context.WithTimeout(ctx, wp.config.JobTimeout)
	defer cancel()

	startTime := time.Now()
	err := handler(jobCtx, job)
	duration := time.Since(startTime)

	if err != nil {
		wp.logger.Error("job failed",
			slog.String("job_id", job.ID.String()),
			slog.String("error", err.Error()),
			slog.Duration("duration", duration),
		)
		metrics.JobsProcessed.WithLabelValues(job.Type, "error").Inc()

		return wp.queue.Fail(ctx, job.ID, err.Error())
	}

	wp.logger.Info("job completed",
		slog.String("job_id", job.ID.String()),
		slog.Duration("duration", duration),
	)
	metrics.JobsProcessed.WithLabelValues(job.Type, "ok").Inc()

	return wp.queue.Complete(ctx, job.ID)
}

// GetHandler retrieves a registered handler (for testing).
func (wp *WorkerPool) GetHandler(jobType string) (Handler, bool) {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	handler, exists := wp.handlers[jobType]
	return handler, exists
}
