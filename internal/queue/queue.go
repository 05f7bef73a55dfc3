// Package queue implements the per-request trigger mechanism: a durable
// job queue backed by PostgreSQL and a worker pool that drains it. Delivery
// is at-least-once; handlers must tolerate duplicate invocations.
package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the state of a job in the queue.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// IsTerminal returns true if the job is in a terminal state.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// JobTypeProcessRequest is enqueued once per created request record.
const JobTypeProcessRequest = "process_request"

// Job represents a unit of work triggered by a request record.
type Job struct {
	ID           uuid.UUID
	Type         string
	RequestID    uuid.UUID
	Status       JobStatus
	MaxAttempts  int
	AttemptCount int
	ScheduledAt  time.Time
	CreatedAt    time.Time
	StartedAt    *time.Time
	CompletedAt  *time.Time
	ErrorMessage string
	WorkerID     string
}

// Queue defines the interface for job queue operations.
type Queue interface {
	// Enqueue adds a new job for the given request.
	Enqueue(ctx context.Context, jobType string, requestID uuid.UUID) (*Job, error)

	// Dequeue retrieves and claims the next available job.
	// Returns nil if no jobs are available.
	Dequeue(ctx context.Context, workerID string) (*Job, error)

	// Complete marks a job as successfully completed.
	Complete(ctx context.Context, jobID uuid.UUID) error

	// Fail marks a job as failed. The job is rescheduled with exponential
	// backoff while attempts remain; otherwise it is failed permanently.
	Fail(ctx context.Context, jobID uuid.UUID, errMsg string) error

	// GetJob retrieves a job by ID.
	GetJob(ctx context.Context, jobID uuid.UUID) (*Job, error)
}

// Config holds configuration for the queue and its workers.
type Config struct {
	// WorkerCount is the number of concurrent workers.
	WorkerCount int

	// PollInterval is how often idle workers poll for jobs.
	PollInterval time.Duration

	// JobTimeout is the maximum time a job handler can run.
	JobTimeout time.Duration

	// ShutdownTimeout bounds how long Stop waits for in-flight jobs.
	ShutdownTimeout time.Duration

	// MaxAttempts is the number of delivery attempts per job.
	MaxAttempts int
}

// DefaultConfig returns the default queue configuration.
func DefaultConfig() Config {
	return Config{
		WorkerCount:     3,
		PollInterval:    time.Second,
		JobTimeout:      60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		MaxAttempts:     3,
	}
}
