package queue

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockQueue is an in-memory Queue for tests.
type MockQueue struct {
	mu     sync.Mutex
	jobs   map[uuid.UUID]*Job
	order  []uuid.UUID
	config Config
}

// NewMockQueue creates an empty in-memory queue.
func NewMockQueue() *MockQueue {
	return &MockQueue{
		jobs:   make(map[uuid.UUID]*Job),
		config: DefaultConfig(),
	}
}

func (q *MockQueue) Enqueue(ctx context.Context, jobType string, requestID uuid.UUID) (*Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := time.Now()
	job := &Job{
		ID:          uuid.New(),
		Type:        jobType,
		RequestID:   requestID,
		Status:      JobStatusPending,
		MaxAttempts: q.config.MaxAttempts,
		ScheduledAt: now,
		CreatedAt:   now,
	}

	q.jobs[job.ID] = job
	q.order = append(q.order, job.ID)
	return job, nil
}

func (q *MockQueue) Dequeue(ctx context.Context, workerID string) (*Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := time.Now()
	for _, id := range q.order {
		job := q.jobs[id]
		if job.Status != JobStatusPending || job.ScheduledAt.After(now) {
			continue
		}

		job.Status = JobStatusProcessing
		job.StartedAt = &now
		job.AttemptCount++
		job.WorkerID = workerID

		copied := *job
		return &copied, nil
	}

	return nil, nil
}

func (q *MockQueue) Complete(ctx context.Context, jobID uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if job, ok := q.jobs[jobID]; ok {
		now := time.Now()
		job.Status = JobStatusCompleted
		job.CompletedAt = &now
	}
	return nil
}

func (q *MockQueue) Fail(ctx context.Context, jobID uuid.UUID, errMsg string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	job, ok := q.jobs[jobID]
	if !ok {
		return nil
	}

	job.ErrorMessage = errMsg
	if job.AttemptCount >= job.MaxAttempts {
		now := time.Now()
		job.Status = JobStatusFailed
		job.CompletedAt = &now
	} else {
		job.Status = JobStatusPending
	}
	return nil
}

func (q *MockQueue) GetJob(ctx context.Context, jobID uuid.UUID) (*Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if job, ok := q.jobs[jobID]; ok {
		copied := *job
		return &copied, nil
	}
	return nil, nil
}

// Jobs returns all jobs in enqueue order (for test assertions).
func (q *MockQueue) Jobs() []*Job {
	q.mu.Lock()
	defer q.mu.Unlock()

	jobs := make([]*Job, 0, len(q.order))
	for _, id := range q.order {
		copied := *q.jobs[id]
		jobs = append(jobs, &copied)
	}
	return jobs
}

// Verify MockQueue implements Queue interface
var _ Queue = (*MockQueue)(nil)
