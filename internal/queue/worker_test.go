package queue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWorkerPool_RegisterHandler(t *testing.T) {
	wp := NewWorkerPool(NewMockQueue(), testLogger(), DefaultConfig())

	wp.RegisterHandler(JobTypeProcessRequest, func(ctx context.Context, job *Job) error {
		return nil
	})

	handler, ok := wp.GetHandler(JobTypeProcessRequest)
	assert.True(t, ok)
	assert.NotNil(t, handler)

	_, ok = wp.GetHandler("unknown")
	assert.False(t, ok)
}

func TestWorkerPool_ExecuteJobSuccess(t *testing.T) {
	ctx := context.Background()
	q := NewMockQueue()
	wp := NewWorkerPool(q, testLogger(), DefaultConfig())

	var handled []uuid.UUID
	wp.RegisterHandler(JobTypeProcessRequest, func(ctx context.Context, job *Job) error {
		handled = append(handled, job.RequestID)
		return nil
	})

	requestID := uuid.New()
	job, err := q.Enqueue(ctx, JobTypeProcessRequest, requestID)
	require.NoError(t, err)

	require.NoError(t, wp.processNextJob(ctx, "worker-1"))

	assert.Equal(t, []uuid.UUID{requestID}, handled)

	stored, err := q.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusCompleted, stored.Status)
}

func TestWorkerPool_ExecuteJobFailureReschedules(t *testing.T) {
	ctx := context.Background()
	q := NewMockQueue()
	wp := NewWorkerPool(q, testLogger(), DefaultConfig())

	wp.RegisterHandler(JobTypeProcessRequest, func(ctx context.Context, job *Job) error {
		return errors.New("transient failure")
	})

	job, err := q.Enqueue(ctx, JobTypeProcessRequest, uuid.New())
	require.NoError(t, err)

	require.NoError(t, wp.processNextJob(ctx, "worker-1"))

	stored, err := q.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusPending, stored.Status)
	assert.Equal(t, "transient failure", stored.ErrorMessage)
}

func TestWorkerPool_UnregisteredJobTypeFails(t *testing.T) {
	ctx := context.Background()
	q := NewMockQueue()
	wp := NewWorkerPool(q, testLogger(), DefaultConfig())

	job, err := q.Enqueue(ctx, "unknown_type", uuid.New())
	require.NoError(t, err)

	require.NoError(t, wp.processNextJob(ctx, "worker-1"))

	stored, err := q.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Contains(t, stored.ErrorMessage, "no handler registered")
}

func TestWorkerPool_NoJobsIsNoError(t *testing.T) {
	wp := NewWorkerPool(NewMockQueue(), testLogger(), DefaultConfig())
	assert.NoError(t, wp.processNextJob(context.Background(), "worker-1"))
}

func TestWorkerPool_StartStop(t *testing.T) {
	wp := NewWorkerPool(NewMockQueue(), testLogger(), DefaultConfig())

	require.NoError(t, wp.Start(context.Background()))
	assert.Error(t, wp.Start(context.Background()), "double start should error")
	require.NoError(t, wp.Stop())
	assert.Error(t, wp.Stop(), "double stop should error")
}
