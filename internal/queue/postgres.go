package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresQueue implements the Queue interface using PostgreSQL.
type PostgresQueue struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
	config Config
}

// NewPostgresQueue creates a new PostgreSQL-backed queue.
func NewPostgresQueue(pool *pgxpool.Pool, logger *slog.Logger, config Config) *PostgresQueue {
	return &PostgresQueue{
		pool:   pool,
		logger: logger,
		config: config,
	}
}

// Enqueue adds a new job for the given request.
func (q *PostgresQueue) Enqueue(ctx context.Context, jobType string, requestID uuid.UUID) (*Job, error) {
	query := `
		INSERT INTO jobs (job_type, request_id, max_attempts)
		VALUES ($1, $2, $3)
		RETURNING id, scheduled_at, created_at
	`

	job := &Job{
		Type:        jobType,
		RequestID:   requestID,
		Status:      JobStatusPending,
		MaxAttempts: q.config.MaxAttempts,
	}

	err := q.pool.QueryRow(ctx, query, jobType, requestID, q.config.MaxAttempts).
		Scan(&job.ID, &job.ScheduledAt, &job.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue job: %w", err)
	}

	q.logger.Debug("job enqueued",
		slog.String("job_id", job.ID.String()),
		slog.String("type", jobType),
		slog.String("request_id", requestID.String()),
	)

	return job, nil
}

// Dequeue retrieves and claims the next available job. The SKIP LOCKED
// claim keeps concurrent workers off the same job.
func (q *PostgresQueue) Dequeue(ctx context.Context, workerID string) (*Job, error) {
	query := `
		UPDATE jobs
		SET
			status = 'processing',
			started_at = NOW(),
			attempt_count = attempt_count + 1,
			worker_id = $1
		WHERE id = (
			SELECT id
			FROM jobs
			WHERE status = 'pending'
			  AND scheduled_at <= NOW()
			ORDER BY created_at ASC
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING
			id, job_type, request_id, status, max_attempts, attempt_count,
			scheduled_at, created_at, started_at, completed_at,
			error_message, worker_id
	`

	job, err := scanJob(q.pool.QueryRow(ctx, query, workerID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No jobs available
		}
		return nil, fmt.Errorf("failed to dequeue job: %w", err)
	}

	q.logger.Debug("job dequeued",
		slog.String("job_id", job.ID.String()),
		slog.String("worker", workerID),
	)

	return job, nil
}

// Complete marks a job as successfully completed.
func (q *PostgresQueue) Complete(ctx context.Context, jobID uuid.UUID) error {
	query := `
		UPDATE jobs
		SET status = 'completed', completed_at = NOW()
		WHERE id = $1
	`

	if _, err := q.pool.Exec(ctx, query, jobID); err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}

	q.logger.Debug("job completed", slog.String("job_id", jobID.String()))
	return nil
}

// Fail marks a job as failed and schedules a redelivery if attempts remain.
func (q *PostgresQueue) Fail(ctx context.Context, jobID uuid.UUID, errMsg string) error {
	query := `
		UPDATE jobs
		SET
			status = CASE
				WHEN attempt_count >= max_attempts THEN 'failed'
				ELSE 'pending'
			END,
			error_message = $1,
			scheduled_at = CASE
				WHEN attempt_count < max_attempts
				THEN NOW() + (INTERVAL '1 minute' * POW(2, attempt_count))
				ELSE scheduled_at
			END,
			completed_at = CASE
				WHEN attempt_count >= max_attempts THEN NOW()
				ELSE NULL
			END
		WHERE id = $2
		RETURNING status, attempt_count, max_attempts
	`

	var status string
	var attemptCount, maxAttempts int

	err := q.pool.QueryRow(ctx, query, errMsg, jobID).Scan(&status, &attemptCount, &maxAttempts)
	if err != nil {
		return fmt.Errorf("failed to mark job as failed: %w", err)
	}

	if status == string(JobStatusFailed) {
		q.logger.Warn("job permanently failed",
			slog.String("job_id", jobID.String()),
			slog.Int("attempts", attemptCount),
			slog.String("error", errMsg),
		)
	} else {
		backoff := time.Duration(1<<uint(attemptCount)) * time.Minute
		q.logger.Debug("job failed, will redeliver",
			slog.String("job_id", jobID.String()),
			slog.Int("attempt", attemptCount),
			slog.Int("max_attempts", maxAttempts),
			slog.Duration("retry_in", backoff),
		)
	}

	return nil
}

// GetJob retrieves a job by ID.
func (q *PostgresQueue) GetJob(ctx context.Context, jobID uuid.UUID) (*Job, error) {
	query := `
		SELECT
			id, job_type, request_id, status, max_attempts, attempt_count,
			scheduled_at, created_at, started_at, completed_at,
			error_message, worker_id
		FROM jobs
		WHERE id = $1
	`

	job, err := scanJob(q.pool.QueryRow(ctx, query, jobID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("job not found: %s", jobID)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return job, nil
}

// scanJob is a helper to scan a job from a row.
func scanJob(row pgx.Row) (*Job, error) {
	var job Job
	var startedAt, completedAt pgtype.Timestamptz
	var errorMessage, workerID pgtype.Text

	err := row.Scan(
		&job.ID, &job.Type, &job.RequestID, &job.Status,
		&job.MaxAttempts, &job.AttemptCount,
		&job.ScheduledAt, &job.CreatedAt,
		&startedAt, &completedAt, &errorMessage, &workerID,
	)
	if err != nil {
		return nil, err
	}

	if startedAt.Valid {
		job.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		job.CompletedAt = &completedAt.Time
	}
	if errorMessage.Valid {
		job.ErrorMessage = errorMessage.String
	}
	if workerID.Valid {
		job.WorkerID = workerID.String
	}

	return &job, nil
}

// Verify PostgresQueue implements Queue interface
var _ Queue = (*PostgresQueue)(nil)
