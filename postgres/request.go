package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	satbrowse "github.com/psagers/sat-browse"
)

// Compile-time check that RequestService implements satbrowse.RequestService.
var _ satbrowse.RequestService = (*RequestService)(nil)

// RequestService implements satbrowse.RequestService using PostgreSQL.
type RequestService struct {
	db *DB
}

// CreateRequests persists a batch of new requests in a single transaction.
// A partial failure rolls back the whole batch so a sender never ends up
// with some URLs silently dropped and no record of the rest.
func (s *RequestService) CreateRequests(ctx context.Context, requests []*satbrowse.Request) error {
	if len(requests) == 0 {
		return nil
	}

	tx, err := s.db.pool.Begin(ctx)
	if err != nil {
		return satbrowse.Internal("Failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO requests (url, email)
		VALUES ($1, $2)
		RETURNING id, received
	`

	for _, req := range requests {
		if err := tx.QueryRow(ctx, query, req.URL, req.Email).Scan(&req.ID, &req.Received); err != nil {
			return satbrowse.Internal("Failed to create request", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return satbrowse.Internal("Failed to commit request batch", err)
	}

	return nil
}

// FindRequestByID retrieves a request by ID.
func (s *RequestService) FindRequestByID(ctx context.Context, id uuid.UUID) (*satbrowse.Request, error) {
	query := `
		SELECT id, url, email, received, completed, success, title, error
		FROM requests
		WHERE id = $1
	`

	req, err := scanRequest(s.db.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, satbrowse.NotFound("Request not found")
		}
		return nil, satbrowse.Internal("Failed to fetch request", err)
	}

	return req, nil
}

// FinalizeRequest writes the terminal fields of a request. The update is
// conditional on the record not being finalized yet, so the completion
// timestamp and outcome fields are written at most once.
func (s *RequestService) FinalizeRequest(ctx context.Context, id uuid.UUID, outcome satbrowse.RequestOutcome) (bool, error) {
	query := `
		UPDATE requests
		SET
			completed = NOW(),
			success = $1,
			title = NULLIF($2, ''),
			error = NULLIF($3, '')
		WHERE id = $4 AND completed IS NULL
	`

	tag, err := s.db.pool.Exec(ctx, query, outcome.Success, outcome.Title, outcome.Error, id)
	if err != nil {
		return false, satbrowse.Internal("Failed to finalize request", err)
	}

	return tag.RowsAffected() == 1, nil
}

// FindRequestsByEmail lists requests submitted by an address, newest first.
func (s *RequestService) FindRequestsByEmail(ctx context.Context, email string, limit int) ([]*satbrowse.Request, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, url, email, received, completed, success, title, error
		FROM requests
		WHERE email = $1
		ORDER BY received DESC
		LIMIT $2
	`

	rows, err := s.db.pool.Query(ctx, query, email, limit)
	if err != nil {
		return nil, satbrowse.Internal("Failed to list requests", err)
	}
	defer rows.Close()

	var requests []*satbrowse.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, satbrowse.Internal("Failed to scan request", err)
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

// scanRequest is a helper to scan a request from a row.
func scanRequest(row pgx.Row) (*satbrowse.Request, error) {
	var req satbrowse.Request
	var completed pgtype.Timestamptz
	var title, errMsg pgtype.Text

	err := row.Scan(&req.ID, &req.URL, &req.Email, &req.Received,
		&completed, &req.Success, &title, &errMsg)
	if err != nil {
		return nil, err
	}

	if completed.Valid {
		req.Completed = &completed.Time
	}
	if title.Valid {
		req.Title = title.String
	}
	if errMsg.Valid {
		req.Error = errMsg.String
	}

	return &req, nil
}
