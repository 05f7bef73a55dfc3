package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	satbrowse "github.com/psagers/sat-browse"
)

// Compile-time check that SenderService implements satbrowse.SenderService.
var _ satbrowse.SenderService = (*SenderService)(nil)

// SenderService implements satbrowse.SenderService using PostgreSQL.
type SenderService struct {
	db *DB
}

// Authorize returns the canonical (lowercased) address when it is
// registered, "" when it is not. Address matching is case-insensitive.
func (s *SenderService) Authorize(ctx context.Context, address string) (string, error) {
	if address == "" {
		return "", nil
	}

	query := `SELECT address FROM senders WHERE address = $1`

	var found string
	err := s.db.pool.QueryRow(ctx, query, canonicalAddress(address)).Scan(&found)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", satbrowse.Internal("Failed to look up sender", err)
	}

	return found, nil
}

// AddSender registers an address.
func (s *SenderService) AddSender(ctx context.Context, address string) error {
	query := `INSERT INTO senders (address) VALUES ($1)`

	if _, err := s.db.pool.Exec(ctx, query, canonicalAddress(address)); err != nil {
		if isUniqueViolation(err) {
			return satbrowse.Conflict("Sender is already registered")
		}
		return satbrowse.Internal("Failed to add sender", err)
	}

	return nil
}

// RemoveSender unregisters an address.
func (s *SenderService) RemoveSender(ctx context.Context, address string) error {
	query := `DELETE FROM senders WHERE address = $1`

	tag, err := s.db.pool.Exec(ctx, query, canonicalAddress(address))
	if err != nil {
		return satbrowse.Internal("Failed to remove sender", err)
	}
	if tag.RowsAffected() == 0 {
		return satbrowse.NotFound("Sender not found")
	}

	return nil
}

// ListSenders returns all registered senders ordered by address.
func (s *SenderService) ListSenders(ctx context.Context) ([]*satbrowse.Sender, error) {
	query := `SELECT address, created_at FROM senders ORDER BY address`

	rows, err := s.db.pool.Query(ctx, query)
	if err != nil {
		return nil, satbrowse.Internal("Failed to list senders", err)
	}
	defer rows.Close()

	var senders []*satbrowse.Sender
	for rows.Next() {
		var sender satbrowse.Sender
		if err := rows.Scan(&sender.Address, &sender.CreatedAt); err != nil {
			return nil, satbrowse.Internal("Failed to scan sender", err)
		}
		senders = append(senders, &sender)
	}

	return senders, rows.Err()
}

// canonicalAddress lowercases an email address. Senders are stored and
// matched in canonical form so mail from User@Example.com still authorizes.
func canonicalAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
