// Package satbrowse contains the domain types and service interfaces for
// sat-browse, a service that fetches web pages on request and mails them
// back as plain text.
package satbrowse

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Request represents one persisted unit of work: fetch a URL and email the
// result to the sender. Records are created by the inbound webhook and
// finalized exactly once by the processor; they are never deleted.
type Request struct {
	ID    uuid.UUID `json:"id"`
	URL   string    `json:"url"`
	Email string    `json:"email"`

	// Received is set when the record is created.
	Received time.Time `json:"received"`

	// Completed is set once processing finishes, nil until then.
	Completed *time.Time `json:"completed,omitempty"`

	Success bool `json:"success"`

	// Title is present only on success.
	Title string `json:"title,omitempty"`

	// Error is present only on failure.
	Error string `json:"error,omitempty"`
}

// Pending reports whether the request has not been finalized.
func (r *Request) Pending() bool {
	return r.Completed == nil
}

// RequestOutcome holds the terminal fields written when a request is
// finalized. Success implies Title may be set and Error is empty; failure
// implies Error is set.
type RequestOutcome struct {
	Success bool
	Title   string
	Error   string
}

// RequestService defines operations on the request store.
type RequestService interface {
	// CreateRequests persists a batch of new requests atomically.
	// Either every record is created or none are.
	CreateRequests(ctx context.Context, requests []*Request) error

	// FindRequestByID retrieves a request by its ID.
	// Returns ENOTFOUND if the request does not exist.
	FindRequestByID(ctx context.Context, id uuid.UUID) (*Request, error)

	// FinalizeRequest sets Completed and the outcome fields on a request
	// that has not been finalized yet. Returns false when the record was
	// already finalized, in which case nothing is written.
	FinalizeRequest(ctx context.Context, id uuid.UUID, outcome RequestOutcome) (bool, error)

	// FindRequestsByEmail lists requests submitted by an address, newest
	// first.
	FindRequestsByEmail(ctx context.Context, email string, limit int) ([]*Request, error)
}
