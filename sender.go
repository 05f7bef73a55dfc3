package satbrowse

import (
	"context"
	"time"
)

// Sender is an email address authorized to submit requests. Existence in the
// registry is the sole authorization signal; the registry is managed
// out-of-band and is read-only to the request pipeline.
type Sender struct {
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
}

// SenderService defines operations on the known-senders registry.
type SenderService interface {
	// Authorize returns the canonical (lowercased) address when it is
	// registered, or "" when it is not. Matching is case-insensitive.
	// Callers must treat lookup errors as "not authorized".
	Authorize(ctx context.Context, address string) (string, error)

	// AddSender registers an address. Returns ECONFLICT if already present.
	AddSender(ctx context.Context, address string) error

	// RemoveSender unregisters an address. Returns ENOTFOUND if absent.
	RemoveSender(ctx context.Context, address string) error

	// ListSenders returns all registered senders ordered by address.
	ListSenders(ctx context.Context) ([]*Sender, error)
}
