package mock

import (
	"context"
	"sync"

	satbrowse "github.com/psagers/sat-browse"
)

// Compile-time interface check
var _ satbrowse.Mailer = (*Mailer)(nil)

// Mailer is a mock implementation of satbrowse.Mailer that records every
// message for assertions.
type Mailer struct {
	SendFn func(ctx context.Context, msg satbrowse.Message) error

	mu   sync.Mutex
	sent []satbrowse.Message
}

func (m *Mailer) Send(ctx context.Context, msg satbrowse.Message) error {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()

	if m.SendFn != nil {
		return m.SendFn(ctx, msg)
	}
	return nil
}

// Sent returns all recorded messages in send order.
func (m *Mailer) Sent() []satbrowse.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]satbrowse.Message(nil), m.sent...)
}

// LastMessage returns the most recent message, or nil if none were sent.
func (m *Mailer) LastMessage() *satbrowse.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sent) == 0 {
		return nil
	}
	msg := m.sent[len(m.sent)-1]
	return &msg
}

// Reset clears all recorded messages.
func (m *Mailer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
}
