// Package mail implements the outbound mail transport. The transport is
// constructed once at startup and shared for the life of the process; no
// per-call reconfiguration happens.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	satbrowse "github.com/psagers/sat-browse"
)

// New creates a mailer based on the provider configuration.
func New(logger *slog.Logger, cfg satbrowse.MailConfig) (satbrowse.Mailer, error) {
	switch cfg.Provider {
	case "postmark":
		return newPostmarkMailer(logger, cfg), nil
	case "smtp":
		return newSMTPMailer(logger, cfg)
	default:
		return &mockMailer{logger: logger}, nil
	}
}

// fromHeader renders the configured sender identity for a message,
// preferring the message's own From when set.
func fromHeader(cfg satbrowse.MailConfig, msg satbrowse.Message) string {
	if msg.From != "" {
		return msg.From
	}
	if cfg.FromName != "" {
		return fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromAddress)
	}
	return cfg.FromAddress
}

// mockMailer logs messages instead of sending them.
type mockMailer struct {
	logger *slog.Logger
}

func (m *mockMailer) Send(ctx context.Context, msg satbrowse.Message) error {
	m.logger.Info("MOCK MAIL: outbound message",
		slog.String("to", msg.To),
		slog.String("bcc", msg.Bcc),
		slog.String("subject", msg.Subject),
		slog.Int("body_bytes", len(msg.Text)),
	)
	return nil
}
