package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/keighl/postmark"

	satbrowse "github.com/psagers/sat-browse"
)

// postmarkMailer sends messages through the Postmark API.
type postmarkMailer struct {
	client *postmark.Client
	logger *slog.Logger
	cfg    satbrowse.MailConfig
}

// newPostmarkMailer builds the Postmark client once; it is reused for every
// send.
func newPostmarkMailer(logger *slog.Logger, cfg satbrowse.MailConfig) *postmarkMailer {
	return &postmarkMailer{
		client: postmark.NewClient(cfg.PostmarkServerToken, ""),
		logger: logger,
		cfg:    cfg,
	}
}

func (m *postmarkMailer) Send(ctx context.Context, msg satbrowse.Message) error {
	email := postmark.Email{
		From:     fromHeader(m.cfg, msg),
		To:       msg.To,
		Bcc:      msg.Bcc,
		Subject:  msg.Subject,
		TextBody: msg.Text,
	}

	if _, err := m.client.SendEmail(email); err != nil {
		m.logger.Error("failed to send mail via Postmark",
			slog.String("to", msg.To),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("sending mail via postmark: %w", err)
	}

	m.logger.Info("mail sent via Postmark",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	)
	return nil
}
