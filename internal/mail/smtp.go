package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"

	satbrowse "github.com/psagers/sat-browse"
)

// smtpMailer sends messages through an SMTP relay. The client is built once
// at startup and reused; it is safe for concurrent use.
type smtpMailer struct {
	client *gomail.Client
	logger *slog.Logger
	cfg    satbrowse.MailConfig
}

func newSMTPMailer(logger *slog.Logger, cfg satbrowse.MailConfig) (*smtpMailer, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.SMTPPort),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	}
	if cfg.SMTPUsername != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.SMTPUsername),
			gomail.WithPassword(cfg.SMTPPassword),
		)
	}

	client, err := gomail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating SMTP client: %w", err)
	}

	return &smtpMailer{
		client: client,
		logger: logger,
		cfg:    cfg,
	}, nil
}

func (m *smtpMailer) Send(ctx context.Context, msg satbrowse.Message) error {
	message := gomail.NewMsg()
	if err := message.From(fromHeader(m.cfg, msg)); err != nil {
		return fmt.Errorf("setting mail sender: %w", err)
	}
	if err := message.To(msg.To); err != nil {
		return fmt.Errorf("setting mail recipient: %w", err)
	}
	if msg.Bcc != "" {
		if err := message.Bcc(msg.Bcc); err != nil {
			return fmt.Errorf("setting mail bcc: %w", err)
		}
	}
	message.Subject(msg.Subject)
	message.SetBodyString(gomail.TypeTextPlain, msg.Text)

	if err := m.client.DialAndSendWithContext(ctx, message); err != nil {
		m.logger.Error("failed to send mail via SMTP",
			slog.String("to", msg.To),
			slog.String("host", m.cfg.SMTPHost),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("sending mail via smtp: %w", err)
	}

	m.logger.Info("mail sent via SMTP",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	)
	return nil
}
