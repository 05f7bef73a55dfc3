package satbrowse

import "context"

// Message is an outbound email. Messages are ephemeral: composed by the
// processor and handed to the mail transport, never persisted.
type Message struct {
	From    string
	To      string
	Bcc     string
	Subject string
	Text    string
}

// Mailer defines the outbound mail transport. Delivery is fire-and-forget
// beyond the returned error.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// MailConfig holds configuration for the mail transport.
type MailConfig struct {
	// Provider is the mail provider ("mock", "postmark" or "smtp").
	Provider string

	// FromAddress is the sender identity applied to every message.
	FromAddress string

	// FromName is the sender display name.
	FromName string

	// Postmark-specific configuration.
	PostmarkServerToken string

	// SMTP-specific configuration.
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
}
