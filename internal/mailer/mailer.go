package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"
)

// DefaultFrom is the sender used when a message does not carry its own
const DefaultFrom = `"SnapMeal" <noreply@yourapp.com>`

// Message is a single outbound notification email
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Config holds SMTP connection configuration
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Mailer sends notification emails over SMTP
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	logger *slog.Logger
}

// New creates a Mailer from SMTP configuration
func New(config *Config, logger *slog.Logger) *Mailer {
	from := config.From
	if from == "" {
		from = DefaultFrom
	}

	return &Mailer{
		dialer: gomail.NewDialer(config.Host, config.Port, config.User, config.Password),
		from:   from,
		logger: logger,
	}
}

// Send delivers a single message. Dialing happens per message; this
// system sends at most one email per job, so connection reuse is not
// worth the bookkeeping.
func (m *Mailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	from := msg.From
	if from == "" {
		from = m.from
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTML)

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}

	m.logger.Info("Email sent",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	)

	return nil
}
