// Package mailer delivers transactional email such as password reset links.
package mailer

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// Message is a single outbound email
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers messages
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ResendSender sends email through the Resend API
type ResendSender struct {
	client *resend.Client
	from   string
	logger *slog.Logger
}

// NewResendSender creates a sender for the given API key and from address
func NewResendSender(apiKey, from string, logger *slog.Logger) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
		logger: logger,
	}
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		s.logger.Error("email send failed", "error", err, "subject", msg.Subject)
		return fmt.Errorf("send email: %w", err)
	}

	s.logger.Info("email sent", "message_id", sent.Id, "subject", msg.Subject)
	return nil
}

// LogSender writes messages to the log instead of delivering them.
// Used when no Resend API key is configured.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a log-only sender
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("email not delivered (no provider configured)",
		"to", msg.To,
		"subject", msg.Subject,
	)
	s.logger.Debug("undelivered email body", "to", msg.To, "body", msg.HTML)
	return nil
}

// PasswordResetMessage builds the reset email for a link
func PasswordResetMessage(to, link string) Message {
	escaped := html.EscapeString(link)
	return Message{
		To:      to,
		Subject: "Reset your CS2 Coach password",
		HTML: `<p>Someone asked to reset the password for this account.</p>` +
			`<p><a href="` + escaped + `">Choose a new password</a></p>` +
			`<p>If this wasn't you, ignore this email.</p>`,
	}
}

// InviteMessage builds the invitation email for a link
func InviteMessage(to, link string) Message {
	escaped := html.EscapeString(link)
	return Message{
		To:      to,
		Subject: "You're invited to CS2 Coach",
		HTML: `<p>You've been invited to track training on CS2 Coach.</p>` +
			`<p><a href="` + escaped + `">Create your account</a></p>`,
	}
}
