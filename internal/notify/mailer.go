// Package notify holds the outbound edges of the relay: SMTP delivery for
// email.* integration events and broker publication for notice.* events.
// Both are invoked by the outbox relay with at-least-once semantics, so
// duplicates must be harmless (a re-sent mail, a re-published notice).
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/dawn-chorus/teamsync-service/internal/integration"
	"github.com/dawn-chorus/teamsync-service/internal/outbox"
)

// Mailer sends plain-text mail.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer sends mail via unauthenticated SMTP (Mailpit-compatible).
type SMTPMailer struct {
	addr string
	from string
}

// NewSMTPMailer creates a mailer targeting host:port.
func NewSMTPMailer(host, port, from string) *SMTPMailer {
	host = strings.TrimSpace(host)
	port = strings.TrimSpace(port)
	from = strings.TrimSpace(from)
	if from == "" {
		from = "no-reply@teamsync.local"
	}
	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%s", host, port),
		from: from,
	}
}

// Send delivers one message. smtp.SendMail dials per call, which is fine at
// outbox-relay volumes.
func (s *SMTPMailer) Send(_ context.Context, to, subject, body string) error {
	msg := buildMessage(s.from, to, subject, body)
	return smtp.SendMail(s.addr, nil, s.from, []string{to}, []byte(msg))
}

func buildMessage(from, to, subject, body string) string {
	// Minimal RFC 5322 message; enough for Mailpit and most SMTP relays.
	return fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		from,
		to,
		subject,
		body,
	)
}

// EmailHandler renders email.* integration events and hands them to a
// Mailer. Registered for the email kinds only.
type EmailHandler struct {
	mailer Mailer
}

// NewEmailHandler creates an EmailHandler.
func NewEmailHandler(mailer Mailer) *EmailHandler {
	return &EmailHandler{mailer: mailer}
}

// Handle sends the mail implied by the event.
func (h *EmailHandler) Handle(ctx context.Context, event outbox.Event) error {
	switch e := event.(type) {
	case *integration.WelcomeEmail:
		subject := "Welcome to TeamSync"
		body := fmt.Sprintf(
			"Hi %s,\n\nYour TeamSync account is ready. Sign in with %s to get started.\n",
			e.DisplayName, e.Email,
		)
		return h.mailer.Send(ctx, e.Email, subject, body)

	case *integration.InvitationEmail:
		subject := "You have been invited to a TeamSync team"
		body := fmt.Sprintf(
			"Hello,\n\nYou have been invited to join a team as %s. The invitation expires on %s.\n",
			e.Role, e.ExpiresAt.Format("2006-01-02 15:04 MST"),
		)
		return h.mailer.Send(ctx, e.Email, subject, body)

	default:
		return fmt.Errorf("email handler received unsupported event kind %q", event.Kind())
	}
}
