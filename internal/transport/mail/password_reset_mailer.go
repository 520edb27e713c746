package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/gomail.v2"
)

var ErrNotConfigured = errors.New("mailer not configured")

// Sender is satisfied by *gomail.Dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Mailer struct {
	from   string
	sender Sender
}

func NewMailer(host string, port int, username, password, from string) *Mailer {
	host = strings.TrimSpace(host)
	from = strings.TrimSpace(from)
	if host == "" || from == "" {
		return &Mailer{from: from}
	}
	return &Mailer{
		from:   from,
		sender: gomail.NewDialer(host, port, username, password),
	}
}

// NewMailerWithSender is used when the transport is provided by the caller.
func NewMailerWithSender(from string, sender Sender) *Mailer {
	return &Mailer{from: strings.TrimSpace(from), sender: sender}
}

// Send delivers a plain text message to a single recipient.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	if m == nil || m.sender == nil || m.from == "" {
		return ErrNotConfigured
	}
	to = strings.TrimSpace(to)
	if to == "" {
		return errors.New("mail: no recipient")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("mail: send to %s: %w", to, err)
	}
	return nil
}

// SendPasswordReset mails the reset link to email.
func (m *Mailer) SendPasswordReset(ctx context.Context, email, link string, ttl time.Duration) error {
	subject := "Reset your password"
	minutes := int(ttl.Round(time.Minute) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	body := fmt.Sprintf("Use the following link to choose a new password:\n\n%s\n\nThe link expires in %d minutes and can be used once.\nIf you did not request this, ignore this email.", link, minutes)
	return m.Send(ctx, email, subject, body)
}
