package mail

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gopkg.in/gomail.v2"
)

type recordingSender struct {
	messages []*gomail.Message
	err      error
}

func (r *recordingSender) DialAndSend(m ...*gomail.Message) error {
	r.messages = append(r.messages, m...)
	return r.err
}

func TestMailerSendPasswordReset(t *testing.T) {
	sender := &recordingSender{}
	mailer := NewMailerWithSender("noreply@blog.example.com", sender)

	link := "https://blog.example.com/api/v1/auth/password/reset/abc123"
	if err := mailer.SendPasswordReset(context.Background(), "writer@example.com", link, 10*time.Minute); err != nil {
		t.Fatalf("SendPasswordReset returned error: %v", err)
	}
	if len(sender.messages) != 1 {
		t.Fatalf("expected one message, got %d", len(sender.messages))
	}
	msg := sender.messages[0]
	if got := msg.GetHeader("To"); len(got) != 1 || got[0] != "writer@example.com" {
		t.Fatalf("unexpected To header %v", got)
	}
	if got := msg.GetHeader("From"); len(got) != 1 || got[0] != "noreply@blog.example.com" {
		t.Fatalf("unexpected From header %v", got)
	}

	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		t.Fatalf("write message: %v", err)
	}
	if !strings.Contains(buf.String(), "abc123") {
		t.Fatalf("expected message body to contain the reset link")
	}
	if !strings.Contains(buf.String(), "10 minutes") {
		t.Fatalf("expected message body to mention the expiry")
	}
}

func TestMailerErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("not configured", func(t *testing.T) {
		mailer := NewMailer("", 587, "", "", "")
		if err := mailer.Send(ctx, "a@example.com", "s", "b"); !errors.Is(err, ErrNotConfigured) {
			t.Fatalf("expected ErrNotConfigured, got %v", err)
		}
		var nilMailer *Mailer
		if err := nilMailer.Send(ctx, "a@example.com", "s", "b"); !errors.Is(err, ErrNotConfigured) {
			t.Fatalf("expected ErrNotConfigured for nil mailer, got %v", err)
		}
	})

	t.Run("transport failure is wrapped", func(t *testing.T) {
		smtpDown := errors.New("smtp down")
		mailer := NewMailerWithSender("noreply@example.com", &recordingSender{err: smtpDown})
		if err := mailer.Send(ctx, "a@example.com", "s", "b"); !errors.Is(err, smtpDown) {
			t.Fatalf("expected wrapped smtp error, got %v", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		sender := &recordingSender{}
		mailer := NewMailerWithSender("noreply@example.com", sender)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		if err := mailer.Send(cancelled, "a@example.com", "s", "b"); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if len(sender.messages) != 0 {
			t.Fatalf("expected nothing to be sent")
		}
	})
}
