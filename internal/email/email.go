// Package email provides outbound email delivery.
package email

import "context"

// Sender delivers outbound email for the communications and reminders
// modules.
type Sender interface {
	// SendMessage delivers a free-form message logged by the
	// communications module.
	SendMessage(ctx context.Context, toEmail, subject, body string) error
	// SendServiceReminder delivers the next-service follow-up email.
	SendServiceReminder(ctx context.Context, toEmail, customerName, vehicleName, shopName string) error
}

// NoopSender drops all email. Used when EMAIL_ENABLED is false so local
// environments never need an SMTP server.
type NoopSender struct{}

func (NoopSender) SendMessage(context.Context, string, string, string) error { return nil }

func (NoopSender) SendServiceReminder(context.Context, string, string, string, string) error {
	return nil
}
