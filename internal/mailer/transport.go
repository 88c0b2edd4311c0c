// Package mailer relays outbound email through SMTP or the Resend API.
//
// Failures are wrapped with ErrAuth, ErrConnection, ErrConfig or ErrSendFailed
// so callers can classify them with errors.Is while keeping the cause.
package mailer

import "context"

// Transport delivers prepared messages.
type Transport interface {
	// Verify checks connectivity and credentials without sending anything.
	Verify(ctx context.Context) error

	// Send makes exactly one delivery attempt and returns the provider's
	// message id.
	Send(ctx context.Context, msg *Message) (string, error)
}

var (
	_ Transport = (*SMTPTransport)(nil)
	_ Transport = (*ResendTransport)(nil)
)

// New builds the transport described by cfg: Resend when an API key is set,
// SMTP otherwise. Callers should check cfg.Enabled first; New does not require
// credentials.
func New(cfg Config) (Transport, error) {
	if cfg.ResendAPIKey != "" {
		return NewResendTransport(cfg), nil
	}
	return NewSMTPTransport(cfg)
}
