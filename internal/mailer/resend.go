package mailer

import (
	"context"
	"errors"

	"github.com/resend/resend-go/v3"
)

// ResendTransport delivers mail through the Resend HTTP API.
type ResendTransport struct {
	client *resend.Client
}

// NewResendTransport creates a Resend transport authenticated with cfg.ResendAPIKey.
func NewResendTransport(cfg Config) *ResendTransport {
	return &ResendTransport{client: resend.NewClient(cfg.ResendAPIKey)}
}

// Verify is a no-op; the API key is checked on the first send.
func (t *ResendTransport) Verify(context.Context) error {
	return nil
}

// Send implements Transport.
func (t *ResendTransport) Send(ctx context.Context, msg *Message) (string, error) {
	if err := msg.check(); err != nil {
		return "", errors.Join(ErrConfig, err)
	}

	resp, err := t.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		return "", errors.Join(ErrSendFailed, err)
	}
	return resp.Id, nil
}
