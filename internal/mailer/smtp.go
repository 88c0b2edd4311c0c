package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// SMTPTransport delivers mail through an SMTP relay. Each call opens its own
// connection, so a transport is safe for concurrent use.
type SMTPTransport struct {
	endpoint  endpoint
	auth      smtp.Auth
	helloName string
	dialer    *net.Dialer
	now       func() time.Time
	newID     func() string
}

// NewSMTPTransport resolves cfg into an SMTP endpoint. It does not connect.
func NewSMTPTransport(cfg Config) (*SMTPTransport, error) {
	ep, err := cfg.resolve()
	if err != nil {
		return nil, err
	}

	t := &SMTPTransport{
		endpoint:  ep,
		helloName: cfg.HelloName,
		dialer:    &net.Dialer{},
		now:       time.Now,
		newID:     uuid.NewString,
	}
	if t.helloName == "" {
		t.helloName = "localhost"
	}
	if cfg.User != "" {
		t.auth = smtp.PlainAuth("", cfg.User, cfg.Pass, ep.host)
	}
	return t, nil
}

// Addr returns host:port of the relay.
func (t *SMTPTransport) Addr() string {
	return t.endpoint.String()
}

// Verify connects, negotiates TLS, authenticates and quits without sending.
func (t *SMTPTransport) Verify(ctx context.Context) error {
	c, done, err := t.open(ctx)
	if err != nil {
		return err
	}
	defer done()

	if err := c.Quit(); err != nil {
		return classify(err)
	}
	return nil
}

// Send delivers msg in a single attempt and returns its Message-ID.
func (t *SMTPTransport) Send(ctx context.Context, msg *Message) (string, error) {
	if err := msg.check(); err != nil {
		return "", errors.Join(ErrConfig, err)
	}

	from, err := envelopeAddress(msg.From)
	if err != nil {
		return "", errors.Join(ErrConfig, err)
	}
	recipients := make([]string, 0, len(msg.To))
	for _, to := range msg.To {
		addr, err := envelopeAddress(to)
		if err != nil {
			return "", errors.Join(ErrConfig, err)
		}
		recipients = append(recipients, addr)
	}

	messageID := fmt.Sprintf("<%s@%s>", t.newID(), messageDomain(msg.From))
	data, err := msg.encode(messageID, t.now())
	if err != nil {
		return "", errors.Join(ErrSendFailed, err)
	}

	c, done, err := t.open(ctx)
	if err != nil {
		return "", err
	}
	defer done()

	if err := c.Mail(from); err != nil {
		return "", classify(err)
	}
	for _, rcpt := range recipients {
		if err := c.Rcpt(rcpt); err != nil {
			return "", classify(err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return "", classify(err)
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", classify(err)
	}
	if err := w.Close(); err != nil {
		return "", classify(err)
	}

	// The message is accepted once DATA completes; a failed QUIT does not undo it.
	_ = c.Quit()
	return messageID, nil
}

// open dials the relay and returns an authenticated client. done must be
// called to release the connection.
func (t *SMTPTransport) open(ctx context.Context) (*smtp.Client, func(), error) {
	conn, err := t.dialer.DialContext(ctx, "tcp", net.JoinHostPort(t.endpoint.host, strconv.Itoa(t.endpoint.port)))
	if err != nil {
		return nil, nil, errors.Join(ErrConnection, err)
	}

	if t.endpoint.secure {
		tlsConn := tls.Client(conn, t.tlsConfig())
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			_ = conn.Close()
			return nil, nil, errors.Join(ErrConnection, err)
		}
		conn = tlsConn
	}

	// Closing the connection unblocks any pending read when ctx is cancelled.
	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-stop:
		}
	}()

	c, err := smtp.NewClient(conn, t.endpoint.host)
	if err != nil {
		close(stop)
		_ = conn.Close()
		return nil, nil, errors.Join(ErrConnection, err)
	}
	done := func() {
		close(stop)
		_ = c.Close()
	}

	if err := c.Hello(t.helloName); err != nil {
		done()
		return nil, nil, errors.Join(ErrConnection, err)
	}

	if !t.endpoint.secure {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(t.tlsConfig()); err != nil {
				done()
				return nil, nil, errors.Join(ErrConnection, err)
			}
		}
	}

	if t.auth != nil {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(t.auth); err != nil {
				done()
				return nil, nil, classifyAuth(err)
			}
		}
	}

	return c, done, nil
}

func (t *SMTPTransport) tlsConfig() *tls.Config {
	return &tls.Config{
		ServerName:         t.endpoint.host,
		InsecureSkipVerify: t.endpoint.insecureSkipVerify, //nolint:gosec // opt-in via EMAIL_INSECURE_SKIP_VERIFY
		MinVersion:         tls.VersionTLS12,
	}
}
