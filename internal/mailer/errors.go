package mailer

import (
	"errors"
	"io"
	"net"
	"net/textproto"
)

var (
	// ErrAuth indicates the relay rejected the credentials.
	ErrAuth = errors.New("mail relay rejected authentication")

	// ErrConnection indicates the relay could not be reached or dropped the connection.
	ErrConnection = errors.New("mail relay unreachable")

	// ErrConfig indicates the relay refused the message because of sender or
	// recipient configuration.
	ErrConfig = errors.New("mail relay configuration error")

	// ErrSendFailed covers every other delivery failure.
	ErrSendFailed = errors.New("failed to send email")

	// ErrUnknownService is returned by New for an unrecognised preset name.
	ErrUnknownService = errors.New("unknown email service")

	// ErrNoRecipient indicates the message has no recipient.
	ErrNoRecipient = errors.New("email must have at least one recipient")

	// ErrNoContent indicates the message has neither a text nor an HTML body.
	ErrNoContent = errors.New("email must have a body")
)

// SMTP reply codes that get their own classification.
const (
	codeAuthRequired   = 530
	codeAuthMechWeak   = 534
	codeAuthInvalid    = 535
	codeMailboxInvalid = 553
)

// classify wraps an SMTP protocol error with one of the package sentinels.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		switch tpErr.Code {
		case codeAuthRequired, codeAuthMechWeak, codeAuthInvalid:
			return errors.Join(ErrAuth, err)
		case codeMailboxInvalid:
			return errors.Join(ErrConfig, err)
		}
		return errors.Join(ErrSendFailed, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return errors.Join(ErrConnection, err)
	}

	return errors.Join(ErrSendFailed, err)
}

// classifyAuth wraps a failure of the AUTH exchange. Anything that is not a
// network failure counts as a credential problem, including the client
// refusing to send credentials over an unencrypted connection.
func classifyAuth(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, io.EOF) {
		return errors.Join(ErrConnection, err)
	}
	return errors.Join(ErrAuth, err)
}
