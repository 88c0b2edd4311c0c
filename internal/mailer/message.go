package mailer

import (
	"bytes"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"
	"time"
)

// Message is a fully prepared email.
type Message struct {
	From    string
	To      []string
	Subject string
	Text    string // plain text alternative
	HTML    string
}

func (m *Message) check() error {
	if len(m.To) == 0 {
		return ErrNoRecipient
	}
	if m.Text == "" && m.HTML == "" {
		return ErrNoContent
	}
	return nil
}

// encode renders m as an RFC 5322 message with a multipart/alternative body.
func (m *Message) encode(messageID string, date time.Time) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	parts := []struct{ contentType, content string }{
		{"text/plain; charset=UTF-8", m.Text},
		{"text/html; charset=UTF-8", m.HTML},
	}
	for _, p := range parts {
		if p.content == "" {
			continue
		}
		pw, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {p.contentType},
			"Content-Transfer-Encoding": {"quoted-printable"},
		})
		if err != nil {
			return nil, fmt.Errorf("create part: %w", err)
		}
		qp := quotedprintable.NewWriter(pw)
		if _, err := qp.Write([]byte(p.content)); err != nil {
			return nil, fmt.Errorf("write part: %w", err)
		}
		if err := qp.Close(); err != nil {
			return nil, fmt.Errorf("close part: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	headers := []struct{ key, value string }{
		{"From", sanitizeHeader(m.From)},
		{"To", sanitizeHeader(strings.Join(m.To, ", "))},
		{"Subject", mime.QEncoding.Encode("utf-8", sanitizeHeader(m.Subject))},
		{"Date", date.Format(time.RFC1123Z)},
		{"Message-ID", messageID},
		{"MIME-Version", "1.0"},
		{"Content-Type", fmt.Sprintf("multipart/alternative; boundary=%q", mw.Boundary())},
	}

	var out bytes.Buffer
	for _, h := range headers {
		out.WriteString(h.key)
		out.WriteString(": ")
		out.WriteString(h.value)
		out.WriteString("\r\n")
	}
	out.WriteString("\r\n")
	out.Write(body.Bytes())
	return out.Bytes(), nil
}

func sanitizeHeader(value string) string {
	clean := strings.ReplaceAll(value, "\r", " ")
	clean = strings.ReplaceAll(clean, "\n", " ")
	return strings.TrimSpace(clean)
}

// envelopeAddress extracts the bare address from "Name <addr>" or "addr".
func envelopeAddress(value string) (string, error) {
	addr, err := mail.ParseAddress(value)
	if err != nil {
		return "", fmt.Errorf("parse address %q: %w", value, err)
	}
	return addr.Address, nil
}

// messageDomain returns the domain used in generated Message-IDs.
func messageDomain(from string) string {
	if addr, err := envelopeAddress(from); err == nil {
		if _, domain, ok := strings.Cut(addr, "@"); ok && domain != "" {
			return domain
		}
	}
	return "localhost"
}
