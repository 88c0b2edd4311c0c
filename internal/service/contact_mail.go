package service

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/givers/contact-api/internal/mailer"
	"github.com/givers/contact-api/internal/model"
)

// User text is interpolated verbatim. text/template does not escape, so the
// HTML part carries whatever markup the visitor typed unless SanitizeHTML is set.
var (
	subjectTemplate = template.Must(template.New("subject").Parse(
		`New contact form submission from {{.Name}}`))

	textTemplate = template.Must(template.New("text").Parse(
		"You received a new message from {{.Name}} <{{.Email}}>:\n\n{{.Message}}"))

	htmlTemplate = template.Must(template.New("html").Funcs(template.FuncMap{
		"breaks": func(s string) string { return strings.ReplaceAll(s, "\n", "<br>") },
	}).Parse(
		`<p>You received a new message from <strong>{{.Name}}</strong> &lt;{{.Email}}&gt;:</p><blockquote>{{breaks .Message}}</blockquote>`))
)

// compose renders the notification mail for sub.
func (s *contactServiceImpl) compose(sub *model.ContactSubmission) (*mailer.Message, error) {
	subject, err := render(subjectTemplate, sub)
	if err != nil {
		return nil, err
	}
	text, err := render(textTemplate, sub)
	if err != nil {
		return nil, err
	}

	htmlData := *sub
	if s.policy != nil {
		htmlData.Name = s.policy.Sanitize(htmlData.Name)
		htmlData.Message = s.policy.Sanitize(htmlData.Message)
	}
	html, err := render(htmlTemplate, &htmlData)
	if err != nil {
		return nil, err
	}

	return &mailer.Message{
		From:    s.cfg.From,
		To:      []string{s.cfg.Recipient},
		Subject: subject,
		Text:    text,
		HTML:    html,
	}, nil
}

func render(t *template.Template, sub *model.ContactSubmission) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, sub); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}
