package mailer

import (
	"fmt"
	"strings"
)

// Default relay used when neither a preset nor an explicit host is configured.
const (
	DefaultHost = "smtp.gmail.com"
	DefaultPort = 587
)

// Config holds relay configuration.
// Embed this in the app config; fields are read from the environment with cleanenv.
type Config struct {
	// Service names a well-known provider preset (e.g. "gmail"). When set it
	// replaces Host, Port and Secure.
	Service string `env:"EMAIL_SERVICE"`

	Host string `env:"EMAIL_HOST"`
	Port int    `env:"EMAIL_PORT"`
	// Secure selects implicit TLS. When false the connection is upgraded with
	// STARTTLS if the server offers it.
	Secure bool `env:"EMAIL_SECURE"`

	User string `env:"EMAIL_USER"`
	Pass string `env:"EMAIL_PASS"`

	// InsecureSkipVerify relaxes certificate validation. Ignored for presets.
	InsecureSkipVerify bool `env:"EMAIL_INSECURE_SKIP_VERIFY" env-default:"true"`

	// From is the envelope and header sender. Defaults to User.
	From string `env:"EMAIL_FROM"`

	HelloName string `env:"EMAIL_HELO_NAME" env-default:"localhost"`

	// ResendAPIKey switches delivery to the Resend HTTP API.
	ResendAPIKey string `env:"RESEND_API_KEY"`
}

// Enabled reports whether enough credentials are present to send mail.
func (c Config) Enabled() bool {
	return c.ResendAPIKey != "" || (c.User != "" && c.Pass != "")
}

// Sender returns the configured From address, falling back to User.
func (c Config) Sender() string {
	if c.From != "" {
		return c.From
	}
	return c.User
}

// Preset is a named SMTP endpoint.
type Preset struct {
	Host   string
	Port   int
	Secure bool
}

// Presets maps normalised provider names to their SMTP endpoints.
var Presets = map[string]Preset{
	"gmail":      {Host: "smtp.gmail.com", Port: 465, Secure: true},
	"googlemail": {Host: "smtp.gmail.com", Port: 465, Secure: true},
	"outlook":    {Host: "smtp-mail.outlook.com", Port: 587},
	"hotmail":    {Host: "smtp-mail.outlook.com", Port: 587},
	"outlook365": {Host: "smtp.office365.com", Port: 587},
	"office365":  {Host: "smtp.office365.com", Port: 587},
	"yahoo":      {Host: "smtp.mail.yahoo.com", Port: 465, Secure: true},
	"zoho":       {Host: "smtp.zoho.com", Port: 465, Secure: true},
	"icloud":     {Host: "smtp.mail.me.com", Port: 587},
	"sendgrid":   {Host: "smtp.sendgrid.net", Port: 587},
	"mailgun":    {Host: "smtp.mailgun.org", Port: 465, Secure: true},
	"postmark":   {Host: "smtp.postmarkapp.com", Port: 2525},
	"fastmail":   {Host: "smtp.fastmail.com", Port: 465, Secure: true},
	"mailtrap":   {Host: "live.smtp.mailtrap.io", Port: 587},
}

// LookupPreset finds a preset by name. Matching ignores case and any
// non-alphanumeric characters, so "Office 365" and "office365" are equal.
func LookupPreset(name string) (Preset, bool) {
	p, ok := Presets[normalizeService(name)]
	return p, ok
}

func normalizeService(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// endpoint is a fully resolved SMTP target.
type endpoint struct {
	host               string
	port               int
	secure             bool
	insecureSkipVerify bool
}

func (e endpoint) String() string {
	return fmt.Sprintf("%s:%d", e.host, e.port)
}

// resolve picks the SMTP endpoint: preset, then explicit host, then the default.
func (c Config) resolve() (endpoint, error) {
	if c.Service != "" {
		p, ok := LookupPreset(c.Service)
		if !ok {
			return endpoint{}, fmt.Errorf("%w: %q", ErrUnknownService, c.Service)
		}
		return endpoint{host: p.Host, port: p.Port, secure: p.Secure}, nil
	}

	e := endpoint{
		host:               c.Host,
		port:               c.Port,
		secure:             c.Secure,
		insecureSkipVerify: c.InsecureSkipVerify,
	}
	if e.host == "" {
		e.host = DefaultHost
	}
	if e.port == 0 {
		e.port = DefaultPort
		if e.secure {
			e.port = 465
		}
	}
	return e, nil
}
