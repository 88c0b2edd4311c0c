// Package config loads the server configuration from the environment.
package config

import (
	"fmt"
	"strconv"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/givers/contact-api/internal/logging"
	"github.com/givers/contact-api/internal/mailer"
)

// Config is the complete server configuration.
type Config struct {
	Port       int    `env:"PORT" env-default:"5000"`
	CORSOrigin string `env:"CORS_ORIGIN" env-default:"*"`

	// DatabaseURL enables persistence when set.
	DatabaseURL string `env:"DATABASE_URL"`
	AutoMigrate bool   `env:"DATABASE_AUTO_MIGRATE" env-default:"false"`

	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" env-default:"102400"`

	// Recipient receives submissions. Defaults to EMAIL_USER.
	Recipient    string `env:"YOUR_EMAIL"`
	VerifyMail   bool   `env:"EMAIL_VERIFY" env-default:"false"`
	SanitizeHTML bool   `env:"EMAIL_SANITIZE_HTML" env-default:"false"`

	Log  logging.Config
	Mail mailer.Config
}

// Load reads .env files (default ".env"; missing files are ignored) and then
// the process environment. Variables already set in the environment win.
func Load(files ...string) (*Config, error) {
	_ = godotenv.Load(files...)

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if cfg.Recipient == "" {
		cfg.Recipient = cfg.Mail.User
	}
	return &cfg, nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// PersistenceEnabled reports whether a database is configured.
func (c *Config) PersistenceEnabled() bool {
	return c.DatabaseURL != ""
}
