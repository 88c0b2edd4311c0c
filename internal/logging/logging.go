package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
	"github.com/go-chi/chi/v5/middleware"
)

// Config controls the process-wide logger.
type Config struct {
	// Level is one of DEBUG, INFO, WARN, ERROR. Defaults to INFO.
	Level string `env:"LOG_LEVEL" env-default:"INFO"`

	// SentryDSN enables error reporting to Sentry when set.
	SentryDSN         string `env:"SENTRY_DSN"`
	SentryEnvironment string `env:"SENTRY_ENVIRONMENT" env-default:"production"`
}

// ContextExtractor pulls a request-scoped attribute out of a context.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// RequestID adds the chi request id to every record logged with a request context.
func RequestID(ctx context.Context) (slog.Attr, bool) {
	if id := middleware.GetReqID(ctx); id != "" {
		return slog.String("request_id", id), true
	}
	return slog.Attr{}, false
}

// Setup configures the global slog default with a JSON handler on stdout.
// ERROR-level logs automatically include a stack trace. When a Sentry DSN is
// configured, warnings and errors are also forwarded to Sentry.
//
// The returned function flushes buffered Sentry events and should be deferred.
func Setup(cfg Config, extractors ...ContextExtractor) (flush func()) {
	flush = func() {}
	level := parseLevel(cfg.Level)
	handler := newHandler(os.Stdout, level)

	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.SentryEnvironment,
			EnableLogs:  true,
		})
		if err != nil {
			slog.New(handler).Error("failed to initialize sentry", "error", err)
		} else {
			sentryHandler := sentryslog.Option{
				EventLevel: []slog.Level{slog.LevelError},
				LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
			}.NewSentryHandler(context.Background())
			handler = &multiHandler{handlers: []slog.Handler{handler, sentryHandler}}
			flush = func() { sentry.Flush(2 * time.Second) }
		}
	}

	slog.SetDefault(slog.New(newContextHandler(handler, extractors...)))
	return flush
}

func newHandler(w io.Writer, level slog.Level) slog.Handler {
	json := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
	})
	return &stackHandler{Handler: json}
}

func parseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Fatal logs at Error level and exits with code 1.
func Fatal(msg string, args ...any) {
	slog.Error(msg, args...)
	sentry.Flush(2 * time.Second)
	os.Exit(1)
}
