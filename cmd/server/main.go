package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/givers/contact-api/internal/config"
	"github.com/givers/contact-api/internal/handler"
	"github.com/givers/contact-api/internal/logging"
	"github.com/givers/contact-api/internal/mailer"
	"github.com/givers/contact-api/internal/repository"
	"github.com/givers/contact-api/internal/service"
	"github.com/givers/contact-api/migrations"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("load config failed", "error", err)
	}
	flush := logging.Setup(cfg.Log, logging.RequestID)
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logging.Fatal("server error", "error", err)
	}
	slog.Info("server stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	var (
		contactRepo repository.ContactRepository
		db          repository.DB
	)
	if cfg.PersistenceEnabled() {
		pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		if cfg.AutoMigrate {
			if err := repository.Migrate(ctx, pool, migrations.FS, repository.DefaultMigrationsTable, slog.Default()); err != nil {
				return err
			}
		}
		contactRepo = repository.NewPgContactRepository(pool)
		db = pool
	} else {
		slog.Info("DATABASE_URL not set, submissions will not be stored")
	}

	// 認証情報が未設定の場合はメール送信を無効化
	var transport mailer.Transport
	if cfg.Mail.Enabled() {
		t, err := mailer.New(cfg.Mail)
		if err != nil {
			return fmt.Errorf("configure mail transport: %w", err)
		}
		transport = t
	} else {
		slog.Warn("email credentials not set, submissions will not be relayed")
	}

	contactService := service.NewContactService(contactRepo, transport, service.ContactConfig{
		Recipient:    cfg.Recipient,
		From:         cfg.Mail.Sender(),
		Verify:       cfg.VerifyMail,
		SanitizeHTML: cfg.SanitizeHTML,
	})

	router := handler.NewRouter(
		handler.NewContactHandler(contactService, cfg.MaxBodyBytes),
		handler.NewHealthHandler(db),
		cfg.CORSOrigin,
	)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}
