package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/givers/contact-api/internal/config"
	"github.com/givers/contact-api/internal/logging"
	"github.com/givers/contact-api/internal/repository"
	"github.com/givers/contact-api/migrations"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [command]

Commands:
  up        apply pending migrations (default)
  down      roll back the latest migration
  status    show applied and pending migrations
  fresh     roll back every migration, then apply all of them`)
	os.Exit(1)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("load config failed", "error", err)
	}
	flush := logging.Setup(cfg.Log)
	defer flush()

	if !cfg.PersistenceEnabled() {
		logging.Fatal("DATABASE_URL is required")
	}

	cmd := repository.MigrateUp
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	ctx := context.Background()
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("connect failed", "error", err)
	}
	defer pool.Close()

	err = repository.RunMigrations(ctx, pool, migrations.FS, repository.DefaultMigrationsTable, slog.Default(), cmd)
	switch {
	case errors.Is(err, repository.ErrUnknownMigrationCommand):
		usage()
	case err != nil:
		logging.Fatal("migration failed", "command", cmd, "error", err)
	}
	slog.Info("migrations done", "command", cmd)
}
