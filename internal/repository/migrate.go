package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// DefaultMigrationsTable is the goose version table.
const DefaultMigrationsTable = "schema_migrations"

// Migration commands understood by RunMigrations.
const (
	MigrateUp     = "up"
	MigrateDown   = "down"
	MigrateStatus = "status"
	MigrateFresh  = "fresh"
)

var (
	ErrSetDialect              = errors.New("migrate: set dialect")
	ErrApplyMigrations         = errors.New("migrate: apply migrations")
	ErrUnknownMigrationCommand = errors.New("migrate: unknown command")
)

// Migrate applies every pending migration found at the root of migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool, migrations fs.FS, table string, log *slog.Logger) error {
	return RunMigrations(ctx, pool, migrations, table, log, MigrateUp)
}

// RunMigrations runs a goose command against pool:
//
//	up      apply pending migrations
//	down    roll back the latest migration
//	status  log the state of every migration
//	fresh   roll back everything, then apply all migrations
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, migrations fs.FS, table string, log *slog.Logger, command string) error {
	run, ok := migrationCommands[command]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMigrationCommand, command)
	}
	if log == nil {
		log = slog.Default()
	}

	// Shares the pool's connections; closing it would close the pool.
	db := stdlib.OpenDBFromPool(pool)

	goose.SetBaseFS(migrations)
	goose.SetLogger(&gooseLogger{log: log})
	if table == "" {
		table = DefaultMigrationsTable
	}
	goose.SetTableName(table)

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrSetDialect, err)
	}
	if err := run(ctx, db); err != nil {
		return errors.Join(ErrApplyMigrations, err)
	}
	return nil
}

var migrationCommands = map[string]func(ctx context.Context, db *sql.DB) error{
	MigrateUp: func(ctx context.Context, db *sql.DB) error {
		return goose.UpContext(ctx, db, ".")
	},
	MigrateDown: func(ctx context.Context, db *sql.DB) error {
		return goose.DownContext(ctx, db, ".")
	},
	MigrateStatus: func(ctx context.Context, db *sql.DB) error {
		return goose.StatusContext(ctx, db, ".")
	},
	MigrateFresh: func(ctx context.Context, db *sql.DB) error {
		if err := goose.ResetContext(ctx, db, "."); err != nil {
			return err
		}
		return goose.UpContext(ctx, db, ".")
	},
}

type gooseLogger struct {
	log *slog.Logger
}

func (g *gooseLogger) Printf(format string, args ...any) {
	g.log.Info(fmt.Sprintf(format, args...))
}

// Fatalf only logs; goose returns the error to RunMigrations.
func (g *gooseLogger) Fatalf(format string, args ...any) {
	g.log.Error(fmt.Sprintf(format, args...))
}
