package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/givers/contact-api/internal/model"
)

// DB checks that the database is reachable.
type DB interface {
	Ping(ctx context.Context) error
}

// Querier is the subset of *pgxpool.Pool the repositories use.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ContactRepository stores contact submissions. Records are only ever created.
type ContactRepository interface {
	Create(ctx context.Context, sub *model.ContactSubmission) (*model.Contact, error)
}
