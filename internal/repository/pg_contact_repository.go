package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/givers/contact-api/internal/model"
)

// PgContactRepository is the PostgreSQL implementation of ContactRepository.
type PgContactRepository struct {
	db    Querier
	newID func() string
}

// NewPgContactRepository creates a PgContactRepository backed by the given pool.
func NewPgContactRepository(db Querier) *PgContactRepository {
	return &PgContactRepository{db: db, newID: uuid.NewString}
}

var _ ContactRepository = (*PgContactRepository)(nil)

// Create inserts a contacts row. The id is generated here; created_at comes
// from the database RETURNING clause.
func (r *PgContactRepository) Create(ctx context.Context, sub *model.ContactSubmission) (*model.Contact, error) {
	c := &model.Contact{
		ID:      r.newID(),
		Name:    sub.Name,
		Email:   sub.Email,
		Message: sub.Message,
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO contacts (id, name, email, message)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		c.ID, c.Name, c.Email, c.Message,
	).Scan(&c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert contact: %w", err)
	}
	return c, nil
}
