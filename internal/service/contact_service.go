package service

import (
	"context"
	"errors"

	"github.com/givers/contact-api/internal/model"
)

// ErrPersistence wraps any failure to store a submission.
var ErrPersistence = errors.New("failed to save contact")

// ContactService defines the business logic for contact form submissions.
type ContactService interface {
	// Submit stores the submission when a repository is configured and then
	// relays it to the site owner when a transport is configured. Mail errors
	// are returned unchanged so callers can classify them with errors.Is.
	Submit(ctx context.Context, sub *model.ContactSubmission) (*model.SubmitResult, error)
}

// ContactConfig controls how submissions are relayed.
type ContactConfig struct {
	// Recipient receives every submission.
	Recipient string
	// From is the sender address of relayed mail.
	From string
	// Verify checks the relay before each send.
	Verify bool
	// SanitizeHTML strips markup from user text in the HTML body.
	SanitizeHTML bool
}
