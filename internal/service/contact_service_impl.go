package service

import (
	"context"
	"errors"

	"github.com/microcosm-cc/bluemonday"

	"github.com/givers/contact-api/internal/mailer"
	"github.com/givers/contact-api/internal/model"
	"github.com/givers/contact-api/internal/repository"
)

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo      repository.ContactRepository
	transport mailer.Transport
	cfg       ContactConfig
	policy    *bluemonday.Policy
}

// NewContactService creates a ContactService. repo and transport may be nil,
// which disables persistence and delivery respectively.
func NewContactService(repo repository.ContactRepository, transport mailer.Transport, cfg ContactConfig) ContactService {
	s := &contactServiceImpl{repo: repo, transport: transport, cfg: cfg}
	if cfg.SanitizeHTML {
		s.policy = bluemonday.UGCPolicy()
	}
	return s
}

// Submit persists, then relays. A persistence failure stops before any mail is
// sent; a relay failure is reported even though the record was already saved.
func (s *contactServiceImpl) Submit(ctx context.Context, sub *model.ContactSubmission) (*model.SubmitResult, error) {
	result := &model.SubmitResult{}

	if s.repo != nil {
		contact, err := s.repo.Create(ctx, sub)
		if err != nil {
			return nil, errors.Join(ErrPersistence, err)
		}
		result.Contact = contact
	}

	if s.transport == nil {
		return result, nil
	}

	msg, err := s.compose(sub)
	if err != nil {
		return nil, err
	}

	if s.cfg.Verify {
		if err := s.transport.Verify(ctx); err != nil {
			return nil, err
		}
	}

	id, err := s.transport.Send(ctx, msg)
	if err != nil {
		return nil, err
	}
	result.DeliveryID = id
	result.Delivered = true
	return result, nil
}
