package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/authuser/accounts/internal/core/domain"
	"github.com/authuser/accounts/internal/core/ports"
)

var ErrUnknownEventType = errors.New("unknown account event type")

var knownEventTypes = map[domain.AccountEventType]struct{}{
	domain.EventRegistered:     {},
	domain.EventUserAdded:      {},
	domain.EventLoginSucceeded: {},
	domain.EventLoginFailed:    {},
	domain.EventLoggedOut:      {},
}

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService implementation.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process validates and persists a single account event.
func (s *auditService) Process(ctx context.Context, in ports.AccountEventInput) error {
	typ := domain.AccountEventType(in.Type)
	if _, ok := knownEventTypes[typ]; !ok {
		return fmt.Errorf("process account event: %w: %q", ErrUnknownEventType, in.Type)
	}

	occurred := in.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}

	event := &domain.AccountEvent{
		Type:       typ,
		Email:      in.Email,
		UserID:     in.UserID,
		Role:       in.Role,
		RemoteIP:   in.RemoteIP,
		OccurredAt: occurred,
	}
	if err := s.repo.InsertEvent(ctx, event); err != nil {
		return fmt.Errorf("process account event: insert: %w", err)
	}

	s.log.Debug().
		Str("type", in.Type).
		Str("email", in.Email).
		Msg("account event recorded")
	return nil
}
