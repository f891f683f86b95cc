package ports

import (
	"context"
	"time"

	"github.com/authuser/accounts/internal/core/domain"
)

// AccountEventInput is the DTO passed from the transport layer to AuditService.
type AccountEventInput struct {
	Type       string
	Email      string
	UserID     string
	Role       string
	RemoteIP   string
	OccurredAt time.Time
}

// AuditService records account events.
type AuditService interface {
	Process(ctx context.Context, event AccountEventInput) error
}

// AuditRepository persists account events.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AccountEvent) error
}

// EventPublisher hands account events to the audit pipeline without blocking.
type EventPublisher interface {
	Publish(event AccountEventInput)
}
