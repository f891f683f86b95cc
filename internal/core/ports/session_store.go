package ports

import (
	"context"
	"time"

	"github.com/authuser/accounts/internal/core/domain"
)

// SessionStore keeps server-side session records.
type SessionStore interface {
	Save(ctx context.Context, s *domain.Session, ttl time.Duration) error
	// Get returns domain.ErrSessionNotFound for missing or expired records.
	Get(ctx context.Context, id string) (*domain.Session, error)
	// Delete is idempotent.
	Delete(ctx context.Context, id string) error
}
