package ports

import (
	"context"

	"github.com/authuser/accounts/internal/core/domain"
)

// AccountService is what the account controller needs from the core.
type AccountService interface {
	// Register creates a self-registered account. The first account ever
	// created becomes admin, every later one normal.
	Register(ctx context.Context, email, password string) (*domain.User, error)
	// AddUser creates an account with an explicitly chosen role.
	AddUser(ctx context.Context, email, password, role string) (*domain.User, error)
	// Authenticate never reveals whether the email exists: both failure
	// modes return domain.ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	CountUsers(ctx context.Context) (int64, error)
	RoleNames() []string
}

// SessionService establishes and tears down authenticated sessions.
type SessionService interface {
	SignIn(ctx context.Context, user *domain.User, persistent bool) (token string, s *domain.Session, err error)
	Resolve(ctx context.Context, token string) (*domain.Session, error)
	SignOut(ctx context.Context, sessionID string) error
}
