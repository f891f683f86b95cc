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

const (
	defaultBootstrapAttempts = 5
	defaultBootstrapBackoff  = 500 * time.Millisecond
)

// Bootstrapper prepares the identity stores before the server accepts traffic.
type Bootstrapper struct {
	roles    ports.RoleStore
	accounts ports.AccountService
	attempts int
	backoff  time.Duration
	log      zerolog.Logger
}

func NewBootstrapper(roles ports.RoleStore, accounts ports.AccountService, attempts int, backoff time.Duration, log zerolog.Logger) *Bootstrapper {
	if attempts <= 0 {
		attempts = defaultBootstrapAttempts
	}
	if backoff <= 0 {
		backoff = defaultBootstrapBackoff
	}
	return &Bootstrapper{roles: roles, accounts: accounts, attempts: attempts, backoff: backoff, log: log}
}

// EnsureRoles creates every fixed role that is missing. Store failures are
// retried with exponential backoff; the last error is returned once attempts
// run out.
func (b *Bootstrapper) EnsureRoles(ctx context.Context) error {
	var err error
	delay := b.backoff
	for attempt := 1; attempt <= b.attempts; attempt++ {
		if err = b.ensureRolesOnce(ctx); err == nil {
			b.log.Info().Strs("roles", domain.FixedRoles).Msg("roles ensured")
			return nil
		}

		b.log.Warn().Err(err).Int("attempt", attempt).Int("max_attempts", b.attempts).Msg("ensure roles failed")
		if attempt == b.attempts {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("ensure roles: %w", ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("ensure roles after %d attempts: %w", b.attempts, err)
}

func (b *Bootstrapper) ensureRolesOnce(ctx context.Context) error {
	for _, name := range domain.FixedRoles {
		exists, err := b.roles.Exists(ctx, name)
		if err != nil {
			return fmt.Errorf("role %s exists: %w", name, err)
		}
		if exists {
			continue
		}
		// Another instance may win the race between Exists and Create.
		if err := b.roles.Create(ctx, name); err != nil && !errors.Is(err, domain.ErrRoleExists) {
			return fmt.Errorf("create role %s: %w", name, err)
		}
		b.log.Info().Str("role", name).Msg("role created")
	}
	return nil
}

// EnsureAdmin creates an administrator account when email is set and the
// store holds no users yet. It reports whether an account was created.
func (b *Bootstrapper) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	if email == "" {
		return false, nil
	}

	n, err := b.accounts.CountUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("ensure admin: count users: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	if _, err := b.accounts.AddUser(ctx, email, password, domain.RoleAdmin); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return false, nil
		}
		return false, fmt.Errorf("ensure admin: %w", err)
	}
	b.log.Info().Str("email", email).Msg("bootstrap administrator created")
	return true, nil
}
