package ports

import (
	"context"

	"github.com/authuser/accounts/internal/core/domain"
)

// UserStore persists accounts and their role memberships.
type UserStore interface {
	// Create inserts user together with its membership in the role picked by
	// assign. The ordinal passed to assign and returned is the 1-based
	// position of this insert among all successful inserts, assigned
	// atomically by the backend, so exactly one caller ever sees 1. Either
	// both the user and its role are stored or neither is.
	// A taken email yields domain.IdentityErrors matching domain.ErrUserExists;
	// an unknown role yields domain.ErrRoleNotFound.
	Create(ctx context.Context, user *domain.User, assign domain.RoleAssigner) (ordinal int64, err error)

	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Count(ctx context.Context) (int64, error)
}

// RoleStore manages role records.
type RoleStore interface {
	Exists(ctx context.Context, name string) (bool, error)
	// Create returns domain.ErrRoleExists when name is already present.
	Create(ctx context.Context, name string) error
}
