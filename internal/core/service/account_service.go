package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/authuser/accounts/internal/core/domain"
	"github.com/authuser/accounts/internal/core/ports"
)

// AccountService implements registration, admin user creation and password
// verification on top of a UserStore.
type AccountService struct {
	users     ports.UserStore
	policy    domain.PasswordPolicy
	cost      int
	dummyHash []byte
	now       func() time.Time
	log       zerolog.Logger
}

// NewAccountService returns an AccountService hashing with the given bcrypt
// cost. Out-of-range costs fall back to bcrypt.DefaultCost.
func NewAccountService(users ports.UserStore, cost int, log zerolog.Logger) *AccountService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	// Compared against on unknown emails so both login failures cost the same.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	return &AccountService{
		users:     users,
		policy:    domain.DefaultPasswordPolicy(),
		cost:      cost,
		dummyHash: dummy,
		now:       func() time.Time { return time.Now().UTC() },
		log:       log,
	}
}

func (s *AccountService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	user, ordinal, err := s.create(ctx, email, password, domain.RoleForOrdinal)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("user_id", user.ID).
		Str("role", user.Roles[0]).
		Int64("ordinal", ordinal).
		Msg("user created a new account with password")
	return user, nil
}

func (s *AccountService) AddUser(ctx context.Context, email, password, role string) (*domain.User, error) {
	if !domain.IsFixedRole(role) {
		return nil, fmt.Errorf("add user: %w: %q", domain.ErrRoleNotFound, role)
	}

	user, _, err := s.create(ctx, email, password, domain.AssignRole(role))
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", role).Msg("user added by administrator")
	return user, nil
}

func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *AccountService) CountUsers(ctx context.Context) (int64, error) {
	return s.users.Count(ctx)
}

func (s *AccountService) RoleNames() []string {
	out := make([]string, len(domain.FixedRoles))
	copy(out, domain.FixedRoles)
	return out
}

// create validates and inserts a user along with the role assign picks for it.
func (s *AccountService) create(ctx context.Context, email, password string, assign domain.RoleAssigner) (*domain.User, int64, error) {
	email = strings.TrimSpace(email)

	var rejected domain.IdentityErrors
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		rejected = append(rejected, domain.IdentityError{
			Code:        domain.CodeInvalidEmail,
			Description: "Email '" + email + "' is invalid.",
		})
	} else if _, err := s.users.FindByEmail(ctx, email); err == nil {
		rejected = append(rejected, domain.DuplicateEmailError(email))
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, 0, fmt.Errorf("create user: lookup: %w", err)
	}
	rejected = append(rejected, s.policy.Check(password)...)
	if len(rejected) > 0 {
		return nil, 0, rejected
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, 0, fmt.Errorf("create user: hash password: %w", err)
	}

	user := &domain.User{
		ID:              uuid.NewString(),
		Email:           email,
		NormalizedEmail: domain.NormalizeEmail(email),
		PasswordHash:    string(hash),
		CreatedAt:       s.now(),
	}

	ordinal, err := s.users.Create(ctx, user, assign)
	if err != nil {
		var ie domain.IdentityErrors
		if errors.As(err, &ie) {
			return nil, 0, ie
		}
		return nil, 0, fmt.Errorf("create user: %w", err)
	}
	user.Roles = []string{assign(ordinal)}
	return user, ordinal, nil
}
