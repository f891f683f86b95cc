package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/authuser/accounts/internal/core/domain"
	"github.com/authuser/accounts/internal/core/ports"
)

// SessionService issues signed session cookies backed by server-side records.
// The cookie only proves which record to load; revoking the record revokes the
// cookie.
type SessionService struct {
	store       ports.SessionStore
	secret      []byte
	ttl         time.Duration
	rememberTTL time.Duration
	now         func() time.Time
}

func NewSessionService(store ports.SessionStore, secret string, ttl, rememberTTL time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	if rememberTTL <= 0 {
		rememberTTL = 14 * 24 * time.Hour
	}
	return &SessionService{
		store:       store,
		secret:      []byte(secret),
		ttl:         ttl,
		rememberTTL: rememberTTL,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *SessionService) SignIn(ctx context.Context, user *domain.User, persistent bool) (string, *domain.Session, error) {
	ttl := s.ttl
	if persistent {
		ttl = s.rememberTTL
	}

	now := s.now()
	sess := &domain.Session{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		Email:      user.Email,
		Roles:      append([]string(nil), user.Roles...),
		Persistent: persistent,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}
	if err := s.store.Save(ctx, sess, ttl); err != nil {
		return "", nil, fmt.Errorf("sign in: save session: %w", err)
	}

	claims := jwt.RegisteredClaims{
		ID:        sess.ID,
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		_ = s.store.Delete(ctx, sess.ID)
		return "", nil, fmt.Errorf("sign in: sign token: %w", err)
	}
	return token, sess, nil
}

func (s *SessionService) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrSessionNotFound
	}

	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid || claims.ID == "" {
		return nil, domain.ErrSessionNotFound
	}

	sess, err := s.store.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if sess.UserID != claims.Subject || sess.Expired(s.now()) {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

func (s *SessionService) SignOut(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}
