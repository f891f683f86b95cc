package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/authuser/accounts/internal/core/domain"
)

func testUser() *domain.User {
	return &domain.User{ID: "u-1", Email: "alice@example.com", Roles: []string{domain.RoleAdmin}}
}

func TestSessionService_SignInAndResolve(t *testing.T) {
	store := newStubSessionStore()
	svc := NewSessionService(store, "secret", time.Hour, 24*time.Hour)

	token, sess, err := svc.SignIn(context.Background(), testUser(), false)
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if token == "" || sess.ID == "" {
		t.Fatalf("expected token and session id")
	}
	if store.ttls[sess.ID] != time.Hour {
		t.Fatalf("expected non-persistent ttl 1h, got %v", store.ttls[sess.ID])
	}

	got, err := svc.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.UserID != "u-1" || !got.HasAnyRole(domain.RoleAdmin) {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestSessionService_PersistentUsesRememberTTL(t *testing.T) {
	store := newStubSessionStore()
	svc := NewSessionService(store, "secret", time.Hour, 24*time.Hour)

	_, sess, err := svc.SignIn(context.Background(), testUser(), true)
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if !sess.Persistent || store.ttls[sess.ID] != 24*time.Hour {
		t.Fatalf("expected persistent session with 24h ttl, got %+v ttl=%v", sess, store.ttls[sess.ID])
	}
}

func TestSessionService_SignOutRevokesToken(t *testing.T) {
	store := newStubSessionStore()
	svc := NewSessionService(store, "secret", time.Hour, 0)

	token, sess, err := svc.SignIn(context.Background(), testUser(), false)
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if err := svc.SignOut(context.Background(), sess.ID); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if _, err := svc.Resolve(context.Background(), token); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after sign out, got %v", err)
	}
	if err := svc.SignOut(context.Background(), sess.ID); err != nil {
		t.Fatalf("second sign out must be a no-op: %v", err)
	}
}

func TestSessionService_RejectsForgedTokens(t *testing.T) {
	store := newStubSessionStore()
	svc := NewSessionService(store, "secret", time.Hour, 0)
	_, sess, err := svc.SignIn(context.Background(), testUser(), false)
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}

	wrongKey, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        sess.ID,
		Subject:   "u-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("other-secret"))

	otherSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        sess.ID,
		Subject:   "u-2",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))

	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:      sess.ID,
		Subject: "u-1",
	}).SignedString([]byte("secret"))

	for name, token := range map[string]string{
		"empty":         "",
		"garbage":       "not-a-token",
		"wrong key":     wrongKey,
		"other subject": otherSubject,
		"no expiry":     noExpiry,
	} {
		if _, err := svc.Resolve(context.Background(), token); !errors.Is(err, domain.ErrSessionNotFound) {
			t.Fatalf("%s: expected ErrSessionNotFound, got %v", name, err)
		}
	}
}

func TestSessionService_ExpiredToken(t *testing.T) {
	store := newStubSessionStore()
	svc := NewSessionService(store, "secret", time.Minute, 0)
	token, _, err := svc.SignIn(context.Background(), testUser(), false)
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}

	svc.now = func() time.Time { return time.Now().UTC().Add(2 * time.Minute) }
	if _, err := svc.Resolve(context.Background(), token); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

func TestSessionService_SaveFailure(t *testing.T) {
	store := newStubSessionStore()
	store.saveErr = errStoreDown
	svc := NewSessionService(store, "secret", time.Hour, 0)

	if _, _, err := svc.SignIn(context.Background(), testUser(), false); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
}
