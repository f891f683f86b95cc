package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/authuser/accounts/internal/core/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), "accounts.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func newUser(email string) *domain.User {
	return &domain.User{
		ID:              email + "-id",
		Email:           email,
		NormalizedEmail: domain.NormalizeEmail(email),
		PasswordHash:    "hash",
		CreatedAt:       time.Now(),
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.db")
	for i := 0; i < 2; i++ {
		d, err := Open(path)
		if err != nil {
			t.Fatalf("open #%d: %v", i, err)
		}
		var n int
		if err := d.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&n); err != nil {
			t.Fatalf("count migrations: %v", err)
		}
		if n != 2 {
			t.Fatalf("expected 2 applied migrations, got %d", n)
		}
		_ = d.Close()
	}
}

func seedRoles(t *testing.T, d *sql.DB) {
	t.Helper()
	roles := NewRoleStore(d)
	for _, name := range domain.FixedRoles {
		if err := roles.Create(context.Background(), name); err != nil {
			t.Fatalf("create role %s: %v", name, err)
		}
	}
}

func TestUserStoreCreateAndFind(t *testing.T) {
	d := openTestDB(t)
	seedRoles(t, d)
	ctx := context.Background()
	users := NewUserStore(d)

	ord, err := users.Create(ctx, newUser("a@example.com"), domain.RoleForOrdinal)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ord != 1 {
		t.Fatalf("expected ordinal 1, got %d", ord)
	}

	got, err := users.FindByEmail(ctx, " A@Example.com ")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Email != "a@example.com" || !got.HasRole(domain.RoleAdmin) || len(got.Roles) != 1 {
		t.Fatalf("unexpected user: %+v", got)
	}

	if _, err := users.Create(ctx, newUser("b@example.com"), domain.RoleForOrdinal); err != nil {
		t.Fatalf("create second: %v", err)
	}
	second, err := users.FindByEmail(ctx, "b@example.com")
	if err != nil || len(second.Roles) != 1 || second.Roles[0] != domain.RoleNormal {
		t.Fatalf("expected second user normal, got %+v, %v", second, err)
	}

	n, err := users.Count(ctx)
	if err != nil || n != 2 {
		t.Fatalf("count = %d, %v", n, err)
	}
}

func TestUserStoreDuplicateEmail(t *testing.T) {
	d := openTestDB(t)
	seedRoles(t, d)
	ctx := context.Background()
	users := NewUserStore(d)

	if _, err := users.Create(ctx, newUser("dup@example.com"), domain.RoleForOrdinal); err != nil {
		t.Fatalf("create: %v", err)
	}
	u := newUser("DUP@example.com")
	u.ID = "other-id"
	_, err := users.Create(ctx, u, domain.RoleForOrdinal)
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserStoreFindMissing(t *testing.T) {
	d := openTestDB(t)
	if _, err := NewUserStore(d).FindByEmail(context.Background(), "none@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserStoreUnknownRoleRollsBack(t *testing.T) {
	d := openTestDB(t)
	seedRoles(t, d)
	ctx := context.Background()
	users := NewUserStore(d)

	if _, err := users.Create(ctx, newUser("u@example.com"), domain.AssignRole("ghost")); !errors.Is(err, domain.ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
	if n, err := users.Count(ctx); err != nil || n != 0 {
		t.Fatalf("failed create left users behind: count = %d, %v", n, err)
	}

	// The rolled-back insert must not consume the first ordinal.
	ord, err := users.Create(ctx, newUser("u@example.com"), domain.RoleForOrdinal)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if ord != 1 {
		t.Fatalf("expected ordinal 1 after rollback, got %d", ord)
	}
	got, err := users.FindByEmail(ctx, "u@example.com")
	if err != nil || !got.HasRole(domain.RoleAdmin) {
		t.Fatalf("expected admin after retry, got %+v, %v", got, err)
	}
}

func TestUserStoreConcurrentOrdinalsAreUnique(t *testing.T) {
	d := openTestDB(t)
	seedRoles(t, d)
	users := NewUserStore(d)

	const n = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ords []int64
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ord, err := users.Create(context.Background(), newUser(fmt.Sprintf("u%d@example.com", i)), domain.RoleForOrdinal)
			if err != nil {
				t.Errorf("create %d: %v", i, err)
				return
			}
			mu.Lock()
			ords = append(ords, ord)
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	sort.Slice(ords, func(i, j int) bool { return ords[i] < ords[j] })
	if len(ords) != n {
		t.Fatalf("expected %d ordinals, got %d", n, len(ords))
	}
	for i, o := range ords {
		if o != int64(i+1) {
			t.Fatalf("ordinals not 1..%d: %v", n, ords)
		}
	}

	admins := 0
	for i := 0; i < n; i++ {
		u, err := users.FindByEmail(context.Background(), fmt.Sprintf("u%d@example.com", i))
		if err != nil {
			t.Fatalf("find %d: %v", i, err)
		}
		if u.HasRole(domain.RoleAdmin) {
			admins++
		}
	}
	if admins != 1 {
		t.Fatalf("expected exactly one admin, got %d", admins)
	}
}

func TestRoleStore(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	roles := NewRoleStore(d)

	ok, err := roles.Exists(ctx, domain.RoleAdmin)
	if err != nil || ok {
		t.Fatalf("exists before create = %v, %v", ok, err)
	}
	if err := roles.Create(ctx, domain.RoleAdmin); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := roles.Create(ctx, domain.RoleAdmin); !errors.Is(err, domain.ErrRoleExists) {
		t.Fatalf("expected ErrRoleExists, got %v", err)
	}
	ok, err = roles.Exists(ctx, domain.RoleAdmin)
	if err != nil || !ok {
		t.Fatalf("exists after create = %v, %v", ok, err)
	}
}

func TestAuditRepository(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	repo := NewAuditRepository(d)

	for _, typ := range []domain.AccountEventType{domain.EventRegistered, domain.EventLoginSucceeded} {
		if err := repo.InsertEvent(ctx, &domain.AccountEvent{Type: typ, Email: "a@example.com", OccurredAt: time.Now()}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	got, err := repo.EventsFor(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(got) != 2 || got[0] != domain.EventRegistered || got[1] != domain.EventLoginSucceeded {
		t.Fatalf("unexpected events: %v", got)
	}
}
