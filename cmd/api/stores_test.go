package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/authuser/accounts/internal/core/domain"
	"github.com/authuser/accounts/internal/infrastructure/config"
)

func TestOpenStores_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		StoreDriver: config.DriverSQLite,
		SQLite:      config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "accounts.db")},
	}

	st, err := openStores(ctx, cfg)
	if err != nil {
		t.Fatalf("openStores: %v", err)
	}
	defer func() { _ = st.close(ctx) }()

	if err := st.ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if err := st.roles.Create(ctx, domain.RoleAdmin); err != nil {
		t.Fatalf("create role: %v", err)
	}
	u := &domain.User{
		ID:              "u1",
		Email:           "alice@example.com",
		NormalizedEmail: domain.NormalizeEmail("alice@example.com"),
		PasswordHash:    "hash",
		CreatedAt:       time.Now(),
	}
	if ord, err := st.users.Create(ctx, u, domain.RoleForOrdinal); err != nil || ord != 1 {
		t.Fatalf("create user = %d, %v", ord, err)
	}
}

func TestOpenStores_UnknownDriver(t *testing.T) {
	if _, err := openStores(context.Background(), &config.Config{StoreDriver: "postgres"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
