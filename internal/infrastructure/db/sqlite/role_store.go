package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/authuser/accounts/internal/core/domain"
)

// RoleStore implements ports.RoleStore on SQLite.
type RoleStore struct {
	db *sql.DB
}

func NewRoleStore(db *sql.DB) *RoleStore {
	return &RoleStore{db: db}
}

func (r *RoleStore) Exists(ctx context.Context, name string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var ok bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM roles WHERE name = ?)`, name).Scan(&ok); err != nil {
		return false, fmt.Errorf("role exists: %w", err)
	}
	return ok, nil
}

func (r *RoleStore) Create(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `INSERT INTO roles (name, created_at) VALUES (?, ?)`, name, time.Now().Unix())
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrRoleExists
		}
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}
