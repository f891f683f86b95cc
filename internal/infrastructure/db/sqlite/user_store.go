package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/authuser/accounts/internal/core/domain"
)

// UserStore implements ports.UserStore on SQLite.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts the user and its role membership in one transaction. The
// AUTOINCREMENT rowid is never reused and rolls back with the transaction, so
// it doubles as the creation ordinal.
func (r *UserStore) Create(ctx context.Context, user *domain.User, assign domain.RoleAssigner) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("create user: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO users (id, email, normalized_email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.NormalizedEmail, user.PasswordHash, user.CreatedAt.Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.IdentityErrors{domain.DuplicateEmailError(user.Email)}
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	ordinal, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}

	role := assign(ordinal)
	var roleExists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM roles WHERE name = ?)`, role,
	).Scan(&roleExists); err != nil {
		return 0, fmt.Errorf("check role %s: %w", role, err)
	}
	if !roleExists {
		return 0, domain.ErrRoleNotFound
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO user_roles (user_id, role_name) VALUES (?, ?)`, user.ID, role,
	); err != nil {
		return 0, fmt.Errorf("assign role %s: %w", role, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("create user: commit: %w", err)
	}
	return ordinal, nil
}

func (r *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var (
		u         domain.User
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, normalized_email, password_hash, created_at FROM users WHERE normalized_email = ?`,
		domain.NormalizeEmail(email),
	).Scan(&u.ID, &u.Email, &u.NormalizedEmail, &u.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	u.CreatedAt = unixToTime(createdAt)

	rows, err := r.db.QueryContext(ctx, `SELECT role_name FROM user_roles WHERE user_id = ? ORDER BY role_name`, u.ID)
	if err != nil {
		return nil, fmt.Errorf("find user roles: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		u.Roles = append(u.Roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserStore) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
