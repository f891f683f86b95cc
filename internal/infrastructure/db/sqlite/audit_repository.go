package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/authuser/accounts/internal/core/domain"
)

// AuditRepository implements ports.AuditRepository on SQLite.
type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.AccountEvent) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO account_events (type, email, user_id, role, remote_ip, occurred_at, recorded_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(event.Type), event.Email, event.UserID, event.Role, event.RemoteIP,
		event.OccurredAt.Unix(), time.Now().Unix(),
	)
	return err
}

// EventsFor returns the recorded event types for email, oldest first.
func (r *AuditRepository) EventsFor(ctx context.Context, email string) ([]domain.AccountEventType, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT type FROM account_events WHERE email = ? ORDER BY id`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.AccountEventType
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, domain.AccountEventType(t))
	}
	return out, rows.Err()
}
