package domain

import "time"

// AccountEventType names an entry in the account audit trail.
type AccountEventType string

const (
	EventRegistered     AccountEventType = "registered"
	EventUserAdded      AccountEventType = "user_added"
	EventLoginSucceeded AccountEventType = "login_succeeded"
	EventLoginFailed    AccountEventType = "login_failed"
	EventLoggedOut      AccountEventType = "logged_out"
)

// AccountEvent is a single audit record.
type AccountEvent struct {
	Type       AccountEventType
	Email      string
	UserID     string
	Role       string
	RemoteIP   string
	OccurredAt time.Time
}
