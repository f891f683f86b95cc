package domain

import (
	"strings"
	"time"
)

// User models an account. Email doubles as the user name.
type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	NormalizedEmail string    `json:"-"`
	PasswordHash    string    `json:"-"`
	Roles           []string  `json:"roles"`
	CreatedAt       time.Time `json:"created_at"`
}

// HasRole reports whether the user is a member of role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// NormalizeEmail returns the lookup key used for uniqueness checks.
func NormalizeEmail(email string) string {
	return strings.ToUpper(strings.TrimSpace(email))
}
