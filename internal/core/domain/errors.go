package domain

import (
	"errors"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrRoleNotFound       = errors.New("role not found")
	ErrRoleExists         = errors.New("role already exists")
	ErrSessionNotFound    = errors.New("session not found")
	ErrForbidden          = errors.New("access forbidden")
)

// IdentityError describes one reason a user could not be created.
type IdentityError struct {
	Code        string
	Description string
}

// IdentityErrors aggregates every reason a create call was rejected. Callers
// surface each Description to the user.
type IdentityErrors []IdentityError

func (e IdentityErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, ie := range e {
		parts = append(parts, ie.Description)
	}
	return strings.Join(parts, " ")
}

// Is lets errors.Is(err, ErrUserExists) match a duplicate-email rejection.
func (e IdentityErrors) Is(target error) bool {
	if target != ErrUserExists {
		return false
	}
	for _, ie := range e {
		if ie.Code == CodeDuplicateEmail {
			return true
		}
	}
	return false
}

// Descriptions returns the user-facing message of each error.
func (e IdentityErrors) Descriptions() []string {
	out := make([]string, 0, len(e))
	for _, ie := range e {
		out = append(out, ie.Description)
	}
	return out
}

const (
	CodeDuplicateEmail              = "DuplicateEmail"
	CodeInvalidEmail                = "InvalidEmail"
	CodePasswordTooShort            = "PasswordTooShort"
	CodePasswordRequiresDigit       = "PasswordRequiresDigit"
	CodePasswordRequiresLower       = "PasswordRequiresLower"
	CodePasswordRequiresUpper       = "PasswordRequiresUpper"
	CodePasswordRequiresNonAlphanum = "PasswordRequiresNonAlphanumeric"
)

// DuplicateEmailError builds the rejection returned when email is taken.
func DuplicateEmailError(email string) IdentityError {
	return IdentityError{
		Code:        CodeDuplicateEmail,
		Description: "User name '" + email + "' is already taken.",
	}
}
