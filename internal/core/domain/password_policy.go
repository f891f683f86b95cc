package domain

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// PasswordPolicy mirrors the usual identity defaults.
type PasswordPolicy struct {
	MinLength        int
	RequireDigit     bool
	RequireLowercase bool
	RequireUppercase bool
	RequireNonAlpha  bool
}

// DefaultPasswordPolicy returns the policy applied when none is configured.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:        6,
		RequireDigit:     true,
		RequireLowercase: true,
		RequireUppercase: true,
		RequireNonAlpha:  true,
	}
}

// Check returns every rule the password violates, in a stable order. Length
// is counted in characters, not bytes.
func (p PasswordPolicy) Check(password string) IdentityErrors {
	var (
		errs                          IdentityErrors
		digit, lower, upper, nonAlnum bool
	)
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case !unicode.IsLetter(r):
			nonAlnum = true
		}
	}

	if utf8.RuneCountInString(password) < p.MinLength {
		errs = append(errs, IdentityError{
			Code:        CodePasswordTooShort,
			Description: fmt.Sprintf("Passwords must be at least %d characters.", p.MinLength),
		})
	}
	if p.RequireNonAlpha && !nonAlnum {
		errs = append(errs, IdentityError{
			Code:        CodePasswordRequiresNonAlphanum,
			Description: "Passwords must have at least one non alphanumeric character.",
		})
	}
	if p.RequireDigit && !digit {
		errs = append(errs, IdentityError{
			Code:        CodePasswordRequiresDigit,
			Description: "Passwords must have at least one digit ('0'-'9').",
		})
	}
	if p.RequireLowercase && !lower {
		errs = append(errs, IdentityError{
			Code:        CodePasswordRequiresLower,
			Description: "Passwords must have at least one lowercase ('a'-'z').",
		})
	}
	if p.RequireUppercase && !upper {
		errs = append(errs, IdentityError{
			Code:        CodePasswordRequiresUpper,
			Description: "Passwords must have at least one uppercase ('A'-'Z').",
		})
	}
	return errs
}
