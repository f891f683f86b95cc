package handler

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationErrors maps a form field name to its message.
type ValidationErrors map[string]string

func (ve ValidationErrors) Error() string {
	fields := make([]string, 0, len(ve))
	for f := range ve {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, ve[f])
	}
	return strings.Join(msgs, "; ")
}

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{v: validator.New()}
}

// Validate satisfies the echo.Validator interface. Field failures come back as
// ValidationErrors keyed by the struct field name, which is also the form name.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			out := make(ValidationErrors, len(ve))
			for _, fe := range ve {
				if _, seen := out[fe.Field()]; !seen {
					out[fe.Field()] = fieldError(fe)
				}
			}
			return out
		}
		return err
	}
	return nil
}

var displayNames = map[string]string{
	"ConfirmPassword": "Confirm password",
	"SelectedRole":    "Role",
	"RememberMe":      "Remember me?",
}

func displayName(field string) string {
	if n, ok := displayNames[field]; ok {
		return n
	}
	return field
}

// fieldError converts a single FieldError into the message shown next to the field.
func fieldError(fe validator.FieldError) string {
	field := displayName(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s field is not a valid e-mail address.", field)
	case "min", "max":
		return fmt.Sprintf("The %s must be at least 6 and at max 100 characters long.", field)
	case "eqfield":
		return "The password and confirmation password do not match."
	case "oneof":
		return fmt.Sprintf("The %s field must be one of: %s.", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}
