// AngelaMos | 2026
// validation.go

package core

import (
	"unicode"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator with the custom "password" rule
// registered: at least one uppercase letter, one lowercase letter, one
// digit and one special character.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	//nolint:errcheck // registration only fails for empty tag names
	_ = v.RegisterValidation("password", validatePasswordStrength)

	return v
}

func validatePasswordStrength(fl validator.FieldLevel) bool {
	var hasUpper, hasLower, hasDigit, hasSpecial bool

	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	return hasUpper && hasLower && hasDigit && hasSpecial
}
