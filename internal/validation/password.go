package validation

import (
	"unicode"

	"farmiq/internal/models"
)

const (
	passwordMinLen = 8
	passwordMaxLen = 127
)

// ValidatePassword enforces the signup password policy: length bounds plus
// at least one letter and one digit.
func ValidatePassword(password string) error {
	if len(password) < passwordMinLen {
		return models.NewValidationError("Password must be at least 8 characters")
	}
	if len(password) > passwordMaxLen {
		return models.NewValidationError("Password too long (max 127 characters)")
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return models.NewValidationError("Password must contain at least one letter and one digit")
	}
	return nil
}
