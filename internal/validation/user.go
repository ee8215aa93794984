package validation

import (
	"regexp"

	"farmiq/internal/models"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex    = regexp.MustCompile(`^[0-9+\-\s]{7,15}$`)
)

// ValidateUsername checks the username format used across signup and profile
// updates.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return models.NewValidationError("Username must be 3-30 characters: letters, numbers and underscores only")
	}
	return nil
}

func ValidateEmail(email string) error {
	if len(email) > 254 || !emailRegex.MatchString(email) {
		return models.NewValidationError("Invalid email address")
	}
	return nil
}

func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return models.NewValidationError("Invalid phone number")
	}
	return nil
}
