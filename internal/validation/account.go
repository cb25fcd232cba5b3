// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Column limits shared with the GORM models.
const (
	MaxUsernameLength = 50
	MaxEmailLength    = 100
	MaxRoleLength     = 50
	MaxPasswordLength = 72 // bcrypt ignores anything longer
	MaxTitleLength    = 255
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateUsername checks that a username is present and fits its column.
func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("username is required")
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return fmt.Errorf("username must not exceed %d characters", MaxUsernameLength)
	}
	if strings.TrimSpace(username) != username {
		return fmt.Errorf("username cannot start or end with whitespace")
	}
	return nil
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > MaxEmailLength {
		return fmt.Errorf("email must not exceed %d characters", MaxEmailLength)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePassword only requires a non-empty password that bcrypt can hash.
// There is no strength policy.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("password must not exceed %d bytes", MaxPasswordLength)
	}
	return nil
}

// ValidateRole accepts any free-text label that fits its column.
func ValidateRole(role string) error {
	if strings.TrimSpace(role) == "" {
		return fmt.Errorf("role is required")
	}
	if utf8.RuneCountInString(role) > MaxRoleLength {
		return fmt.Errorf("role must not exceed %d characters", MaxRoleLength)
	}
	return nil
}
