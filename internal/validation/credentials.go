// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"unicode/utf8"
)

const (
	MinUsernameLen = 4
	MaxUsernameLen = 30
	MinPasswordLen = 8
	// bcrypt ignores everything past 72 bytes; reject instead of truncating silently.
	MaxPasswordBytes = 72
)

// ValidateUsername checks the username length bounds. Callers trim first.
func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < MinUsernameLen {
		return fmt.Errorf("username must be at least %d characters long", MinUsernameLen)
	}
	if n > MaxUsernameLen {
		return fmt.Errorf("username can't be longer than %d characters", MaxUsernameLen)
	}
	return nil
}

// ValidatePassword checks the password length bounds.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("password must not exceed %d bytes", MaxPasswordBytes)
	}
	return nil
}
