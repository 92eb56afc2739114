package validation

import (
	"errors"
	"strings"
)

const (
	MinPasswordLength = 12
	// bcrypt ignores everything after 72 bytes
	MaxPasswordBytes = 72
)

var weakPasswordPatterns = []string{
	"password", "123456", "qwerty", "letmein", "admin",
	"welcome", "habit", "streak", "iloveyou", "abc123",
}

func ValidatePassword(password string) error {
	switch {
	case len(password) < MinPasswordLength:
		return errors.New("password must be at least 12 characters")
	case len(password) > MaxPasswordBytes:
		return errors.New("password must not exceed 72 bytes")
	}

	lower := strings.ToLower(password)
	for _, pattern := range weakPasswordPatterns {
		if strings.Contains(lower, pattern) {
			return errors.New("password contains a common pattern, please choose a stronger one")
		}
	}

	return nil
}
