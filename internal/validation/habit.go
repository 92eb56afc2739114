package validation

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	MaxHabitNameLength   = 100
	MaxDescriptionLength = 1000
)

// ValidateHabitName validates a habit name
func ValidateHabitName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return errors.New("name is required")
	}

	if utf8.RuneCountInString(trimmed) > MaxHabitNameLength {
		return errors.New("name is too long (max 100 characters)")
	}

	return nil
}

func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return errors.New("description is too long (max 1000 characters)")
	}
	return nil
}
