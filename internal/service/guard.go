package service

import (
	"errors"

	"github.com/templui/habitkit/internal/model"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrUnauthorized    = errors.New("not allowed to access this resource")
)

// Authorize checks whether identity may act on habit. Administrators always
// pass. With requireAdmin set only administrators pass and habit may be nil;
// otherwise the identity must own the habit.
func Authorize(identity *model.Identity, habit *model.Habit, requireAdmin bool) error {
	if identity == nil {
		return ErrUnauthenticated
	}

	if identity.IsAdmin {
		return nil
	}

	if requireAdmin {
		return ErrUnauthorized
	}

	if habit == nil || habit.OwnerID != identity.ID {
		return ErrUnauthorized
	}

	return nil
}
