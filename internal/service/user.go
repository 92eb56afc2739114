package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/templui/habitkit/internal/model"
	"github.com/templui/habitkit/internal/repository"
)

var (
	ErrCannotDeleteSelf = errors.New("administrators cannot delete their own account")
)

type UserService struct {
	userRepository repository.UserRepository
	emailService   *EmailService
}

func NewUserService(userRepository repository.UserRepository, emailService *EmailService) *UserService {
	return &UserService{
		userRepository: userRepository,
		emailService:   emailService,
	}
}

func (s *UserService) ByID(id string) (*model.User, error) {
	return s.userRepository.ByID(id)
}

func (s *UserService) Users(identity *model.Identity) ([]*model.User, error) {
	err := Authorize(identity, nil, true)
	if err != nil {
		return nil, err
	}
	return s.userRepository.Users()
}

// Delete removes a user with all their habits. Administrators only.
func (s *UserService) Delete(identity *model.Identity, userID string) error {
	err := Authorize(identity, nil, true)
	if err != nil {
		return err
	}

	if identity.ID == userID {
		return ErrCannotDeleteSelf
	}

	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return err
	}

	err = s.userRepository.Delete(user.ID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	slog.Info("user deleted by administrator", "user_id", user.ID, "admin_id", identity.ID)

	err = s.emailService.SendAccountDeletedEmail(user.Email)
	if err != nil {
		slog.Error("failed to send account deleted email", "error", err, "user_id", user.ID)
	}

	return nil
}

// SetAdmin grants or revokes the administrator flag. Used by the ops CLI,
// which runs with operator privileges and has no request identity.
func (s *UserService) SetAdmin(email string, isAdmin bool) (*model.User, error) {
	user, err := s.userRepository.ByEmail(strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return nil, err
	}

	err = s.userRepository.SetAdmin(user.ID, isAdmin)
	if err != nil {
		return nil, err
	}

	user.IsAdmin = isAdmin
	return user, nil
}
