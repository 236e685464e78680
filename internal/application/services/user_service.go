package services

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/goaltracker/core/internal/domain/entities"
	"github.com/goaltracker/core/internal/infrastructure/logger"
	"github.com/goaltracker/core/internal/ports"
)

// UserService handles account settings operations
type UserService struct {
	userRepo ports.UserRepository
	logger   *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo ports.UserRepository, logger *logger.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// ChangePassword verifies the current password and replaces it
func (s *UserService) ChangePassword(ctx context.Context, userID int, req ports.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		s.logger.Warn("Password change with wrong current password", "user_id", userID)
		return entities.ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, string(hashed)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.LogUserAction(userID, "change_password", nil)
	return nil
}

// UpdateGrokKey stores or clears the user's AI API key. An empty key
// clears the stored value.
func (s *UserService) UpdateGrokKey(ctx context.Context, userID int, req ports.UpdateGrokKeyRequest) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	var key *string
	if req.GrokAPIKey != "" {
		k := req.GrokAPIKey
		key = &k
	}

	if err := s.userRepo.UpdateGrokKey(ctx, userID, key); err != nil {
		return fmt.Errorf("failed to update api key: %w", err)
	}

	s.logger.LogUserAction(userID, "update_grok_key", map[string]interface{}{
		"cleared": key == nil,
	})
	return nil
}
