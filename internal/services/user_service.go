package services

import (
	"context"
	"errors"
	"time"

	"github.com/novaminer/clicker-backend/internal/models"
	"github.com/novaminer/clicker-backend/internal/repositories"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure UserServiceImpl implements UserService
var _ UserService = (*UserServiceImpl)(nil)

// UserServiceImpl handles user bootstrap: every other operation requires an
// existing balance record, so first contact creates one.
type UserServiceImpl struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserServiceImpl
func NewUserService(userRepo repositories.UserRepository) *UserServiceImpl {
	return &UserServiceImpl{userRepo: userRepo}
}

// GetOrCreateUser returns the user's balance record, creating it with zeroed
// points and lastPointsUpdateTimestamp=now on first contact.
func (s *UserServiceImpl) GetOrCreateUser(ctx context.Context, telegramID, name string, now time.Time) (*models.User, error) {
	user, err := s.userRepo.FindByTelegramID(ctx, telegramID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	user = &models.User{
		TelegramID:       telegramID,
		Name:             name,
		Points:           0,
		PointsBalance:    0,
		LastPointsUpdate: now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Two first-contact requests can race; the second insert fails on the
		// unique telegramId index. Treat the existing record as the result.
		if existing, findErr := s.userRepo.FindByTelegramID(ctx, telegramID); findErr == nil {
			return existing, nil
		}
		return nil, err
	}

	slog.Info("user created", "telegramId", telegramID, "name", name)
	return user, nil
}
