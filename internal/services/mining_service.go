package services

import (
	"context"
	"errors"
	"time"

	"github.com/novaminer/clicker-backend/internal/game"
	"github.com/novaminer/clicker-backend/internal/repositories"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure MiningServiceImpl implements MiningService
var _ MiningService = (*MiningServiceImpl)(nil)

// MiningServiceImpl implements the balance accrual engine. Accrual is gated by
// a fixed interval and applied with an optimistic lock on the user record's
// lastPointsUpdateTimestamp; conflicting writers retry from a fresh read.
type MiningServiceImpl struct {
	userRepo          repositories.UserRepository
	interval          time.Duration
	pointsPerInterval float64
	maxRetries        int
	backoff           func(attempt int)
}

// NewMiningService creates a new MiningServiceImpl. retryDelay is the base
// delay for exponential backoff between optimistic-lock retries.
func NewMiningService(userRepo repositories.UserRepository, interval time.Duration, pointsPerInterval float64, maxRetries int, retryDelay time.Duration) *MiningServiceImpl {
	return &MiningServiceImpl{
		userRepo:          userRepo,
		interval:          interval,
		pointsPerInterval: pointsPerInterval,
		maxRetries:        maxRetries,
		backoff: func(attempt int) {
			time.Sleep(retryDelay << uint(attempt))
		},
	}
}

// SetBackoff replaces the inter-retry delay function. Tests inject a no-op so
// retry paths run without sleeping.
func (s *MiningServiceImpl) SetBackoff(fn func(attempt int)) {
	s.backoff = fn
}

// Mine reads the user record, checks the cooldown, and conditionally applies
// the accrual delta.
func (s *MiningServiceImpl) Mine(ctx context.Context, telegramID string, now time.Time) (*MineResult, error) {
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		user, err := s.userRepo.FindByTelegramID(ctx, telegramID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}

		elapsed := now.Sub(user.LastPointsUpdate)
		if elapsed < s.interval {
			// Cooldown still running. Not an error: report the remaining wait
			// and the unchanged balance.
			return &MineResult{
				Applied:       false,
				PointsAdded:   0,
				Points:        user.Points,
				PointsBalance: user.PointsBalance,
				TimeRemaining: s.interval - elapsed,
				LevelIndex:    game.LevelIndex(user.Points),
			}, nil
		}

		updated, err := s.userRepo.ApplyAccrual(ctx, telegramID, user.LastPointsUpdate, s.pointsPerInterval, now)
		if err != nil {
			if errors.Is(err, repositories.ErrConflict) {
				// Another accrual or credit moved the timestamp between our
				// read and write. Back off and re-read; the loser of the race
				// typically lands in the cooldown branch next time.
				slog.Debug("accrual conflict, retrying", "telegramId", telegramID, "attempt", attempt+1)
				s.backoff(attempt)
				continue
			}
			return nil, err
		}

		return &MineResult{
			Applied:       true,
			PointsAdded:   s.pointsPerInterval,
			Points:        updated.Points,
			PointsBalance: updated.PointsBalance,
			LevelIndex:    game.LevelIndex(updated.Points),
		}, nil
	}

	slog.Warn("accrual retries exhausted", "telegramId", telegramID, "maxRetries", s.maxRetries)
	return nil, ErrConcurrencyExhausted
}
