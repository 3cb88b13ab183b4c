package repositories

import (
	"context"
	"time"

	"github.com/novaminer/clicker-backend/internal/models"
)

// UserRepository defines the interface for user balance record operations.
// Points and PointsBalance must only change through ApplyAccrual and
// IncrementPoints, both of which are atomic at the storage layer.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByTelegramID(ctx context.Context, telegramID string) (*models.User, error)

	// ApplyAccrual atomically increments both points and pointsBalance by delta
	// and advances lastPointsUpdateTimestamp to now, but only if the stored
	// timestamp still equals lastSeen (optimistic concurrency precondition).
	// Returns the post-update record, or ErrConflict if the precondition failed.
	ApplyAccrual(ctx context.Context, telegramID string, lastSeen time.Time, delta float64, now time.Time) (*models.User, error)

	// IncrementPoints atomically adds delta to both points and pointsBalance
	// without touching lastPointsUpdateTimestamp. Used by the purchase credit
	// path, which is not ordered relative to accrual.
	IncrementPoints(ctx context.Context, telegramID string, delta float64) (*models.User, error)

	Count(ctx context.Context) (int64, error)
}

// TransactionRepository defines the interface for the mining plan transaction
// ledger. Transactions move from pending to exactly one terminal status.
type TransactionRepository interface {
	// Create stores a new pending transaction. Returns ErrPendingExists if the
	// backend enforces pending-exclusivity and the user already has one.
	Create(ctx context.Context, tx *models.MiningPlanTransaction) error
	FindByID(ctx context.Context, id string) (*models.MiningPlanTransaction, error)
	FindByTelegramID(ctx context.Context, telegramID string) ([]*models.MiningPlanTransaction, error)
	FindByStatus(ctx context.Context, status models.TransactionStatus) ([]*models.MiningPlanTransaction, error)

	// UpdateStatus transitions a pending transaction to the given terminal
	// status and stamps confirmedAt. The transition is conditional on the
	// current status being pending: ErrAlreadyProcessed is returned when the
	// transaction was already terminal, ErrNotFound when the id is unknown.
	UpdateStatus(ctx context.Context, id string, status models.TransactionStatus, confirmedAt time.Time) (*models.MiningPlanTransaction, error)
}
