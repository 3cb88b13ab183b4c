package services

import (
	"context"
	"time"

	"github.com/novaminer/clicker-backend/internal/models"
)

// MiningService defines the interface for the balance accrual engine
type MiningService interface {
	// Mine attempts a passive accrual for the user at the given instant.
	// Returns a cooldown result (Applied=false) when the accrual interval has
	// not elapsed, ErrUserNotFound when the user is unknown, and
	// ErrConcurrencyExhausted when the optimistic-lock retry bound is spent.
	Mine(ctx context.Context, telegramID string, now time.Time) (*MineResult, error)
}

// PurchaseService defines the interface for the transaction ledger and the
// purchase confirmation workflow
type PurchaseService interface {
	CreatePurchase(ctx context.Context, telegramID, userName string, planAmount float64, transactionHash string) (*models.MiningPlanTransaction, error)
	Confirm(ctx context.Context, transactionID string, action string) (*ConfirmResult, error)
	GetTransactionsByUser(ctx context.Context, telegramID string) ([]*models.MiningPlanTransaction, error)
	GetPendingTransactions(ctx context.Context) ([]*models.MiningPlanTransaction, error)
}

// UserService defines the interface for user bootstrap operations
type UserService interface {
	GetOrCreateUser(ctx context.Context, telegramID, name string, now time.Time) (*models.User, error)
}

// AuthService defines the interface for admin authentication
type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
}

// MineResult is the outcome of an accrual attempt
type MineResult struct {
	Applied       bool
	PointsAdded   float64
	Points        float64
	PointsBalance float64
	TimeRemaining time.Duration
	LevelIndex    int
}

// ConfirmResult is the outcome of a confirmation workflow run
type ConfirmResult struct {
	TransactionID  string
	Status         models.TransactionStatus
	CreditedPoints float64
	Message        string
}

// ConfirmAction values accepted by PurchaseService.Confirm
const (
	ActionConfirm = "confirm"
	ActionReject  = "reject"
)
