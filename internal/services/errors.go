package services

import (
	"errors"
	"fmt"

	"github.com/novaminer/clicker-backend/internal/models"
)

var (
	// ErrUserNotFound is returned when no balance record exists for the user.
	ErrUserNotFound = errors.New("user not found")

	// ErrTransactionNotFound is returned when a transaction id is unknown.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrConcurrencyExhausted is returned when the accrual optimistic-lock
	// retry bound is exhausted. Safe for the client to retry: the operation
	// simply re-evaluates elapsed time.
	ErrConcurrencyExhausted = errors.New("max retries reached for optimistic locking")

	// ErrPendingTransaction is returned when the user already has a pending
	// purchase awaiting confirmation.
	ErrPendingTransaction = errors.New("a pending transaction already exists for this user")

	// ErrInvalidPlanAmount is returned when the plan amount is not a valid tier.
	ErrInvalidPlanAmount = errors.New("invalid plan amount")

	// ErrInvalidAction is returned when a confirmation action is neither
	// confirm nor reject.
	ErrInvalidAction = errors.New("action must be 'confirm' or 'reject'")
)

// AlreadyProcessedError indicates a confirmation attempt on a transaction that
// already reached a terminal state. Carries the current status so the caller
// knows not to retry.
type AlreadyProcessedError struct {
	Status models.TransactionStatus
}

func (e *AlreadyProcessedError) Error() string {
	return fmt.Sprintf("transaction already %s", e.Status)
}
