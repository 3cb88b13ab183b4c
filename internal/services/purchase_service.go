package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/novaminer/clicker-backend/internal/models"
	"github.com/novaminer/clicker-backend/internal/repositories"
	"github.com/novaminer/clicker-backend/pkg/telegram"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure PurchaseServiceImpl implements PurchaseService
var _ PurchaseService = (*PurchaseServiceImpl)(nil)

// PurchaseServiceImpl implements the mining plan transaction ledger and the
// admin confirmation workflow.
type PurchaseServiceImpl struct {
	txRepo         repositories.TransactionRepository
	userRepo       repositories.UserRepository
	notifier       telegram.Notifier
	adminChatID    string
	depositAddress string
}

// NewPurchaseService creates a new PurchaseServiceImpl
func NewPurchaseService(txRepo repositories.TransactionRepository, userRepo repositories.UserRepository, notifier telegram.Notifier, adminChatID, depositAddress string) *PurchaseServiceImpl {
	return &PurchaseServiceImpl{
		txRepo:         txRepo,
		userRepo:       userRepo,
		notifier:       notifier,
		adminChatID:    adminChatID,
		depositAddress: depositAddress,
	}
}

// CreatePurchase validates the plan, enforces pending-exclusivity, stores a
// pending transaction and notifies admin and purchaser.
func (s *PurchaseServiceImpl) CreatePurchase(ctx context.Context, telegramID, userName string, planAmount float64, transactionHash string) (*models.MiningPlanTransaction, error) {
	if !models.IsValidPlanAmount(planAmount) {
		return nil, ErrInvalidPlanAmount
	}

	existing, err := s.txRepo.FindByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing transactions: %w", err)
	}
	for _, tx := range existing {
		if tx.Status == models.StatusPending {
			return nil, ErrPendingTransaction
		}
	}

	tx := &models.MiningPlanTransaction{
		ID:              newTransactionID(),
		TelegramID:      telegramID,
		UserName:        userName,
		PlanAmount:      planAmount,
		PointsToReceive: models.PointsForPlan(planAmount),
		TransactionHash: transactionHash,
		Status:          models.StatusPending,
		CreatedAt:       time.Now(),
	}

	if err := s.txRepo.Create(ctx, tx); err != nil {
		// The storage layer closes the check-then-create race; map its
		// uniqueness violation onto the same client error.
		if errors.Is(err, repositories.ErrPendingExists) {
			return nil, ErrPendingTransaction
		}
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.notify(s.adminChatID, s.adminPurchaseMessage(tx))
	s.notify(telegramID, s.depositInstructionsMessage(tx))

	slog.Info("mining plan purchase created",
		"transactionId", tx.ID, "telegramId", telegramID, "planAmount", planAmount, "pointsToReceive", tx.PointsToReceive)
	return tx, nil
}

// Confirm runs the confirmation workflow: pending -> confirmed|rejected,
// credit exactly once on confirm, best-effort purchaser notification.
func (s *PurchaseServiceImpl) Confirm(ctx context.Context, transactionID string, action string) (*ConfirmResult, error) {
	if action != ActionConfirm && action != ActionReject {
		return nil, ErrInvalidAction
	}

	tx, err := s.txRepo.FindByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	if tx.Status != models.StatusPending {
		return nil, &AlreadyProcessedError{Status: tx.Status}
	}

	newStatus := models.StatusConfirmed
	if action == ActionReject {
		newStatus = models.StatusRejected
	}

	updated, err := s.txRepo.UpdateStatus(ctx, transactionID, newStatus, time.Now())
	if err != nil {
		if errors.Is(err, repositories.ErrAlreadyProcessed) {
			// Lost a race against a concurrent confirmation. Re-read for the
			// winner's status so the caller sees what actually happened.
			current, findErr := s.txRepo.FindByID(ctx, transactionID)
			if findErr != nil {
				return nil, findErr
			}
			return nil, &AlreadyProcessedError{Status: current.Status}
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	if newStatus == models.StatusRejected {
		s.notify(updated.TelegramID, s.rejectionMessage(updated))
		return &ConfirmResult{
			TransactionID: updated.ID,
			Status:        updated.Status,
			Message:       "Transaction rejected successfully.",
		}, nil
	}

	if _, err := s.userRepo.IncrementPoints(ctx, updated.TelegramID, updated.PointsToReceive); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// The transaction stays confirmed but uncredited. Surface loudly:
			// this needs manual reconciliation, not an automatic rollback.
			slog.Error("confirmed transaction could not be credited: user record missing",
				"transactionId", updated.ID, "telegramId", updated.TelegramID, "pointsToReceive", updated.PointsToReceive)
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to credit user balance: %w", err)
	}

	s.notify(updated.TelegramID, s.confirmationMessage(updated))

	slog.Info("mining plan purchase confirmed",
		"transactionId", updated.ID, "telegramId", updated.TelegramID, "creditedPoints", updated.PointsToReceive)
	return &ConfirmResult{
		TransactionID:  updated.ID,
		Status:         updated.Status,
		CreditedPoints: updated.PointsToReceive,
		Message:        fmt.Sprintf("Transaction confirmed successfully. %.2f USDT added to user's account.", updated.PointsToReceive),
	}, nil
}

// GetTransactionsByUser returns all transactions for a user
func (s *PurchaseServiceImpl) GetTransactionsByUser(ctx context.Context, telegramID string) ([]*models.MiningPlanTransaction, error) {
	return s.txRepo.FindByTelegramID(ctx, telegramID)
}

// GetPendingTransactions returns all transactions awaiting admin review
func (s *PurchaseServiceImpl) GetPendingTransactions(ctx context.Context) ([]*models.MiningPlanTransaction, error) {
	return s.txRepo.FindByStatus(ctx, models.StatusPending)
}

// notify delivers a message best-effort. Dispatch failures are logged and
// swallowed; they never fail or roll back the calling workflow.
func (s *PurchaseServiceImpl) notify(chatID, text string) {
	if err := s.notifier.Send(chatID, text); err != nil {
		slog.Warn("notification dispatch failed", "chatId", chatID, "error", err)
	}
}

func (s *PurchaseServiceImpl) adminPurchaseMessage(tx *models.MiningPlanTransaction) string {
	msg := "🔔 *New Mining Plan Purchase Request*\n\n" +
		fmt.Sprintf("👤 *User:* %s\n", tx.UserName) +
		fmt.Sprintf("🆔 *Telegram ID:* %s\n", tx.TelegramID) +
		fmt.Sprintf("💰 *Amount:* %.0f USDT\n", tx.PlanAmount) +
		fmt.Sprintf("🎁 *USDT to Receive:* %.2f\n", tx.PointsToReceive) +
		fmt.Sprintf("💳 *Deposit Address:* `%s`\n", s.depositAddress) +
		fmt.Sprintf("🔑 *Transaction ID:* %s\n", tx.ID)
	if tx.TransactionHash != "" {
		msg += fmt.Sprintf("📝 *Wallet Address:* `%s`\n", tx.TransactionHash)
	}
	msg += "\n⚠️ *Please verify the payment was sent to the deposit address before confirming.*"
	return msg
}

func (s *PurchaseServiceImpl) depositInstructionsMessage(tx *models.MiningPlanTransaction) string {
	return "💰 *Mining Plan Purchase Request*\n\n" +
		fmt.Sprintf("You have requested to purchase a mining plan for *%.0f USDT*.\n\n", tx.PlanAmount) +
		"📋 *Deposit Instructions:*\n" +
		fmt.Sprintf("Send exactly *%.0f USDT* to:\n`%s`\n\n", tx.PlanAmount, s.depositAddress) +
		fmt.Sprintf("🎁 *You will receive:* %.2f USDT\n\n", tx.PointsToReceive) +
		"⏳ Please wait for admin confirmation after making the deposit."
}

func (s *PurchaseServiceImpl) confirmationMessage(tx *models.MiningPlanTransaction) string {
	return "✅ *Mining Plan Confirmed*\n\n" +
		fmt.Sprintf("Your purchase of *%.0f USDT* has been confirmed!\n\n", tx.PlanAmount) +
		fmt.Sprintf("💰 *USDT Added:* %.2f\n\n", tx.PointsToReceive) +
		"Your balance has been updated. Thank you for your purchase!"
}

func (s *PurchaseServiceImpl) rejectionMessage(tx *models.MiningPlanTransaction) string {
	return "❌ *Mining Plan Rejected*\n\n" +
		fmt.Sprintf("Your purchase request for *%.0f USDT* has been rejected.\n\n", tx.PlanAmount) +
		"Please contact support if you believe this is an error."
}

const txIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// newTransactionID builds a time-based id with a random suffix. Collision
// probability within one millisecond is negligible for this workload.
func newTransactionID() string {
	suffix := make([]byte, 7)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(txIDAlphabet))))
		if err != nil {
			// crypto/rand failing means the process is in a bad state; fall
			// back to a time-derived character rather than panic.
			suffix[i] = txIDAlphabet[time.Now().UnixNano()%int64(len(txIDAlphabet))]
			continue
		}
		suffix[i] = txIDAlphabet[n.Int64()]
	}
	return fmt.Sprintf("tx_%d_%s", time.Now().UnixMilli(), string(suffix))
}
