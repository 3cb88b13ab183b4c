package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/novaminer/clicker-backend/internal/models"
	"github.com/novaminer/clicker-backend/internal/repositories"
)

// Compile-time check to ensure TransactionRepository implements the interface
var _ repositories.TransactionRepository = (*TransactionRepository)(nil)

// TransactionRepository is a mutex-guarded in-memory transaction ledger
type TransactionRepository struct {
	mu  sync.Mutex
	txs map[string]*models.MiningPlanTransaction
}

// NewTransactionRepository creates a new in-memory TransactionRepository
func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{
		txs: make(map[string]*models.MiningPlanTransaction),
	}
}

// Create inserts a new pending transaction. The pending-exclusivity check and
// the insert happen under one lock, matching the MongoDB partial unique index.
func (r *TransactionRepository) Create(ctx context.Context, tx *models.MiningPlanTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tx.Status == models.StatusPending {
		for _, existing := range r.txs {
			if existing.TelegramID == tx.TelegramID && existing.Status == models.StatusPending {
				return repositories.ErrPendingExists
			}
		}
	}
	cp := *tx
	r.txs[tx.ID] = &cp
	return nil
}

// FindByID finds a transaction by its id
func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*models.MiningPlanTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, ok := r.txs[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *tx
	return &cp, nil
}

// FindByTelegramID finds all transactions for a user, newest first
func (r *TransactionRepository) FindByTelegramID(ctx context.Context, telegramID string) ([]*models.MiningPlanTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := []*models.MiningPlanTransaction{}
	for _, tx := range r.txs {
		if tx.TelegramID == telegramID {
			cp := *tx
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// FindByStatus finds all transactions with the given status, oldest first
func (r *TransactionRepository) FindByStatus(ctx context.Context, status models.TransactionStatus) ([]*models.MiningPlanTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := []*models.MiningPlanTransaction{}
	for _, tx := range r.txs {
		if tx.Status == status {
			cp := *tx
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// UpdateStatus transitions a pending transaction to a terminal status. The
// status check and the write share the store lock, so only one of several
// concurrent transitions succeeds.
func (r *TransactionRepository) UpdateStatus(ctx context.Context, id string, status models.TransactionStatus, confirmedAt time.Time) (*models.MiningPlanTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, ok := r.txs[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if tx.Status != models.StatusPending {
		return nil, repositories.ErrAlreadyProcessed
	}
	tx.Status = status
	at := confirmedAt
	tx.ConfirmedAt = &at
	cp := *tx
	return &cp, nil
}
