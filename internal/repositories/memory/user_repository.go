// Package memory provides in-process repository implementations with the same
// atomicity guarantees as the MongoDB ones. Used for tests and for deployments
// that run without a database.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/novaminer/clicker-backend/internal/models"
	"github.com/novaminer/clicker-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Compile-time check to ensure UserRepository implements the interface
var _ repositories.UserRepository = (*UserRepository)(nil)

// UserRepository is a mutex-guarded in-memory user store
type UserRepository struct {
	mu    sync.Mutex
	users map[string]*models.User
}

// NewUserRepository creates a new in-memory UserRepository
func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make(map[string]*models.User),
	}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.users[user.TelegramID] = &cp
	return nil
}

// FindByTelegramID finds a user by their Telegram id
func (r *UserRepository) FindByTelegramID(ctx context.Context, telegramID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[telegramID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

// ApplyAccrual performs the conditional accrual update under the store lock,
// mirroring the MongoDB timestamp-equality precondition.
func (r *UserRepository) ApplyAccrual(ctx context.Context, telegramID string, lastSeen time.Time, delta float64, now time.Time) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[telegramID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if !user.LastPointsUpdate.Equal(lastSeen) {
		return nil, repositories.ErrConflict
	}
	user.Points += delta
	user.PointsBalance += delta
	user.LastPointsUpdate = now
	user.UpdatedAt = now
	cp := *user
	return &cp, nil
}

// IncrementPoints atomically adds delta to both point fields
func (r *UserRepository) IncrementPoints(ctx context.Context, telegramID string, delta float64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[telegramID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	user.Points += delta
	user.PointsBalance += delta
	user.UpdatedAt = time.Now()
	cp := *user
	return &cp, nil
}

// Count counts all users
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

// Delete removes a user. Not part of the repository interface; exists so tests
// can simulate a user record vanishing between confirmation and credit.
func (r *UserRepository) Delete(telegramID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, telegramID)
}
