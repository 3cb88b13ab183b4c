package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/novaminer/clicker-backend/internal/models"
	"github.com/novaminer/clicker-backend/internal/repositories"
	"github.com/novaminer/clicker-backend/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMiningService(userRepo repositories.UserRepository) *MiningServiceImpl {
	svc := NewMiningService(userRepo, 5*time.Minute, 1, 3, 0)
	svc.SetBackoff(func(attempt int) {})
	return svc
}

func seedUser(t *testing.T, repo *memory.UserRepository, telegramID string, points float64, lastUpdate time.Time) {
	t.Helper()
	err := repo.Create(context.Background(), &models.User{
		TelegramID:       telegramID,
		Name:             "tester",
		Points:           points,
		PointsBalance:    points,
		LastPointsUpdate: lastUpdate,
	})
	require.NoError(t, err)
}

func TestMineCooldownIsNoOp(t *testing.T) {
	repo := memory.NewUserRepository()
	svc := newTestMiningService(repo)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seedUser(t, repo, "100", 100, base)

	result, err := svc.Mine(context.Background(), "100", base.Add(4*time.Minute))
	require.NoError(t, err)

	assert.False(t, result.Applied)
	assert.Equal(t, float64(0), result.PointsAdded)
	assert.Equal(t, float64(100), result.Points)
	assert.Equal(t, float64(100), result.PointsBalance)
	assert.Equal(t, int64(60000), result.TimeRemaining.Milliseconds())

	// Nothing may have moved on the stored record.
	user, err := repo.FindByTelegramID(context.Background(), "100")
	require.NoError(t, err)
	assert.Equal(t, float64(100), user.Points)
	assert.Equal(t, float64(100), user.PointsBalance)
	assert.True(t, user.LastPointsUpdate.Equal(base))
}

func TestMineAppliesAfterInterval(t *testing.T) {
	repo := memory.NewUserRepository()
	svc := newTestMiningService(repo)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seedUser(t, repo, "100", 100, base)

	now := base.Add(6 * time.Minute)
	result, err := svc.Mine(context.Background(), "100", now)
	require.NoError(t, err)

	assert.True(t, result.Applied)
	assert.Equal(t, float64(1), result.PointsAdded)
	assert.Equal(t, float64(101), result.Points)
	assert.Equal(t, float64(101), result.PointsBalance)

	user, err := repo.FindByTelegramID(context.Background(), "100")
	require.NoError(t, err)
	assert.True(t, user.LastPointsUpdate.Equal(now))
}

func TestMineMonotonicSequence(t *testing.T) {
	repo := memory.NewUserRepository()
	svc := newTestMiningService(repo)
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	seedUser(t, repo, "100", 0, base)

	// Calls at +4m, +6m, +8m, +12m: only +6m and +12m clear the interval.
	offsets := []time.Duration{4 * time.Minute, 6 * time.Minute, 8 * time.Minute, 12 * time.Minute}
	applied := 0
	var lastApplied time.Time
	for _, off := range offsets {
		result, err := svc.Mine(context.Background(), "100", base.Add(off))
		require.NoError(t, err)
		if result.Applied {
			applied++
			lastApplied = base.Add(off)
		}
	}

	assert.Equal(t, 2, applied)
	user, err := repo.FindByTelegramID(context.Background(), "100")
	require.NoError(t, err)
	assert.Equal(t, float64(2), user.Points)
	assert.Equal(t, float64(2), user.PointsBalance)
	assert.True(t, user.LastPointsUpdate.Equal(lastApplied))
}

func TestMineUnknownUser(t *testing.T) {
	svc := newTestMiningService(memory.NewUserRepository())

	_, err := svc.Mine(context.Background(), "missing", time.Now())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

// conflictingUserRepo wraps the memory repository and forces a configurable
// number of optimistic-lock conflicts before letting writes through.
type conflictingUserRepo struct {
	*memory.UserRepository
	mu        sync.Mutex
	conflicts int
}

func (r *conflictingUserRepo) ApplyAccrual(ctx context.Context, telegramID string, lastSeen time.Time, delta float64, now time.Time) (*models.User, error) {
	r.mu.Lock()
	if r.conflicts > 0 {
		r.conflicts--
		r.mu.Unlock()
		return nil, repositories.ErrConflict
	}
	r.mu.Unlock()
	return r.UserRepository.ApplyAccrual(ctx, telegramID, lastSeen, delta, now)
}

func TestMineRetriesOnConflict(t *testing.T) {
	inner := memory.NewUserRepository()
	repo := &conflictingUserRepo{UserRepository: inner, conflicts: 2}
	svc := newTestMiningService(repo)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seedUser(t, inner, "100", 100, base)

	result, err := svc.Mine(context.Background(), "100", base.Add(10*time.Minute))
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, float64(101), result.Points)
}

func TestMineConcurrencyExhausted(t *testing.T) {
	inner := memory.NewUserRepository()
	repo := &conflictingUserRepo{UserRepository: inner, conflicts: 3}
	svc := newTestMiningService(repo)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seedUser(t, inner, "100", 100, base)

	_, err := svc.Mine(context.Background(), "100", base.Add(10*time.Minute))
	assert.ErrorIs(t, err, ErrConcurrencyExhausted)

	// The failed attempts must not have partially updated anything.
	user, err := inner.FindByTelegramID(context.Background(), "100")
	require.NoError(t, err)
	assert.Equal(t, float64(100), user.Points)
	assert.True(t, user.LastPointsUpdate.Equal(base))
}

func TestMineConcurrentCallsApplyOnce(t *testing.T) {
	repo := memory.NewUserRepository()
	svc := newTestMiningService(repo)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seedUser(t, repo, "100", 0, base)

	now := base.Add(6 * time.Minute)
	const callers = 8
	var wg sync.WaitGroup
	results := make([]*MineResult, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Mine(context.Background(), "100", now)
		}(i)
	}
	wg.Wait()

	appliedCount := 0
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		if results[i].Applied {
			appliedCount++
		}
	}
	// Only one caller may win the optimistic lock; the rest re-read the
	// advanced timestamp and land in the cooldown branch.
	assert.Equal(t, 1, appliedCount)

	user, err := repo.FindByTelegramID(context.Background(), "100")
	require.NoError(t, err)
	assert.Equal(t, float64(1), user.Points)
	assert.Equal(t, float64(1), user.PointsBalance)
}
