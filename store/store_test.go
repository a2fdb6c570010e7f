package store_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"earning-bot/apperrors"
	"earning-bot/database"
	"earning-bot/models"
	"earning-bot/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(id int64) *models.User {
	return &models.User{
		ID:         id,
		Name:       fmt.Sprintf("user-%d", id),
		Email:      fmt.Sprintf("u%d@example.com", id),
		JoinedDate: time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestMemoryStore(t *testing.T) {
	runSuite(t, func(t *testing.T) store.Store { return store.NewMemory() })
}

// Runs only if MONGO_URI is set.
func TestMongoStoreIntegration(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set; skipping integration test")
	}

	runSuite(t, func(t *testing.T) store.Store {
		ctx := context.Background()
		dbName := fmt.Sprintf("earnbot_test_%d", time.Now().UnixNano())
		m, err := database.ConnectMongo(ctx, uri, dbName)
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = m.DB.Drop(context.Background())
			_ = m.Disconnect()
		})

		s := store.NewMongo(m.Users(), m.Withdrawals())
		require.NoError(t, s.EnsureIndexes(ctx))
		return s
	})
}

func runSuite(t *testing.T, newStore func(t *testing.T) store.Store) {
	ctx := context.Background()

	t.Run("CreateAndGet", func(t *testing.T) {
		s := newStore(t)
		u := newUser(1)
		require.NoError(t, s.CreateUser(ctx, u))

		got, err := s.GetUser(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, u.Name, got.Name)
		assert.Equal(t, u.Email, got.Email)
		assert.Equal(t, models.Money(0), got.Balance)
		assert.Nil(t, got.Referrer)
		assert.True(t, got.LastCheckin.IsZero())
	})

	t.Run("GetMissing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetUser(ctx, 404)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		assert.True(t, apperrors.IsIntegrity(err))
	})

	t.Run("DuplicateCreate", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.CreateUser(ctx, newUser(1)))

		dup := newUser(1)
		dup.Email = "other@example.com"
		assert.ErrorIs(t, s.CreateUser(ctx, dup), store.ErrUserExists)

		got, err := s.GetUser(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "u1@example.com", got.Email)
	})

	t.Run("CreditReferralOncePerReferee", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.CreateUser(ctx, newUser(1)))

		ok, err := s.CreditReferral(ctx, 1, 2, 100)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.CreditReferral(ctx, 1, 2, 100)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = s.CreditReferral(ctx, 1, 3, 100)
		require.NoError(t, err)
		assert.True(t, ok)

		got, err := s.GetUser(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, models.Money(200), got.Balance)
		assert.Equal(t, 2, got.Referrals)
		assert.ElementsMatch(t, []int64{2, 3}, got.Referred)
	})

	t.Run("CreditReferralMissingReferrer", func(t *testing.T) {
		s := newStore(t)
		_, err := s.CreditReferral(ctx, 99, 2, 100)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("MarkReferralSettled", func(t *testing.T) {
		s := newStore(t)
		u := newUser(2)
		ref := int64(1)
		u.Referrer = &ref
		require.NoError(t, s.CreateUser(ctx, u))
		require.NoError(t, s.MarkReferralSettled(ctx, 2))

		got, err := s.GetUser(ctx, 2)
		require.NoError(t, err)
		assert.True(t, got.ReferralSettled)
		assert.Equal(t, int64(1), *got.Referrer)

		assert.ErrorIs(t, s.MarkReferralSettled(ctx, 404), store.ErrUserNotFound)
	})

	t.Run("ClaimDailyOncePerDate", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.CreateUser(ctx, newUser(1)))

		ok, err := s.ClaimDaily(ctx, 1, "2026-10-19", 50)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.ClaimDaily(ctx, 1, "2026-10-19", 50)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = s.ClaimDaily(ctx, 1, "2026-10-20", 50)
		require.NoError(t, err)
		assert.True(t, ok)

		got, err := s.GetUser(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, models.Money(100), got.Balance)
		assert.Equal(t, models.Date("2026-10-20"), got.LastCheckin)

		_, err = s.ClaimDaily(ctx, 404, "2026-10-20", 50)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("ConcurrentClaimsGrantOnce", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.CreateUser(ctx, newUser(1)))

		var granted atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := s.ClaimDaily(ctx, 1, "2026-10-19", 50)
				assert.NoError(t, err)
				if ok {
					granted.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), granted.Load())
		got, err := s.GetUser(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, models.Money(50), got.Balance)
	})

	t.Run("DebitAll", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.CreateUser(ctx, newUser(1)))
		require.NoError(t, s.Credit(ctx, 1, 2500))

		amount, err := s.DebitAll(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, models.Money(2500), amount)

		amount, err = s.DebitAll(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, models.Money(0), amount)

		_, err = s.DebitAll(ctx, 404)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("ConcurrentDebitsNeverDoubleSpend", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.CreateUser(ctx, newUser(1)))
		require.NoError(t, s.Credit(ctx, 1, 2500))

		var total atomic.Int64
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				amount, err := s.DebitAll(ctx, 1)
				assert.NoError(t, err)
				total.Add(int64(amount))
			}()
		}
		wg.Wait()

		assert.Equal(t, int64(2500), total.Load())
	})

	t.Run("CreditMissing", func(t *testing.T) {
		s := newStore(t)
		assert.ErrorIs(t, s.Credit(ctx, 404, 100), store.ErrUserNotFound)
	})

	t.Run("InsertWithdrawalAssignsID", func(t *testing.T) {
		s := newStore(t)
		w := &models.WithdrawalRequest{
			UserID: 1,
			Name:   "Alice",
			Email:  "alice@example.com",
			Amount: 2500,
			UPI:    "alice@upi",
			Status: models.WithdrawalPending,
			Date:   time.Now().UTC(),
		}
		require.NoError(t, s.InsertWithdrawal(ctx, w))
		assert.False(t, w.ID.IsZero())
	})
}

func TestMemoryWithdrawalsSnapshot(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()

	require.NoError(t, s.InsertWithdrawal(ctx, &models.WithdrawalRequest{UserID: 1, Amount: 100}))
	require.NoError(t, s.InsertWithdrawal(ctx, &models.WithdrawalRequest{UserID: 2, Amount: 200}))

	ws := s.Withdrawals()
	require.Len(t, ws, 2)
	assert.Equal(t, int64(1), ws[0].UserID)
	ws[0].Amount = 0
	assert.Equal(t, models.Money(100), s.Withdrawals()[0].Amount)
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, newUser(1)))

	u, err := s.GetUser(ctx, 1)
	require.NoError(t, err)
	u.Balance = 999

	again, err := s.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.Money(0), again.Balance)
	assert.Equal(t, 1, s.UserCount())
}
