package session_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"earning-bot/session"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessions(t *testing.T) {
	runSuite(t, func(t *testing.T) session.Store { return session.NewMemory() })
}

// Runs only if REDIS_ADDR is set.
func TestRedisSessionsIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}

	runSuite(t, func(t *testing.T) session.Store {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		require.NoError(t, rdb.Ping(context.Background()).Err())

		prefix := fmt.Sprintf("earnbot:test:%d:", time.Now().UnixNano())
		t.Cleanup(func() {
			ctx := context.Background()
			keys, _ := rdb.Keys(ctx, prefix+"*").Result()
			if len(keys) > 0 {
				rdb.Del(ctx, keys...)
			}
			_ = rdb.Close()
		})
		return session.NewRedis(rdb, prefix)
	})
}

func runSuite(t *testing.T, newStore func(t *testing.T) session.Store) {
	ctx := context.Background()

	t.Run("EmptyByDefault", func(t *testing.T) {
		s := newStore(t)
		p, err := s.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, session.StepNone, p.Step)
	})

	t.Run("SetReplaces", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, 1, session.Pending{Step: session.StepAwaitingConsent, Referrer: 7}))
		require.NoError(t, s.Set(ctx, 1, session.Pending{Step: session.StepAwaitingUPI}))

		p, err := s.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, session.Pending{Step: session.StepAwaitingUPI}, p)
	})

	t.Run("Clear", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, 1, session.Pending{Step: session.StepAwaitingEmail, Referrer: 7}))
		require.NoError(t, s.Clear(ctx, 1))

		p, err := s.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, session.StepNone, p.Step)
	})

	t.Run("TakeMatchingStep", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, 1, session.Pending{Step: session.StepAwaitingEmail, Referrer: 7}))

		p, ok, err := s.Take(ctx, 1, session.StepAwaitingEmail)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(7), p.Referrer)

		_, ok, err = s.Take(ctx, 1, session.StepAwaitingEmail)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("TakeOtherStepLeavesPending", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, 1, session.Pending{Step: session.StepAwaitingConsent}))

		_, ok, err := s.Take(ctx, 1, session.StepAwaitingUPI)
		require.NoError(t, err)
		assert.False(t, ok)

		p, err := s.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, session.StepAwaitingConsent, p.Step)
	})

	t.Run("ConcurrentTakeHasOneWinner", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, 1, session.Pending{Step: session.StepAwaitingUPI}))

		var winners atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, ok, err := s.Take(ctx, 1, session.StepAwaitingUPI)
				if err == nil && ok {
					winners.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), winners.Load())
	})

	t.Run("UsersAreIndependent", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, 1, session.Pending{Step: session.StepAwaitingUPI}))
		require.NoError(t, s.Set(ctx, 2, session.Pending{Step: session.StepAwaitingConsent}))
		require.NoError(t, s.Clear(ctx, 1))

		p, err := s.Get(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, session.StepAwaitingConsent, p.Step)
	})
}
