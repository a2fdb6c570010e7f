package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"earning-bot/apperrors"

	"github.com/redis/go-redis/v9"
)

const takeRetries = 5

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// Redis keeps pending flows in Redis so they survive a restart. Keys have no
// TTL; a stale flow is replaced by the user's next action.
type Redis struct {
	rdb    *redis.Client
	prefix string
}

func NewRedis(rdb *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "earnbot:pending:"
	}
	return &Redis{rdb: rdb, prefix: prefix}
}

func (r *Redis) key(userID int64) string {
	return fmt.Sprintf("%s%d", r.prefix, userID)
}

func (r *Redis) Get(ctx context.Context, userID int64) (Pending, error) {
	return r.read(ctx, r.rdb, userID)
}

func (r *Redis) Set(ctx context.Context, userID int64, p Pending) error {
	if p.Step == StepNone {
		return r.Clear(ctx, userID)
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return apperrors.Persistence("session set", err)
	}
	if err := r.rdb.Set(ctx, r.key(userID), raw, 0).Err(); err != nil {
		return apperrors.Persistence("session set", err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context, userID int64) error {
	if err := r.rdb.Del(ctx, r.key(userID)).Err(); err != nil {
		return apperrors.Persistence("session clear", err)
	}
	return nil
}

func (r *Redis) Take(ctx context.Context, userID int64, step Step) (Pending, bool, error) {
	key := r.key(userID)

	var (
		taken Pending
		ok    bool
	)
	txf := func(tx *redis.Tx) error {
		p, err := r.read(ctx, tx, userID)
		if err != nil {
			return err
		}
		if p.Step != step {
			ok = false
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		if err != nil {
			return err
		}
		taken, ok = p, true
		return nil
	}

	for i := 0; i < takeRetries; i++ {
		err := r.rdb.Watch(ctx, txf, key)
		if err == nil {
			return taken, ok, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			// Someone else touched the key; re-read and decide again.
			continue
		}
		if apperrors.IsPersistence(err) {
			return Pending{}, false, err
		}
		return Pending{}, false, apperrors.Persistence("session take", err)
	}
	return Pending{}, false, apperrors.Persistence("session take", errors.New("too much contention"))
}

func (r *Redis) read(ctx context.Context, c getter, userID int64) (Pending, error) {
	raw, err := c.Get(ctx, r.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Pending{}, nil
		}
		return Pending{}, apperrors.Persistence("session get", err)
	}
	var p Pending
	if err := json.Unmarshal(raw, &p); err != nil {
		return Pending{}, apperrors.Persistence("session decode", err)
	}
	return p, nil
}
