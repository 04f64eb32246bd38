package quotasvc

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/dotcoder/core/thread"
)

const keyPrefix = "threads:daily:"

// Counter seeds a day's counter from the store the first time it's used.
type Counter interface {
	CountThreadsSince(ctx context.Context, userID string, since time.Time) (int, error)
}

// RedisLimiter shares the daily thread quota between app instances through a redis counter per user and day.
type RedisLimiter struct {
	client  redis.UniversalClient
	counter Counter
}

var _ thread.Limiter = (*RedisLimiter)(nil)

func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "parsing redis url")
	}
	return redis.NewClient(opts), nil
}

// NewRedisLimiter returns a thread.Limiter backed by client. counter may be nil.
func NewRedisLimiter(client redis.UniversalClient, counter Counter) *RedisLimiter {
	return &RedisLimiter{client: client, counter: counter}
}

func dayKey(userID string, dayStart time.Time) string {
	return fmt.Sprintf("%s%s:%s", keyPrefix, userID, dayStart.Format("2006-01-02"))
}

// seed initializes a missing counter with the threads already in the store.
func (l *RedisLimiter) seed(ctx context.Context, key, userID string, dayStart time.Time, expireAt time.Time) error {
	if l.counter == nil {
		return nil
	}
	n, err := l.client.Exists(ctx, key).Result()
	if err != nil {
		return errors.Wrap(err, "checking quota key")
	}
	if n > 0 {
		return nil
	}
	count, err := l.counter.CountThreadsSince(ctx, userID, dayStart)
	if err != nil {
		return errors.Wrap(err, "counting today's threads")
	}
	ttl := time.Until(expireAt)
	if ttl < time.Minute {
		ttl = time.Minute
	}
	if err = l.client.SetNX(ctx, key, count, ttl).Err(); err != nil {
		return errors.Wrap(err, "seeding quota key")
	}
	return nil
}

func (l *RedisLimiter) Reserve(ctx context.Context, userID string, dayStart time.Time, limit int) (bool, error) {
	key := dayKey(userID, dayStart)
	// keep the key a bit longer than the day itself
	expireAt := dayStart.Add(25 * time.Hour)

	if err := l.seed(ctx, key, userID, dayStart, expireAt); err != nil {
		return false, err
	}

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireAt(ctx, key, expireAt)
		return nil
	})
	if err != nil {
		return false, errors.Wrap(err, "incrementing quota key")
	}

	if incr.Val() > int64(limit) {
		if err = l.client.Decr(ctx, key).Err(); err != nil {
			return false, errors.Wrap(err, "decrementing quota key")
		}
		return false, nil
	}
	return true, nil
}

func (l *RedisLimiter) Release(ctx context.Context, userID string, dayStart time.Time) error {
	return errors.Wrap(l.client.Decr(ctx, dayKey(userID, dayStart)).Err(), "releasing quota key")
}
