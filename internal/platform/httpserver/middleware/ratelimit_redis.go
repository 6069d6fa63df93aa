package middleware

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCounterStore backs the rate-limit counters with a shared Redis so the
// attempt budget holds across replicas. Keys live exactly one window: INCR
// plus PEXPIRE-on-first-hit gives the same fixed-window semantics as the
// memory store.
type RedisCounterStore struct {
	client *redis.Client
	prefix string
}

func NewRedisCounterStore(client *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{
		client: client,
		prefix: "relish:ratelimit:",
	}
}

func (s *RedisCounterStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	redisKey := s.prefix + key

	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, 0, err
	}
	if count == 1 {
		if err := s.client.PExpire(ctx, redisKey, window).Err(); err != nil {
			return 0, 0, err
		}
		return count, window, nil
	}

	ttl, err := s.client.PTTL(ctx, redisKey).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}
	return count, ttl, nil
}
