package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vzorr/musta-website/dto"
)

// RedisRateLimitStore shares fixed-window counters across instances.
// INCR and EXPIRE NX run in one MULTI/EXEC, so the window boundary is
// the first request's arrival and a counter can never be left without
// an expiry.
type RedisRateLimitStore struct {
	client  *redis.Client
	timeout time.Duration
}

func NewRedisRateLimitStore(client *redis.Client) *RedisRateLimitStore {
	return &RedisRateLimitStore{
		client:  client,
		timeout: 2 * time.Second,
	}
}

func redisBucketKey(category, clientKey string) string {
	return "rl:" + category + ":" + clientKey
}

func (s *RedisRateLimitStore) Consume(policy RateLimitPolicy, clientKey string) (*dto.RateLimitInfo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	key := redisBucketKey(policy.Category, clientKey)

	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		// NX also repairs a counter whose expiry was lost to a crash
		// between the two commands on an older deployment.
		pipe.ExpireNX(ctx, key, policy.Window)
		return nil
	})
	if err != nil {
		return nil, err
	}
	count := incr.Val()

	if count > int64(policy.MaxPoints) {
		ttl, err := s.client.TTL(ctx, key).Result()
		if err != nil {
			return nil, err
		}
		retryAfter := int(ttl.Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		resetTime := time.Now().Add(ttl)
		return &dto.RateLimitInfo{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: retryAfter,
			ResetTime:  &resetTime,
		}, nil
	}

	return &dto.RateLimitInfo{
		Allowed:   true,
		Remaining: policy.MaxPoints - int(count),
	}, nil
}

func (s *RedisRateLimitStore) Reset(category, clientKey string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	return s.client.Del(ctx, redisBucketKey(category, clientKey)).Err()
}

func (s *RedisRateLimitStore) Remaining(policy RateLimitPolicy, clientKey string) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	count, err := s.client.Get(ctx, redisBucketKey(policy.Category, clientKey)).Int()
	if err == redis.Nil {
		return policy.MaxPoints, nil
	}
	if err != nil {
		return 0, err
	}

	remaining := policy.MaxPoints - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
