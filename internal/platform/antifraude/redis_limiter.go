package antifraude

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/faangarena/arena/internal/domain"
)

// RedisRateLimiter keeps a sliding window per identity in a Redis sorted set
// scored by millisecond timestamps. Unlike the history limiter it records the
// attempt, so rejected requests also consume the window.
type RedisRateLimiter struct {
	client    *redis.Client
	limit     int
	window    time.Duration
	keyPrefix string
}

func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration, prefix string) *RedisRateLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisRateLimiter{
		client:    client,
		limit:     limit,
		window:    window,
		keyPrefix: prefix,
	}
}

func (r *RedisRateLimiter) Check(ctx context.Context, identityKey string, now time.Time) error {
	if r.client == nil || r.limit <= 0 || r.window <= 0 {
		// Invalid configuration degrades to permissive mode.
		return nil
	}

	key := r.buildKey(identityKey)
	cutoff := strconv.FormatInt(now.Add(-r.window).UnixMilli(), 10)
	member := strconv.FormatInt(now.UnixNano(), 10)

	pipe := r.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", cutoff)
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixMilli()), Member: member})
	card := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("antifraude: sliding window update: %w", err)
	}

	if card.Val() > int64(r.limit) {
		return ErrRateLimitExceeded
	}

	return nil
}

func (r *RedisRateLimiter) buildKey(identityKey string) string {
	// SHA-1 keeps device tokens and addresses out of Redis keyspace dumps.
	hash := sha1.Sum([]byte(identityKey))
	return fmt.Sprintf("%s:%s", r.keyPrefix, hex.EncodeToString(hash[:]))
}

var _ domain.RateLimiter = (*RedisRateLimiter)(nil)
