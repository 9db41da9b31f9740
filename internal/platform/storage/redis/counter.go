package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/faangarena/arena/internal/domain"
)

// Counter provides increment and read operations on prefixed keys. The
// worker maintains these counters so stats reads stay cheap.
type Counter struct {
	client *redis.Client
	prefix string
}

func NewCounter(client *redis.Client, prefix string) *Counter {
	return &Counter{
		client: client,
		prefix: prefix,
	}
}

func (c *Counter) Increment(ctx context.Context, key string, delta int64) (int64, error) {
	return c.client.IncrBy(ctx, c.key(key), delta).Result()
}

func (c *Counter) Get(ctx context.Context, key string) (int64, error) {
	val, err := c.client.Get(ctx, c.key(key)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return val, err
}

func (c *Counter) key(key string) string {
	if c.prefix == "" {
		return key
	}
	return fmt.Sprintf("%s:%s", c.prefix, key)
}

var _ domain.Counter = (*Counter)(nil)
