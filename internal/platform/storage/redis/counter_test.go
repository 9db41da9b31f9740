package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) *goredis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestCounter_Increment_ShouldAccumulate(t *testing.T) {
	counter := NewCounter(setupRedis(t), "arena")

	val, err := counter.Increment(context.Background(), "votes:total", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), val)

	val, err = counter.Increment(context.Background(), "votes:total", 41)
	require.NoError(t, err)
	assert.Equal(t, int64(42), val)

	val, err = counter.Get(context.Background(), "votes:total")
	require.NoError(t, err)
	assert.Equal(t, int64(42), val)
}

func TestCounter_Get_WhenKeyMissing_ShouldReturnZero(t *testing.T) {
	counter := NewCounter(setupRedis(t), "arena")

	val, err := counter.Get(context.Background(), "votes:total")
	require.NoError(t, err)
	assert.Zero(t, val)
}

func TestCounter_WhenPrefixesDiffer_ShouldNotCollide(t *testing.T) {
	client := setupRedis(t)
	first := NewCounter(client, "arena")
	second := NewCounter(client, "staging")

	_, err := first.Increment(context.Background(), "votes:total", 7)
	require.NoError(t, err)

	val, err := second.Get(context.Background(), "votes:total")
	require.NoError(t, err)
	assert.Zero(t, val)
}
