package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WhenNothingSet_ShouldUseDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddress)
	assert.Equal(t, RateLimitHistory, cfg.RateLimitStrategy)
	assert.Equal(t, 300, cfg.RateLimitMaxVotes)
	assert.Equal(t, 3600, cfg.RateLimitWindowSeconds)
	assert.Equal(t, 32, cfg.EloKFactor)
	assert.Equal(t, 200, cfg.LeaderboardLimit)
	assert.Equal(t, 90, cfg.VoteTTLDays)
	assert.True(t, cfg.AutoMigrate)
}

func TestLoad_WhenEnvOverrides_ShouldUseThem(t *testing.T) {
	t.Setenv("RATE_LIMIT_STRATEGY", RateLimitRedis)
	t.Setenv("RATE_LIMIT_MAX", "10")
	t.Setenv("ELO_K_FACTOR", "24")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, RateLimitRedis, cfg.RateLimitStrategy)
	assert.Equal(t, 10, cfg.RateLimitMaxVotes)
	assert.Equal(t, 24, cfg.EloKFactor)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoad_WhenStrategyUnknown_ShouldFail(t *testing.T) {
	t.Setenv("RATE_LIMIT_STRATEGY", "captcha")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_WhenIntInvalid_ShouldFallBack(t *testing.T) {
	t.Setenv("RATE_LIMIT_MAX", "many")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.RateLimitMaxVotes)
}

func TestPostgresDSN(t *testing.T) {
	cfg := Config{
		PostgresUser:     "arena",
		PostgresPassword: "secret",
		PostgresHost:     "db",
		PostgresPort:     "5432",
		PostgresDB:       "arena_votes",
		PostgresSSLMode:  "disable",
	}

	assert.Equal(t, "postgres://arena:secret@db:5432/arena_votes?sslmode=disable", cfg.PostgresDSN())
}
