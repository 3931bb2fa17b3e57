package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"talent-match/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnavailableRedisDegrades(t *testing.T) {
	// Port 1 is reserved and never runs redis.
	r := NewRedis(config.RedisConfig{Host: "127.0.0.1", Port: "1"}, nil)
	ctx := context.Background()

	assert.False(t, r.Available())
	assert.True(t, errors.Is(r.Ping(ctx), ErrUnavailable))

	var out map[string]int
	found, err := r.GetJSON(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, r.SetJSON(ctx, "k", map[string]int{"a": 1}, time.Minute))
	require.NoError(t, r.Delete(ctx, "k"))
	require.NoError(t, r.DeleteByPattern(ctx, "k:*"))

	ok, err := r.AcquireLock(ctx, "lock", "token", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, r.ReleaseLock(ctx, "lock", "token"))
	require.NoError(t, r.Close())
}

func TestNilRedisIsSafe(t *testing.T) {
	var r *Redis
	assert.False(t, r.Available())
	ok, err := r.AcquireLock(context.Background(), "lock", "t", 0)
	require.NoError(t, err)
	assert.True(t, ok)
}
