package cache

import (
	"context"
	"testing"
	"time"

	"github.com/BigChungus31/Credit-Card-Recommendation-System/internal/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c := NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { c.Close() })

	return c, mr
}

func TestRedisCache_SetAndGet(t *testing.T) {
	c, mr := setupRedisCache(t)
	ctx := context.Background()

	value := map[string]interface{}{
		"card_name":   "Fuel Saver",
		"match_score": 10,
	}
	require.NoError(t, c.Set(ctx, "rec:1", value, time.Minute))
	assert.True(t, mr.Exists(keyPrefix+"rec:1"))

	got, err := c.Get(ctx, "rec:1")
	require.NoError(t, err)

	m, ok := got.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Fuel Saver", m["card_name"])
	assert.Equal(t, float64(10), m["match_score"])
}

func TestRedisCache_Miss(t *testing.T) {
	c, _ := setupRedisCache(t)

	_, err := c.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCache_Expiration(t *testing.T) {
	c, mr := setupRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "ttl", "value", time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := c.Get(ctx, "ttl")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCache_Delete(t *testing.T) {
	c, mr := setupRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "recommendations:v1:n5:abc", "value", time.Minute))
	assert.True(t, mr.Exists(keyPrefix+"recommendations:v1:n5:abc"))

	require.NoError(t, c.Delete(ctx, "recommendations:v1:n5:abc"))
	assert.False(t, mr.Exists(keyPrefix+"recommendations:v1:n5:abc"))

	_, err := c.Get(ctx, "recommendations:v1:n5:abc")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCache_Unavailable(t *testing.T) {
	c, mr := setupRedisCache(t)
	mr.Close()

	err := c.Ping(context.Background())
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)

	_, err = c.Get(context.Background(), "key")
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)
}

func TestNewRedisCache(t *testing.T) {
	t.Run("connects with a redis URL", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		defer mr.Close()

		c, err := NewRedisCache(context.Background(), "redis://"+mr.Addr())
		require.NoError(t, err)
		defer c.Close()
	})

	t.Run("rejects malformed URL", func(t *testing.T) {
		_, err := NewRedisCache(context.Background(), "not-a-url://")
		assert.Error(t, err)
	})
}
