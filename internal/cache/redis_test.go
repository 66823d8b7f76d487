package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisCache(client, "", zap.NewNop())
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCacheStalenessWindow(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()
	src := &counter{}
	ttl := 20 * time.Second

	first, err := c.GetOrCompute(ctx, FeedPageKey(1), ttl, src.compute)
	require.NoError(t, err)
	assert.True(t, mr.Exists(DefaultRedisPrefix+FeedPageKey(1)))

	mr.FastForward(19 * time.Second)
	second, err := c.GetOrCompute(ctx, FeedPageKey(1), ttl, src.compute)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	mr.FastForward(time.Second)
	third, err := c.GetOrCompute(ctx, FeedPageKey(1), ttl, src.compute)
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
	assert.Equal(t, 2, src.n)
}

func TestRedisCacheClearOnlyOwnPrefix(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()
	src := &counter{}

	require.NoError(t, mr.Set("other:key", "keep"))
	_, _ = c.GetOrCompute(ctx, FeedPageKey(1), time.Minute, src.compute)
	_, _ = c.GetOrCompute(ctx, FeedPageKey(2), time.Minute, src.compute)

	require.NoError(t, c.Clear(ctx))
	assert.False(t, mr.Exists(DefaultRedisPrefix+FeedPageKey(1)))
	assert.False(t, mr.Exists(DefaultRedisPrefix+FeedPageKey(2)))
	assert.True(t, mr.Exists("other:key"))
}

func TestRedisCacheDegradesWhenUnavailable(t *testing.T) {
	c, mr := newRedisCache(t)
	mr.Close()
	src := &counter{}

	got, err := c.GetOrCompute(context.Background(), "k", time.Minute, src.compute)
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)
}
