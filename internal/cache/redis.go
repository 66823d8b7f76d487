package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const DefaultRedisPrefix = "penhub:page:"

// RedisCache 以 Redis 作为页面缓存后端，多实例部署时共享同一份缓存
type RedisCache struct {
	client *redis.Client
	prefix string
	log    *zap.Logger
}

func NewRedisCache(client *redis.Client, prefix string, log *zap.Logger) *RedisCache {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisCache{client: client, prefix: prefix, log: log}
}

func (c *RedisCache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute ComputeFunc) ([]byte, error) {
	if ttl <= 0 {
		return compute(ctx)
	}

	fullKey := c.prefix + key
	data, err := c.client.Get(ctx, fullKey).Bytes()
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, redis.Nil) {
		// Redis 不可用时退化为直接计算
		c.log.Warn("page cache read failed", zap.String("key", fullKey), zap.Error(err))
	}

	data, err = compute(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.client.Set(ctx, fullKey, data, ttl).Err(); err != nil {
		c.log.Warn("page cache write failed", zap.String("key", fullKey), zap.Error(err))
	}
	return data, nil
}

// Clear 删除本前缀下的所有键
func (c *RedisCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
