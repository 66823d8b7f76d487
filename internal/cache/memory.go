package cache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// entry 包装缓存数据和过期时间
type entry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache 进程内 LRU 缓存，每个条目带过期时间
type MemoryCache struct {
	lru *lru.Cache[string, entry]
	now func() time.Time
}

type MemoryOption func(*MemoryCache)

// WithClock 替换时间来源，测试中用于快进
func WithClock(now func() time.Time) MemoryOption {
	return func(c *MemoryCache) { c.now = now }
}

func NewMemoryCache(size int, opts ...MemoryOption) (*MemoryCache, error) {
	l, err := lru.New[string, entry](size)
	if err != nil {
		return nil, fmt.Errorf("create LRU cache: %w", err)
	}
	c := &MemoryCache{lru: l, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *MemoryCache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute ComputeFunc) ([]byte, error) {
	if ttl <= 0 {
		return compute(ctx)
	}

	if val, ok := c.lru.Get(key); ok {
		if c.now().Before(val.expiresAt) {
			return val.data, nil
		}
		c.lru.Remove(key)
	}

	data, err := compute(ctx)
	if err != nil {
		return nil, err
	}
	c.lru.Add(key, entry{data: data, expiresAt: c.now().Add(ttl)})
	return data, nil
}

func (c *MemoryCache) Clear(context.Context) error {
	c.lru.Purge()
	return nil
}

func (c *MemoryCache) Close() error { return nil }

// Len 当前条目数（含尚未被访问清理的过期条目）
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}
