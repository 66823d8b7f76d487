// Package cache 实现首页的页面缓存：按页码缓存已渲染的片段字节，只按 TTL 过期，写入时不失效。
package cache

import (
	"context"
	"fmt"
	"time"
)

// ComputeFunc 在缓存未命中时生成要缓存的字节
type ComputeFunc func(ctx context.Context) ([]byte, error)

// PageCache 由 main 创建并注入到 handler。
// 并发未命中时可能重复计算，最后写入者生效。
type PageCache interface {
	GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute ComputeFunc) ([]byte, error)
	Clear(ctx context.Context) error
	Close() error
}

// FeedPageKey 全站 feed 第 page 页的缓存键
func FeedPageKey(page int) string {
	return fmt.Sprintf("index_page:%d", page)
}
