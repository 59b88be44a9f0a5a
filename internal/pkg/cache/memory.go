package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache 进程内缓存，未配置 Redis 时使用（单实例部署）
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache 创建进程内缓存
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

// Set 设置缓存
func (c *MemoryCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evictExpired()
	c.entries[key] = memoryEntry{data: data, expiresAt: c.now().Add(expiration)}
	return nil
}

// Take 读取并删除
func (c *MemoryCache) Take(ctx context.Context, key string, dest any) error {
	c.mu.Lock()
	e, ok := c.lookup(key)
	delete(c.entries, key)
	c.mu.Unlock()
	if !ok {
		return ErrMiss
	}
	return json.Unmarshal(e.data, dest)
}

// lookup 调用方需持有锁
func (c *MemoryCache) lookup(key string) (memoryEntry, bool) {
	e, ok := c.entries[key]
	if !ok || !c.now().Before(e.expiresAt) {
		return memoryEntry{}, false
	}
	return e, true
}

func (c *MemoryCache) evictExpired() {
	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}
