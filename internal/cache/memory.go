package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"shinchoku-go/pkg/clock"
)

// memorySnapshotCache 是 SnapshotCache 的进程内实现，
// 在 Redis 未配置时使用。时钟通过构造函数注入，便于测试控制 TTL。
type memorySnapshotCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	clock   clock.Clock
	entries map[string]memoryEntry
}

type memoryEntry struct {
	storedAt time.Time
	data     []byte
}

// NewMemorySnapshotCache 创建一个进程内快照缓存。
func NewMemorySnapshotCache(ttl time.Duration, clk clock.Clock) SnapshotCache {
	return &memorySnapshotCache{
		ttl:     ttl,
		clock:   clk,
		entries: make(map[string]memoryEntry),
	}
}

// Get 读取集合快照，过期条目视为未命中。
// 内容经 JSON 往返，命中返回的是副本，调用方修改不会污染缓存。
func (c *memorySnapshotCache) Get(ctx context.Context, collection string, dest interface{}) bool {
	c.mu.RLock()
	entry, ok := c.entries[collection]
	c.mu.RUnlock()
	if !ok {
		return false
	}
	if c.clock.Now().Sub(entry.storedAt) >= c.ttl {
		return false
	}
	return json.Unmarshal(entry.data, dest) == nil
}

// Put 写入集合快照。
func (c *memorySnapshotCache) Put(ctx context.Context, collection string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.mu.Lock()
	c.entries[collection] = memoryEntry{storedAt: c.clock.Now(), data: data}
	c.mu.Unlock()
}

// Invalidate 删除指定集合的快照。
func (c *memorySnapshotCache) Invalidate(ctx context.Context, collections ...string) {
	c.mu.Lock()
	for _, collection := range collections {
		delete(c.entries, collection)
	}
	c.mu.Unlock()
}
