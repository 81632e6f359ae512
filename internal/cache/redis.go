package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"shinchoku-go/pkg/log"
)

// redisSnapshotCache 是 SnapshotCache 的 Redis 实现。
// 快照以 JSON 形式存储，过期由 Redis 的键 TTL 保证。
type redisSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSnapshotCache 创建一个基于 Redis 的快照缓存。
func NewRedisSnapshotCache(client *redis.Client, ttl time.Duration) SnapshotCache {
	return &redisSnapshotCache{client: client, ttl: ttl}
}

func snapshotKey(collection string) string {
	return "snapshot:" + collection
}

// Get 读取集合快照。键不存在、读取失败或反序列化失败都按未命中处理。
func (c *redisSnapshotCache) Get(ctx context.Context, collection string, dest interface{}) bool {
	data, err := c.client.Get(ctx, snapshotKey(collection)).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		log.Warnf("读取缓存快照失败（按未命中处理）: collection=%s, err=%v", collection, err)
		return false
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		log.Warnf("缓存快照反序列化失败（按未命中处理）: collection=%s, err=%v", collection, err)
		return false
	}
	return true
}

// Put 写入集合快照，失败只记录日志，不影响调用方。
func (c *redisSnapshotCache) Put(ctx context.Context, collection string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Warnf("缓存快照序列化失败: collection=%s, err=%v", collection, err)
		return
	}
	if err := c.client.Set(ctx, snapshotKey(collection), data, c.ttl).Err(); err != nil {
		log.Warnf("写入缓存快照失败: collection=%s, err=%v", collection, err)
	}
}

// Invalidate 删除指定集合的快照。
func (c *redisSnapshotCache) Invalidate(ctx context.Context, collections ...string) {
	for _, collection := range collections {
		if err := c.client.Del(ctx, snapshotKey(collection)).Err(); err != nil {
			log.Warnf("缓存失效操作失败: collection=%s, err=%v", collection, err)
		}
	}
}
