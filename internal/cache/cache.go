// Package cache 提供集合级别的快照读缓存。
// 缓存只为实时后端的全量读取挡流量，TTL 为数十秒量级；
// 任何成功的写入都必须使其可能影响到的集合失效。
package cache

import "context"

// 缓存键按持久化集合划分。
const (
	CollectionOrganizations = "organizations"
	CollectionTasks         = "tasks"
	CollectionProgress      = "progress"
)

// SnapshotCache 是快照缓存的统一接口。
// Get 在命中时把缓存内容反序列化到 dest 并返回 true；
// 缓存自身的故障从不影响读路径，实现应把故障当作未命中处理。
type SnapshotCache interface {
	Get(ctx context.Context, collection string, dest interface{}) bool
	Put(ctx context.Context, collection string, value interface{})
	Invalidate(ctx context.Context, collections ...string)
}
