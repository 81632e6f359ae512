package database

import (
	"context"

	"github.com/go-redis/redis/v8"
	"shinchoku-go/pkg/log"
)

var RDB *redis.Client

// InitRedis 初始化 Redis 客户端连接。
// 连接失败时返回错误，由调用方决定是否退化为进程内缓存。
func InitRedis(addr, password string, db int) error {
	RDB = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// 测试连接
	ctx := context.Background()
	if err := RDB.Ping(ctx).Err(); err != nil {
		RDB = nil
		return err
	}

	log.Info("Redis client connected successfully")
	return nil
}
