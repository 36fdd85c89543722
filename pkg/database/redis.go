package database

import (
	"context"
	"fmt"
	"time"

	"puzzle_quiz_backend/internal/config"
	"puzzle_quiz_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const redisPingTimeout = 3 * time.Second

// RedisOptions 闪存消息只做短 key 读写，连接池不需要很大
func RedisOptions(cfg *config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  redisPingTimeout,
		PoolSize:     10,
		MinIdleConns: 1,
	}
}

// InitRedis 连接并确认 Redis 可用，失败时关闭客户端
func InitRedis(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	opts := RedisOptions(cfg)
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}

	logger.Log.Info("Redis connection established", zap.String("addr", opts.Addr), zap.Int("db", opts.DB))
	return rdb, nil
}
