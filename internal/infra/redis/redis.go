package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foodgram-go/internal/config"
	"foodgram-go/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrDisabled = errors.New("redis is disabled")

var client *redis.Client

// Init 初始化Redis客户端，redis.enabled=false 时跳过，目录缓存和令牌注销随之关闭
func Init(cfg *config.RedisConfig) error {
	if !cfg.Enabled {
		logger.Info("Redis disabled, catalog cache and token revocation are off")
		return nil
	}

	c := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	client = c

	logger.Info("Redis connected",
		zap.String("addr", cfg.Addr()),
		zap.Int("db", cfg.DB),
		zap.Int("pool_size", cfg.PoolSize),
		zap.Duration("catalog_ttl", cfg.CatalogTTL()),
	)
	return nil
}

// Ready 客户端是否可用
func Ready() bool {
	return client != nil
}

// Ping 健康检查
func Ping(ctx context.Context) error {
	if client == nil {
		return ErrDisabled
	}
	return client.Ping(ctx).Err()
}

// Close 关闭Redis连接
func Close() error {
	if client == nil {
		return nil
	}
	logger.Info("Redis connection closed")
	err := client.Close()
	client = nil
	return err
}

// Get 获取Redis客户端实例，未启用时为 nil
func Get() *redis.Client {
	return client
}
