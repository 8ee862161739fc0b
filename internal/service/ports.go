package service

import (
	"context"
	"time"

	infraKafka "foodgram-go/internal/infra/kafka"
)

// ImageStorage 菜谱图片存储，返回可公开访问的 URL
type ImageStorage interface {
	SaveImage(ctx context.Context, dataURI string) (string, error)
	DeleteImage(ctx context.Context, url string) error
}

// EventPublisher 菜谱生命周期事件发布
type EventPublisher interface {
	PublishRecipeEvent(ctx context.Context, event *infraKafka.RecipeEvent) error
}

// CatalogCache 目录读穿缓存
type CatalogCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Invalidate(ctx context.Context, prefix string) error
}

// TokenRevoker 令牌注销记录
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
