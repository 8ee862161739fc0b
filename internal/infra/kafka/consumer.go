package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"foodgram-go/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventHandler 处理菜谱事件的回调函数
type EventHandler func(ctx context.Context, event *RecipeEvent) error

// DecodeRecipeEvent 解析消息体
func DecodeRecipeEvent(value []byte) (*RecipeEvent, error) {
	var event RecipeEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return nil, err
	}
	if event.RecipeID <= 0 || event.Type == "" {
		return nil, fmt.Errorf("malformed recipe event: %s", value)
	}
	return &event, nil
}

// StartRecipeEventConsumer 启动菜谱事件消费者（阻塞，ctx 取消后返回）
func StartRecipeEventConsumer(ctx context.Context, brokers []string, topic, groupID string, handler EventHandler) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		StartOffset:    kafka.FirstOffset,
	})

	defer func() {
		if err := reader.Close(); err != nil {
			logger.Error("Failed to close kafka consumer", zap.Error(err))
		}
		logger.Info("Kafka recipe event consumer stopped")
	}()

	logger.Info("Kafka recipe event consumer started",
		zap.String("topic", topic),
		zap.String("group", groupID),
	)

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("Failed to read kafka message", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		event, err := DecodeRecipeEvent(msg.Value)
		if err != nil {
			logger.Error("Failed to decode recipe event",
				zap.Error(err),
				zap.ByteString("value", msg.Value),
			)
			continue
		}

		if err := handler(ctx, event); err != nil {
			logger.Error("Failed to handle recipe event",
				zap.String("type", event.Type),
				zap.Int64("recipe_id", event.RecipeID),
				zap.Error(err),
			)
		}
	}
}
