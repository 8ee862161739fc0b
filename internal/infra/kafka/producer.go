package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"foodgram-go/internal/config"
	"foodgram-go/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var producer *kafka.Writer

// 菜谱事件类型
const (
	RecipeCreated = "recipe.created"
	RecipeUpdated = "recipe.updated"
	RecipeDeleted = "recipe.deleted"
)

// RecipeEvent 菜谱生命周期事件消息体
type RecipeEvent struct {
	Type       string    `json:"type"`
	RecipeID   int64     `json:"recipe_id"`
	AuthorID   int64     `json:"author_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Key 同一菜谱的事件落在同一分区，保证顺序
func (e *RecipeEvent) Key() []byte {
	return []byte("recipe-" + strconv.FormatInt(e.RecipeID, 10))
}

// InitProducer 初始化 Kafka 生产者
func InitProducer(cfg *config.KafkaConfig) error {
	if len(cfg.Brokers) == 0 {
		return fmt.Errorf("kafka brokers is empty")
	}

	producer = &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	logger.Info("Kafka producer initialized",
		zap.Strings("brokers", cfg.Brokers),
	)

	return nil
}

// EventPublisher 将菜谱事件写入指定 topic
type EventPublisher struct {
	topic string
}

func NewEventPublisher(topic string) *EventPublisher {
	return &EventPublisher{topic: topic}
}

// PublishRecipeEvent 发送菜谱事件
func (p *EventPublisher) PublishRecipeEvent(ctx context.Context, event *RecipeEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe event: %w", err)
	}

	if err := SendRaw(ctx, p.topic, event.Key(), payload); err != nil {
		return err
	}

	logger.Debug("Recipe event sent",
		zap.String("type", event.Type),
		zap.Int64("recipe_id", event.RecipeID),
		zap.String("topic", p.topic),
	)
	return nil
}

// SendRaw 发送原始消息到指定 topic
func SendRaw(ctx context.Context, topic string, key, value []byte) error {
	if producer == nil {
		return fmt.Errorf("kafka producer not initialized")
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   key,
		Value: value,
	}

	if err := producer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to send kafka message: %w", err)
	}
	return nil
}

// CloseProducer 关闭生产者
func CloseProducer() error {
	if producer == nil {
		return nil
	}
	logger.Info("Kafka producer closed")
	return producer.Close()
}
