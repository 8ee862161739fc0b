package elasticsearch

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"foodgram-go/pkg/logger"

	"go.uber.org/zap"
)

// RecipesIndexMapping 返回 recipes 索引的 mapping
func RecipesIndexMapping() string {
	return `{
		"settings": {
			"number_of_shards": 1,
			"number_of_replicas": 0,
			"analysis": {
				"analyzer": {
					"recipe_text": {
						"type": "custom",
						"tokenizer": "standard",
						"filter": ["lowercase"]
					}
				}
			}
		},
		"mappings": {
			"properties": {
				"id": {"type": "long"},
				"author_id": {"type": "long"},
				"author_username": {"type": "keyword"},
				"name": {
					"type": "text",
					"analyzer": "recipe_text",
					"fields": {"keyword": {"type": "keyword", "ignore_above": 200}}
				},
				"text": {"type": "text", "analyzer": "recipe_text"},
				"tags": {"type": "keyword"},
				"ingredients": {"type": "text", "analyzer": "recipe_text"},
				"cooking_time": {"type": "integer"},
				"pub_date": {"type": "date", "format": "strict_date_optional_time||epoch_millis"}
			}
		}
	}`
}

// EnsureIndex 确保索引存在，不存在则按 mapping 创建
func EnsureIndex(ctx context.Context, indexName, mapping string) error {
	exists, err := IndicesExists(ctx, indexName)
	if err != nil {
		return fmt.Errorf("check index exists: %w", err)
	}
	if exists {
		logger.Info("Elasticsearch index already exists", zap.String("index", indexName))
		return nil
	}

	resp, err := IndicesCreate(ctx, indexName, bytes.NewReader([]byte(mapping)))
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("create index failed: %s", resp.String())
	}

	logger.Info("Elasticsearch index created", zap.String("index", indexName))
	return nil
}

// InitIndexes 初始化所有索引（启动时调用）
func InitIndexes(recipesIndex string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return EnsureIndex(ctx, recipesIndex, RecipesIndexMapping())
}
