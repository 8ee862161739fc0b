package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/config"
	"foodgram-go/internal/infra/database"
	infraRedis "foodgram-go/internal/infra/redis"
	"foodgram-go/internal/repository"
	"foodgram-go/internal/service"
	"foodgram-go/pkg/logger"

	"go.uber.org/zap"
)

// loaddata 从 JSON 文件导入食材：[{"name": "...", "measurement_unit": "..."}]
func main() {
	configPath := flag.String("config", "configs/config.yaml", "config file path")
	dataPath := flag.String("file", "data/ingredients.json", "ingredients json file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.FilePath); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	raw, err := os.ReadFile(*dataPath)
	if err != nil {
		logger.Fatal("Failed to read data file", zap.String("file", *dataPath), zap.Error(err))
	}
	var items []dto.CreateIngredientRequest
	if err := json.Unmarshal(raw, &items); err != nil {
		logger.Fatal("Failed to decode data file", zap.String("file", *dataPath), zap.Error(err))
	}

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()
	if err := database.Migrate(database.Get()); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	// 导入后需要让 API 进程的目录缓存失效
	var cache service.CatalogCache
	if err := infraRedis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, catalog cache will expire by TTL", zap.Error(err))
	} else if infraRedis.Ready() {
		defer infraRedis.Close()
		cache = infraRedis.NewCatalogCache(infraRedis.Get(), cfg.Redis.CatalogTTL())
	}

	db := database.Get()
	catalog := service.NewCatalogService(repository.NewTagRepository(db), repository.NewIngredientRepository(db), cache)

	created, skipped, err := catalog.ImportIngredients(items)
	if err != nil {
		logger.Fatal("Failed to import ingredients", zap.Error(err))
	}
	fmt.Printf("Imported %d ingredients, skipped %d\n", created, skipped)
}
