package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"foodgram-go/internal/config"
	"foodgram-go/internal/infra/database"
	infraES "foodgram-go/internal/infra/elasticsearch"
	infraKafka "foodgram-go/internal/infra/kafka"
	"foodgram-go/internal/repository"
	"foodgram-go/internal/service"
	"foodgram-go/pkg/logger"

	"go.uber.org/zap"
)

// worker 消费菜谱事件并同步 Elasticsearch 索引
func main() {
	configPath := "configs/config.yaml"
	if p := os.Getenv("RECIPES_CONFIG"); p != "" {
		configPath = p
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.FilePath); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()

	recipesIndex := cfg.Elasticsearch.RecipesIndex()
	if err := infraES.Init(&cfg.Elasticsearch); err != nil {
		logger.Fatal("Failed to init elasticsearch", zap.Error(err))
	}
	defer infraES.Close()
	if err := infraES.InitIndexes(recipesIndex); err != nil {
		logger.Fatal("Failed to init elasticsearch indexes", zap.Error(err))
	}

	db := database.Get()
	recipeRepo := repository.NewRecipeRepository(db)
	viewer := service.NewViewerStates(
		repository.NewFavoriteRepository(db),
		repository.NewShoppingCartRepository(db),
		repository.NewFollowRepository(db),
	)
	searchService := service.NewSearchService(recipeRepo, viewer, recipesIndex)

	// 启动时全量同步一次，补齐 worker 停机期间遗漏的事件
	if result, err := searchService.SyncAll(); err != nil {
		logger.Error("Initial index sync failed", zap.Error(err))
	} else {
		logger.Info("Initial index sync finished", zap.Int("success", result.Success), zap.Int("failed", result.Failed))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	infraKafka.StartRecipeEventConsumer(
		ctx,
		cfg.Kafka.Brokers,
		cfg.Kafka.RecipeEventsTopic(),
		cfg.Kafka.GroupID,
		searchService.HandleRecipeEvent,
	)
}
