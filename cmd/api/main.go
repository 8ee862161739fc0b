package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodgram-go/internal/api/handler"
	"foodgram-go/internal/api/middleware"
	"foodgram-go/internal/api/router"
	"foodgram-go/internal/config"
	"foodgram-go/internal/infra/database"
	infraES "foodgram-go/internal/infra/elasticsearch"
	infraKafka "foodgram-go/internal/infra/kafka"
	infraMinio "foodgram-go/internal/infra/minio"
	infraRedis "foodgram-go/internal/infra/redis"
	"foodgram-go/internal/repository"
	"foodgram-go/internal/service"
	"foodgram-go/pkg/logger"

	_ "foodgram-go/api/openapi"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title Foodgram API
// @version 1.0
// @description 菜谱分享平台 API 服务

// @host 127.0.0.1:8000
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description 输入格式: Bearer {token}

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

	// 初始化数据库
	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(database.Get()); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	// 初始化Redis（可选）
	if err := infraRedis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to init redis", zap.Error(err))
	}
	defer infraRedis.Close()

	// 初始化MinIO
	if err := infraMinio.Init(&cfg.MinIO); err != nil {
		logger.Fatal("Failed to init minio", zap.Error(err))
	}

	// 初始化Kafka生产者（可选）
	var events service.EventPublisher
	if cfg.Kafka.Enabled {
		if err := infraKafka.InitProducer(&cfg.Kafka); err != nil {
			logger.Fatal("Failed to init kafka producer", zap.Error(err))
		}
		defer infraKafka.CloseProducer()
		events = infraKafka.NewEventPublisher(cfg.Kafka.RecipeEventsTopic())
	}

	// 初始化 Elasticsearch（可选，失败则搜索降级到 DB）
	recipesIndex := cfg.Elasticsearch.RecipesIndex()
	if err := infraES.Init(&cfg.Elasticsearch); err != nil {
		logger.Warn("Elasticsearch init failed, search will fallback to DB", zap.Error(err))
	} else {
		defer infraES.Close()
		if err := infraES.InitIndexes(recipesIndex); err != nil {
			logger.Warn("Elasticsearch index init failed", zap.Error(err))
		}
	}

	gin.SetMode(cfg.App.Mode)
	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(&cfg.CORS))

	// 初始化依赖（Repository -> Service -> Handler）
	db := database.Get()
	userRepo := repository.NewUserRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	tagRepo := repository.NewTagRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	cartRepo := repository.NewShoppingCartRepository(db)
	followRepo := repository.NewFollowRepository(db)
	viewer := service.NewViewerStates(favoriteRepo, cartRepo, followRepo)

	var (
		catalogCache service.CatalogCache
		revoker      service.TokenRevoker
	)
	if infraRedis.Ready() {
		catalogCache = infraRedis.NewCatalogCache(infraRedis.Get(), cfg.Redis.CatalogTTL())
		revoker = infraRedis.NewTokenBlacklist(infraRedis.Get())
	}
	images := infraMinio.NewImageStore(infraMinio.Get(), &cfg.MinIO)

	authService := service.NewAuthService(userRepo, revoker)
	userService := service.NewUserService(userRepo, viewer, images)
	recipeService := service.NewRecipeService(recipeRepo, tagRepo, ingredientRepo, userRepo, viewer, images, events)
	favoriteService := service.NewFavoriteService(favoriteRepo, cartRepo, recipeRepo)
	relationService := service.NewRelationService(followRepo, userRepo, recipeRepo, viewer)
	catalogService := service.NewCatalogService(tagRepo, ingredientRepo, catalogCache)
	searchService := service.NewSearchService(recipeRepo, viewer, recipesIndex)

	// 基础路由
	r.GET("/healthz", healthCheckHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.Setup(r, &router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		User:     handler.NewUserHandler(userService),
		Relation: handler.NewRelationHandler(relationService),
		Recipe:   handler.NewRecipeHandler(recipeService),
		Favorite: handler.NewFavoriteHandler(favoriteService),
		Catalog:  handler.NewCatalogHandler(catalogService),
		Search:   handler.NewSearchHandler(searchService),
	}, authService, middleware.AdminRequired(userService.IsAdmin))

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting application",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("mode", cfg.App.Mode),
		zap.String("addr", addr),
		zap.Bool("redis", infraRedis.Ready()),
		zap.Bool("kafka", cfg.Kafka.Enabled),
		zap.Bool("elasticsearch", infraES.Ready()),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
}

// healthCheckHandler 健康检查接口，依赖状态仅做展示
func healthCheckHandler(c *gin.Context) {
	cfg := config.Get()

	dbStatus := "ok"
	if sqlDB, err := database.Get().DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		dbStatus = "unavailable"
	}

	redisStatus := "disabled"
	if infraRedis.Ready() {
		redisStatus = "ok"
		if err := infraRedis.Ping(c.Request.Context()); err != nil {
			redisStatus = "unavailable"
		}
	}

	status := http.StatusOK
	if dbStatus != "ok" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":        dbStatus,
		"timestamp":     time.Now().Format(time.RFC3339),
		"service":       cfg.App.Name,
		"version":       cfg.App.Version,
		"redis":         redisStatus,
		"elasticsearch": infraES.Ready(),
	})
}
