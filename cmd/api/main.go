package main

// @title Departures Microservice API
// @version 1.0.0
// @description Микросервис табло отправлений австрийских железных дорог поверх ÖBB HAFAS. Предоставляет API для табло отправлений станций, поиска поездок точка-точка и автодополнения названий станций.
// @description
// @description Основные возможности:
// @description - Табло отправлений с фильтрацией по продуктам и постраничной навигацией
// @description - Поиск поездок с курсорной пагинацией по токенам провайдера
// @description - Автодополнение станций с кешированием результатов
// @description - Самодокументируемый эндпоинт /api

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/departures-microservice/docs"
	"github.com/departures-microservice/internal/config"
	httpDelivery "github.com/departures-microservice/internal/delivery/http"
	"github.com/departures-microservice/internal/delivery/http/handler"
	"github.com/departures-microservice/internal/infrastructure/hafas"
	"github.com/departures-microservice/internal/pkg/logger"
	"github.com/departures-microservice/internal/repository/cache"
	"github.com/departures-microservice/internal/repository/postgres"
	"github.com/departures-microservice/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Departures Microservice")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("hafas_base_url", cfg.HAFAS.BaseURL),
	)

	// 3. Connect to PostgreSQL (search history, best-effort)
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}

	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}

	log.Info("All connections healthy")

	// 6. Initialize Repositories
	transitRepo := hafas.NewClient(&cfg.HAFAS, log)
	cacheRepo := cache.NewCacheRepository(redisClient)
	historyRepo := postgres.NewSearchHistoryRepository(db, log)

	log.Info("Repositories initialized")

	// 7. Initialize Use Cases
	departureUC := usecase.NewDepartureUseCase(
		transitRepo,
		cacheRepo,
		historyRepo,
		log,
		cfg.Cache.StationCacheTTL,
		cfg.Cache.BoardCacheTTL,
	)

	journeyUC := usecase.NewJourneyUseCase(
		transitRepo,
		cacheRepo,
		log,
		cfg.Cache.StationCacheTTL,
	)

	stationUC := usecase.NewStationUseCase(
		transitRepo,
		cacheRepo,
		log,
		cfg.Cache.StationCacheTTL,
	)

	log.Info("Use cases initialized")

	// 8. Initialize HTTP Handlers
	departureHandler := handler.NewDepartureHandler(departureUC, log)
	journeyHandler := handler.NewJourneyHandler(journeyUC, log)
	stationHandler := handler.NewStationHandler(stationUC, log)

	log.Info("HTTP handlers initialized")

	// 9. Initialize HTTP Server
	server := httpDelivery.NewServer(
		cfg,
		log,
		departureHandler,
		journeyHandler,
		stationHandler,
	)

	log.Info("HTTP server initialized")

	// 10. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
