package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/departures-microservice/internal/config"
	"github.com/departures-microservice/internal/infrastructure/hafas"
	"github.com/departures-microservice/internal/pkg/logger"
	"github.com/departures-microservice/internal/repository/cache"
	"github.com/departures-microservice/internal/store"
	"github.com/departures-microservice/internal/usecase"
	"github.com/departures-microservice/internal/worker"
	"github.com/departures-microservice/internal/worker/board"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Check if refresh worker is enabled
	if !cfg.Refresh.Enabled {
		fmt.Println("Refresh worker is disabled in configuration. Set REFRESH_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Board Refresh Worker")
	log.Info("Configuration loaded",
		zap.Duration("interval", cfg.Refresh.Interval),
		zap.String("hafas_base_url", cfg.HAFAS.BaseURL))

	// 3. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 4. Initialize repositories
	transitRepo := hafas.NewClient(&cfg.HAFAS, log)
	cacheRepo := cache.NewCacheRepository(redisClient)

	// 5. Initialize use cases and store
	departureUC := usecase.NewDepartureUseCase(
		transitRepo,
		cacheRepo,
		nil, // история поисков не нужна воркеру
		log,
		cfg.Cache.StationCacheTTL,
		0, // воркер всегда берёт живые данные, без кеша табло
	)

	stationUC := usecase.NewStationUseCase(
		transitRepo,
		cacheRepo,
		log,
		cfg.Cache.StationCacheTTL,
	)

	boardStore := store.New(log)
	defer boardStore.Close()

	// 6. Initialize workers
	refreshWorker := board.NewRefreshWorker(
		departureUC,
		stationUC,
		boardStore,
		cfg.Refresh.Interval,
		log,
	)

	// 7. Create worker manager and register workers
	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(refreshWorker)

	// 8. Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start workers
	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	// Cancel context to stop workers
	cancel()

	// Stop worker manager
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
