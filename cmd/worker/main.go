package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/videotube/backend/internal/config"
	"github.com/videotube/backend/internal/jobs"
	"github.com/videotube/backend/internal/logger"
	"github.com/videotube/backend/internal/mediastore"
	"github.com/videotube/backend/internal/metrics"
	"github.com/videotube/backend/internal/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting VideoTube worker")

	if !cfg.Redis.Enabled() {
		logger.Logger.Fatal("REDIS_HOST is required for the worker")
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	// Test Redis connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	// Plain gateway: a failed retry goes back to asynq, never to the queue again
	recorder := metrics.New()
	media, err := mediastore.New(ctx, cfg.Media, recorder, logger.Logger)
	if err != nil {
		logger.Logger.Fatal("Failed to initialize media store", zap.Error(err))
	}

	// Create Asynq server
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				jobs.QueueMedia: 1,
			},
			Logger: logger.Logger.Sugar(),
		},
	)

	worker := jobs.NewWorker(media, logger.Logger)

	// Start worker
	go func() {
		if err := srv.Run(worker.Mux()); err != nil {
			logger.Logger.Fatal("Failed to start worker", zap.Error(err))
		}
	}()

	// Schedule the temp upload sweep
	scheduler := cron.New()
	sweeper := jobs.NewTempSweeper(cfg.Media.TempDir, cfg.Jobs.TempMaxAge, logger.Logger)
	if _, err := sweeper.Schedule(scheduler, cfg.Jobs.TempSweepSchedule); err != nil {
		logger.Logger.Fatal("Failed to schedule temp sweep", zap.Error(err))
	}
	scheduler.Start()

	// Serve worker metrics
	metricsSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Jobs.MetricsPort),
		Handler:           middleware.APIKeyMiddleware(cfg.Server.MetricsAPIKey)(recorder.Handler()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Error("Metrics server failed", zap.Error(err))
		}
	}()

	logger.Logger.Info("Worker started",
		zap.String("temp_dir", cfg.Media.TempDir),
		zap.String("sweep_schedule", cfg.Jobs.TempSweepSchedule),
		zap.Int("metrics_port", cfg.Jobs.MetricsPort),
	)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down worker...")
	<-scheduler.Stop().Done()
	srv.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error("Metrics server forced to shutdown", zap.Error(err))
	}
	logger.Logger.Info("Worker exited")
}
