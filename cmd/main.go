package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-redis/redis/v8"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mongodb"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/hibiken/asynq"
	httpSwagger "github.com/swaggo/http-swagger"
	_ "github.com/videotube/backend/docs"
	"github.com/videotube/backend/internal/auth"
	"github.com/videotube/backend/internal/config"
	"github.com/videotube/backend/internal/handlers"
	"github.com/videotube/backend/internal/jobs"
	"github.com/videotube/backend/internal/logger"
	loggerMiddleware "github.com/videotube/backend/internal/logger/middleware"
	"github.com/videotube/backend/internal/mediastore"
	"github.com/videotube/backend/internal/metrics"
	"github.com/videotube/backend/internal/middleware"
	"github.com/videotube/backend/internal/repositories"
	"github.com/videotube/backend/internal/services"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// @title VideoTube API
// @version 1.0
// @description API for publishing and watching videos, with comments, likes, tweets, subscriptions and playlists

// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Bearer access token
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

	logger.Logger.Info("Starting VideoTube backend", zap.String("media_driver", cfg.Media.Driver))

	// Connect to database
	client, err := connectDB(cfg.Database.URI)
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			logger.Logger.Error("Failed to disconnect from database", zap.Error(err))
		}
	}()
	db := client.Database(cfg.Database.DBName)

	// Run migrations
	if err := runMigrations(client, cfg.Database.DBName); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize metrics and media store
	recorder := metrics.New()
	media, err := mediastore.New(context.Background(), cfg.Media, recorder, logger.Logger)
	if err != nil {
		logger.Logger.Fatal("Failed to initialize media store", zap.Error(err))
	}

	// Queue failed asset deletes for the worker when Redis is configured
	if cfg.Redis.Enabled() {
		if err := pingRedis(cfg.Redis); err != nil {
			logger.Logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		asynqClient := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer asynqClient.Close()
		media = jobs.NewRetryingGateway(media, asynqClient, cfg.Jobs.DeleteMaxRetry, logger.Logger)
		logger.Logger.Info("Asset delete retry queue enabled", zap.String("redis", cfg.Redis.Addr()))
	}

	// Initialize JWT token generator
	tokenGenerator := auth.NewTokenGenerator(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	videoRepo := repositories.NewVideoRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	likeRepo := repositories.NewLikeRepository(db)
	tweetRepo := repositories.NewTweetRepository(db)
	subscriptionRepo := repositories.NewSubscriptionRepository(db)
	playlistRepo := repositories.NewPlaylistRepository(db)
	dashboardRepo := repositories.NewDashboardRepository(db)

	// Initialize services
	userService := services.NewUserService(userRepo, tokenGenerator, media, recorder, logger.Logger)
	videoService := services.NewVideoService(videoRepo, media, recorder, logger.Logger)
	commentService := services.NewCommentService(commentRepo, logger.Logger)
	likeService := services.NewLikeService(likeRepo, logger.Logger)
	tweetService := services.NewTweetService(tweetRepo, userRepo, logger.Logger)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, logger.Logger)
	playlistService := services.NewPlaylistService(playlistRepo, logger.Logger)
	dashboardService := services.NewDashboardService(dashboardRepo, dashboardRepo, logger.Logger)

	// Initialize handlers
	cookies := handlers.CookieSettings{
		AccessMaxAge:  tokenGenerator.AccessTokenExpiry(),
		RefreshMaxAge: tokenGenerator.RefreshTokenExpiry(),
	}
	userHandler := handlers.NewUserHandler(userService, cookies, cfg.Media.TempDir, logger.Logger)
	videoHandler := handlers.NewVideoHandler(videoService, cfg.Media.TempDir, logger.Logger)
	commentHandler := handlers.NewCommentHandler(commentService, logger.Logger)
	likeHandler := handlers.NewLikeHandler(likeService, logger.Logger)
	tweetHandler := handlers.NewTweetHandler(tweetService, logger.Logger)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService, logger.Logger)
	playlistHandler := handlers.NewPlaylistHandler(playlistService, logger.Logger)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, logger.Logger)

	authMiddleware := middleware.AuthMiddleware(tokenGenerator)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(loggerMiddleware.LoggerMiddleware(logger.Logger))
	r.Use(middleware.RecoveryMiddleware(logger.Logger))
	r.Use(recorder.Middleware)
	r.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(cfg.Server.RateLimitPerMinute, time.Minute))
	r.Use(middleware.RequestSizeLimitMiddleware(cfg.Server.MaxUploadSize))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	// Prometheus metrics
	r.With(middleware.APIKeyMiddleware(cfg.Server.MetricsAPIKey)).Handle("/metrics", recorder.Handler())

	// Files stored by the local media driver
	if cfg.Media.Driver == config.MediaDriverLocal {
		r.Handle(mediastore.LocalURLPrefix+"*", http.StripPrefix(mediastore.LocalURLPrefix, http.FileServer(http.Dir(cfg.Media.BasePath))))
	}

	// Scope router to /api/v1
	r.Route("/api/v1", func(r chi.Router) {
		userHandler.RegisterRoutes(r, authMiddleware)
		videoHandler.RegisterRoutes(r, authMiddleware)
		commentHandler.RegisterRoutes(r, authMiddleware)
		likeHandler.RegisterRoutes(r, authMiddleware)
		tweetHandler.RegisterRoutes(r, authMiddleware)
		subscriptionHandler.RegisterRoutes(r, authMiddleware)
		playlistHandler.RegisterRoutes(r, authMiddleware)
		dashboardHandler.RegisterRoutes(r, authMiddleware)
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  5 * time.Minute, // Longer timeout for video uploads
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// connectDB connects to MongoDB and checks that the primary answers
func connectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(25).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(5*time.Minute))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return client, nil
}

// pingRedis checks that the Redis server behind the job queue answers
func pingRedis(cfg config.RedisConfig) error {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return rdb.Ping(ctx).Err()
}

// runMigrations creates the collections' indexes
func runMigrations(client *mongo.Client, dbName string) error {
	driver, err := mongodb.WithInstance(client, &mongodb.Config{
		DatabaseName:         dbName,
		MigrationsCollection: "schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Get the working directory or use migrations folder relative to the binary
	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		// Try parent directory if running from cmd
		if _, err := os.Stat("../migrations"); err == nil {
			migrationPath = "file://../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(migrationPath, "mongodb", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
