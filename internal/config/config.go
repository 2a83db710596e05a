// Package config provides configuration for the application
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Media driver names accepted in MEDIA_DRIVER
const (
	MediaDriverLocal = "local"
	MediaDriverS3    = "s3"
)

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Logging  LoggingConfig
	CORS     CORSConfig
	JWT      JWTConfig
	Media    MediaConfig
	Redis    RedisConfig
	Jobs     JobsConfig
}

// DatabaseConfig holds MongoDB connection settings
type DatabaseConfig struct {
	URI    string
	DBName string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port               int
	MaxUploadSize      int64
	RateLimitPerMinute int
	// MetricsAPIKey protects /metrics when set
	MetricsAPIKey string
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// JWTConfig holds JWT token configuration
type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

// MediaConfig holds media store gateway settings
type MediaConfig struct {
	Driver      string
	BasePath    string
	BaseURL     string
	TempDir     string
	FFProbePath string
	S3          S3Config
}

// S3Config holds S3 bucket settings for the s3 media driver
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	PublicBaseURL   string
	AccessKeyID     string
	SecretAccessKey string
}

// RedisConfig holds Redis connection settings for the background job queue
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Enabled reports whether a Redis host is configured
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

// Addr returns the Redis address in host:port form
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JobsConfig holds background worker settings
type JobsConfig struct {
	// DeleteMaxRetry bounds the retries of a failed remote asset delete
	DeleteMaxRetry int
	// TempSweepSchedule is a standard cron expression
	TempSweepSchedule string
	// TempMaxAge is the age after which an upload temp file counts as abandoned
	TempMaxAge time.Duration
	// MetricsPort is where the worker serves /metrics
	MetricsPort int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	godotenv.Load()

	cfg := &Config{}

	// Database configuration
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is required")
	}
	cfg.Database.URI = mongoURI

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		return nil, fmt.Errorf("MONGO_DB is required")
	}
	cfg.Database.DBName = dbName

	// Server configuration
	serverPort, err := intFromEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	cfg.Server.Port = serverPort

	maxUploadMB, err := intFromEnv("MAX_UPLOAD_SIZE_MB", 200)
	if err != nil {
		return nil, err
	}
	if maxUploadMB <= 0 {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_SIZE_MB: must be positive")
	}
	cfg.Server.MaxUploadSize = int64(maxUploadMB) << 20

	rateLimit, err := intFromEnv("RATE_LIMIT_PER_MINUTE", 100)
	if err != nil {
		return nil, err
	}
	cfg.Server.RateLimitPerMinute = rateLimit

	cfg.Server.MetricsAPIKey = os.Getenv("METRICS_API_KEY") // optional

	// Logging configuration
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info" // default level
	}
	cfg.Logging.Level = logLevel

	// CORS configuration
	cfg.CORS.AllowedOrigins = parseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	cfg.JWT.Secret = jwtSecret

	accessExpiry, err := durationFromEnv("JWT_ACCESS_TOKEN_EXPIRY", "1h")
	if err != nil {
		return nil, err
	}
	cfg.JWT.AccessTokenExpiry = accessExpiry

	refreshExpiry, err := durationFromEnv("JWT_REFRESH_TOKEN_EXPIRY", "168h") // 7 days
	if err != nil {
		return nil, err
	}
	cfg.JWT.RefreshTokenExpiry = refreshExpiry

	// Media configuration
	if err := loadMedia(cfg); err != nil {
		return nil, err
	}

	// Redis and jobs configuration (optional, enables the asset delete retry queue)
	if err := loadJobs(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadJobs fills the Redis and background worker sections
func loadJobs(cfg *Config) error {
	cfg.Redis.Host = os.Getenv("REDIS_HOST")

	redisPort, err := intFromEnv("REDIS_PORT", 6379)
	if err != nil {
		return err
	}
	cfg.Redis.Port = redisPort

	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD") // optional

	redisDB, err := intFromEnv("REDIS_DB", 0)
	if err != nil {
		return err
	}
	cfg.Redis.DB = redisDB

	maxRetry, err := intFromEnv("JOBS_DELETE_MAX_RETRY", 10)
	if err != nil {
		return err
	}
	if maxRetry < 0 {
		return fmt.Errorf("invalid JOBS_DELETE_MAX_RETRY: must not be negative")
	}
	cfg.Jobs.DeleteMaxRetry = maxRetry

	cfg.Jobs.TempSweepSchedule = os.Getenv("JOBS_TEMP_SWEEP_SCHEDULE")
	if cfg.Jobs.TempSweepSchedule == "" {
		cfg.Jobs.TempSweepSchedule = "*/15 * * * *"
	}

	maxAge, err := durationFromEnv("JOBS_TEMP_MAX_AGE", "1h")
	if err != nil {
		return err
	}
	cfg.Jobs.TempMaxAge = maxAge

	metricsPort, err := intFromEnv("JOBS_METRICS_PORT", 9091)
	if err != nil {
		return err
	}
	cfg.Jobs.MetricsPort = metricsPort

	return nil
}

// loadMedia fills the media gateway section and validates driver specific settings
func loadMedia(cfg *Config) error {
	driver := strings.ToLower(strings.TrimSpace(os.Getenv("MEDIA_DRIVER")))
	if driver == "" {
		driver = MediaDriverLocal
	}
	cfg.Media.Driver = driver

	cfg.Media.BasePath = os.Getenv("MEDIA_BASE_PATH")
	if cfg.Media.BasePath == "" {
		cfg.Media.BasePath = "./public/media"
	}

	cfg.Media.BaseURL = strings.TrimRight(os.Getenv("MEDIA_BASE_URL"), "/")
	if cfg.Media.BaseURL == "" {
		cfg.Media.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}

	cfg.Media.TempDir = os.Getenv("UPLOAD_TMP_DIR")
	if cfg.Media.TempDir == "" {
		cfg.Media.TempDir = os.TempDir()
	}

	cfg.Media.FFProbePath = os.Getenv("FFPROBE_PATH")
	if cfg.Media.FFProbePath == "" {
		cfg.Media.FFProbePath = "ffprobe"
	}

	switch driver {
	case MediaDriverLocal:
		return nil
	case MediaDriverS3:
		cfg.Media.S3.Bucket = os.Getenv("S3_BUCKET")
		if cfg.Media.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for s3 media driver")
		}
		cfg.Media.S3.Region = os.Getenv("S3_REGION")
		if cfg.Media.S3.Region == "" {
			return fmt.Errorf("S3_REGION is required for s3 media driver")
		}
		cfg.Media.S3.Endpoint = os.Getenv("S3_ENDPOINT")
		cfg.Media.S3.PublicBaseURL = strings.TrimRight(os.Getenv("S3_PUBLIC_BASE_URL"), "/")
		// Static credentials are optional, the default AWS chain is used otherwise
		cfg.Media.S3.AccessKeyID = os.Getenv("S3_ACCESS_KEY_ID")
		cfg.Media.S3.SecretAccessKey = os.Getenv("S3_SECRET_ACCESS_KEY")
		if (cfg.Media.S3.AccessKeyID == "") != (cfg.Media.S3.SecretAccessKey == "") {
			return fmt.Errorf("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY must be set together")
		}
		return nil
	default:
		return fmt.Errorf("invalid MEDIA_DRIVER: %q", driver)
	}
}

// parseOrigins parses comma-separated origins, defaulting to allow all
func parseOrigins(raw string) []string {
	if raw == "" {
		// Default to allow all origins if not specified (for development)
		return []string{"*"}
	}
	origins := strings.Split(raw, ",")
	allowed := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowed = append(allowed, origin)
		}
	}
	// If no valid origins found, default to allow all
	if len(allowed) == 0 {
		return []string{"*"}
	}
	return allowed
}

func intFromEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func durationFromEnv(key, def string) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		raw = def
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}
