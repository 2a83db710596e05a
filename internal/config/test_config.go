package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadTestConfig loads the configuration from the .env file or environment variables for integration tests
// If TEST_MONGO_URI is not set, returns a Config with empty values
// which allows integration tests to skip themselves
func LoadTestConfig() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist - it's optional)
	// Try both possible paths
	_ = godotenv.Load("./../../.env")
	_ = godotenv.Load()

	cfg := &Config{}
	mongoURI := os.Getenv("TEST_MONGO_URI")
	if mongoURI == "" {
		// Return empty config so tests can skip
		return cfg, nil
	}
	cfg.Database.URI = mongoURI

	dbName := os.Getenv("TEST_MONGO_DB")
	if dbName == "" {
		dbName = "videotube_test"
	}
	cfg.Database.DBName = dbName

	cfg.JWT.Secret = os.Getenv("TEST_JWT_SECRET")
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = "integration-secret"
	}

	return cfg, nil
}
