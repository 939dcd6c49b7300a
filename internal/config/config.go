// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port      int    `validate:"min=1,max=65535"`
	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=text json"`

	// DataDir holds one JSON state file per product line
	DataDir     string `validate:"required"`
	CatalogFile string

	PriceAPIKey    string
	PriceBaseURL   string        `validate:"required,url"`
	PriceTimeout   time.Duration `validate:"gt=0"`
	PriceWorkers   int           `validate:"min=1,max=64"`
	PriceCacheTTL  time.Duration `validate:"gte=0"`
	PriceCacheSize int           `validate:"min=1"`
	// RefreshOnStart refreshes every line's prices when the server starts
	RefreshOnStart bool

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only
func FromEnv() (*Config, error) {
	cfg := &Config{
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "text"),
		DataDir:      getEnv("DATA_DIR", "data"),
		CatalogFile:  getEnv("CATALOG_FILE", ""),
		PriceAPIKey:  getEnv("PRICE_API_KEY", ""),
		PriceBaseURL: getEnv("PRICE_BASE_URL", "https://open.steamdt.com"),
		DBUser:       getEnv("DB_USER", "postgres"),
		DBPassword:   getEnv("DB_PASSWORD", "postgres"),
		DBHost:       getEnv("DB_HOST", ""),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBName:       getEnv("DB_NAME", "craftcalc"),
	}

	var err error
	if cfg.Port, err = getEnvInt("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.PriceWorkers, err = getEnvInt("PRICE_WORKERS", 8); err != nil {
		return nil, err
	}
	if cfg.PriceCacheSize, err = getEnvInt("PRICE_CACHE_SIZE", 512); err != nil {
		return nil, err
	}
	cfg.RefreshOnStart = getEnv("REFRESH_ON_START", "false") == "true"
	if cfg.PriceTimeout, err = getEnvDuration("PRICE_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.PriceCacheTTL, err = getEnvDuration("PRICE_CACHE_TTL", time.Minute); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.PriceAPIKey == "" {
		slog.Warn("PRICE_API_KEY is not set, price refreshes will fail")
	}
	return cfg, nil
}

// Validate checks the struct tags of the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// DatabaseEnabled reports whether price history should be written to PostgreSQL
func (c *Config) DatabaseEnabled() bool {
	return c.DBHost != ""
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}
