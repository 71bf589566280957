package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// NHL web API
	NHLBaseURL string        `envconfig:"NHL_BASE_URL" default:"https://api-web.nhle.com/v1"`
	NHLTimeout time.Duration `envconfig:"NHL_TIMEOUT" default:"10s"`

	// Seasons (eight-digit NHL season ids)
	SeasonID      string `envconfig:"SEASON_ID" default:"20252026"`
	PriorSeasonID string `envconfig:"PRIOR_SEASON_ID" default:"20242025"`

	// Database
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"nhl_fantasy"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"nhl_user"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" required:"true"`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`

	// Redis fetch cache
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Fetch concurrency cap for boxscore fan-out
	ConcurrencyLimit int `envconfig:"CONCURRENCY_LIMIT" default:"20"`

	// Caching TTL (in seconds); 0 means no expiry. Boxscores are immutable
	// once final, so they never expire; schedules can shift.
	CacheTTLBoxscore int `envconfig:"CACHE_TTL_BOXSCORE" default:"0"`
	CacheTTLSchedule int `envconfig:"CACHE_TTL_SCHEDULE" default:"21600"` // 6 hours

	// Scheduler
	EnableScheduler bool   `envconfig:"ENABLE_SCHEDULER" default:"true"`
	DailyUpdateCron string `envconfig:"DAILY_UPDATE_CRON" default:"0 5 * * *"`

	// Model artifacts
	ModelDir        string `envconfig:"MODEL_DIR" default:"models"`
	TrainingSetPath string `envconfig:"TRAINING_SET_PATH" default:"data/training_set.csv"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_PASSWORD is required")
	}

	if len(c.SeasonID) != 8 {
		return fmt.Errorf("SEASON_ID must be an eight-digit season id, got %q", c.SeasonID)
	}

	if c.ConcurrencyLimit < 1 {
		return fmt.Errorf("CONCURRENCY_LIMIT must be at least 1")
	}

	return nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DatabaseHost,
		c.DatabasePort,
		c.DatabaseUser,
		c.DatabasePassword,
		c.DatabaseName,
		c.DatabaseSSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or panics on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
