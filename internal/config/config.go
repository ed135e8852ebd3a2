package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	Environment string
	Version     string
	LogLevel    string
	LogFormat   string
	LogDir      string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	APIKey string // API key for the ops endpoints

	BridgeURL      string // WebSocket endpoint of the live-source bridge
	BridgePassword string

	FlushInterval       time.Duration
	GoalCooldownMinutes int
	EventRetentionDays  int
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		Environment:    getEnv("ENVIRONMENT", "dev"),
		Version:        getEnv("VERSION", "dev"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		LogDir:         getEnv("LOG_DIR", "logs"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBName:         getEnv("DB_NAME", "giftrally"),
		APIKey:         getEnv("API_KEY", ""),
		BridgeURL:      getEnv("BRIDGE_WS_URL", DefaultBridgeURL),
		BridgePassword: getEnv("BRIDGE_WS_PASSWORD", ""),
	}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	flushMs, err := strconv.Atoi(getEnv("FLUSH_INTERVAL_MS", strconv.Itoa(DefaultFlushIntervalMs)))
	if err != nil {
		return nil, fmt.Errorf("invalid FLUSH_INTERVAL_MS value: %w", err)
	}
	if flushMs < MinFlushIntervalMs {
		return nil, fmt.Errorf("FLUSH_INTERVAL_MS must be at least %d", MinFlushIntervalMs)
	}
	cfg.FlushInterval = time.Duration(flushMs) * time.Millisecond

	cooldown, err := strconv.Atoi(getEnv("GOAL_COOLDOWN_MINUTES", strconv.Itoa(DefaultGoalCooldownMinutes)))
	if err != nil {
		return nil, fmt.Errorf("invalid GOAL_COOLDOWN_MINUTES value: %w", err)
	}
	cfg.GoalCooldownMinutes = cooldown

	retention, err := strconv.Atoi(getEnv("EVENT_RETENTION_DAYS", strconv.Itoa(DefaultEventRetentionDays)))
	if err != nil {
		return nil, fmt.Errorf("invalid EVENT_RETENTION_DAYS value: %w", err)
	}
	cfg.EventRetentionDays = retention

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
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
