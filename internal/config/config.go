package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the rendezvous server
type Config struct {
	// Common
	Environment string
	LogLevel    string

	Server ServerConfig
}

// ServerConfig holds HTTP/WebSocket server configuration
type ServerConfig struct {
	Port           int
	StaticDir      string // directory served at "/"; empty disables static hosting
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	PingInterval   time.Duration
	MaxConnections int
	SendBuffer     int // per-connection outbound queue length
}

// Load loads configuration from environment variables.
// It automatically loads a .env file if one exists in the working directory.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Server: ServerConfig{
			Port:           getEnvAsInt("PORT", 3000),
			StaticDir:      lookupEnv("STATIC_DIR", "public"),
			ReadTimeout:    getEnvAsDuration("WS_READ_TIMEOUT", 60*time.Second),
			WriteTimeout:   getEnvAsDuration("WS_WRITE_TIMEOUT", 10*time.Second),
			PingInterval:   getEnvAsDuration("WS_PING_INTERVAL", 30*time.Second),
			MaxConnections: getEnvAsInt("WS_MAX_CONNECTIONS", 1000),
			SendBuffer:     getEnvAsInt("WS_SEND_BUFFER", 256),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be a valid TCP port, got %d", c.Server.Port)
	}
	if c.Server.MaxConnections <= 0 {
		return fmt.Errorf("WS_MAX_CONNECTIONS must be positive, got %d", c.Server.MaxConnections)
	}
	if c.Server.SendBuffer <= 0 {
		return fmt.Errorf("WS_SEND_BUFFER must be positive, got %d", c.Server.SendBuffer)
	}
	if c.Server.PingInterval >= c.Server.ReadTimeout {
		return fmt.Errorf("WS_PING_INTERVAL (%s) must be shorter than WS_READ_TIMEOUT (%s)",
			c.Server.PingInterval, c.Server.ReadTimeout)
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// lookupEnv is getEnv for keys where an explicitly empty value is meaningful,
// such as STATIC_DIR="" turning off static hosting.
func lookupEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
