// Package config loads and validates the application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	// Database
	DatabaseURL string

	// Discord
	BotToken              string
	GuildID               string
	AdminUserID           string
	NotificationChannelID string

	// Watcher
	ScrapeInterval   time.Duration
	SearchSpacing    time.Duration
	ListingsPerFetch int
	CacheExpiry      time.Duration
	Language         string

	// Scraper
	BaseURL              string
	UserAgent            string
	MinRequestDelay      time.Duration
	MaxRequestsPerMinute int

	// HTTP client
	HTTPClientConfig HTTPClientConfig

	// Retry
	RetryConfig RetryConfig

	// Workers
	WorkerCount     int
	WorkerQueueSize int

	// Rate limiting of bot commands
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Health
	HealthPort         string
	HealthCheckEnabled bool

	// Logging
	LogLevel string

	// App data directory
	AppDataDir string
}

// HTTPClientConfig holds HTTP transport settings.
type HTTPClientConfig struct {
	MaxIdleConns          int
	MaxIdleConnsPerHost   int
	IdleConnTimeout       time.Duration
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration
	DisableKeepAlives     bool
}

// RetryConfig holds retry/backoff settings.
type RetryConfig struct {
	MaxRetries        int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
}

// MinScrapeInterval is the lowest interval the watcher accepts,
// both at load time and from the /vinted interval command.
const MinScrapeInterval = 30 * time.Second

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	// A missing .env file is fine, variables come from the environment.
	_ = godotenv.Load()

	config := &Config{
		DatabaseURL:           getEnv("DB_DSN", ""),
		BotToken:              getEnv("DISCORD_TOKEN", ""),
		GuildID:               getEnv("DISCORD_GUILD_ID", ""),
		AdminUserID:           getEnv("ADMIN_USER_ID", ""),
		NotificationChannelID: getEnv("NOTIFICATION_CHANNEL_ID", ""),
		ScrapeInterval:        getEnvDuration("SCRAPE_INTERVAL", 90*time.Second),
		SearchSpacing:         getEnvDuration("SEARCH_SPACING", 2*time.Second),
		ListingsPerFetch:      getEnvInt("LISTINGS_PER_FETCH", 20),
		CacheExpiry:           getEnvDuration("CACHE_EXPIRY", 24*time.Hour),
		Language:              getEnv("LANGUAGE", "fr"),
		BaseURL:               getEnv("VINTED_BASE_URL", "https://www.vinted.fr"),
		UserAgent:             getEnv("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		MinRequestDelay:       getEnvDuration("MIN_REQUEST_DELAY", 3*time.Second),
		MaxRequestsPerMinute:  getEnvInt("MAX_REQUESTS_PER_MINUTE", 10),
		HTTPClientConfig: HTTPClientConfig{
			MaxIdleConns:          getEnvInt("HTTP_MAX_IDLE_CONNS", 100),
			MaxIdleConnsPerHost:   getEnvInt("HTTP_MAX_IDLE_CONNS_PER_HOST", 10),
			IdleConnTimeout:       getEnvDuration("HTTP_IDLE_CONN_TIMEOUT", 90*time.Second),
			TLSHandshakeTimeout:   getEnvDuration("HTTP_TLS_HANDSHAKE_TIMEOUT", 10*time.Second),
			ResponseHeaderTimeout: getEnvDuration("HTTP_RESPONSE_HEADER_TIMEOUT", 30*time.Second),
			DisableKeepAlives:     getEnvBool("HTTP_DISABLE_KEEP_ALIVES", false),
		},
		RetryConfig: RetryConfig{
			MaxRetries:        getEnvInt("RETRY_MAX_RETRIES", 3),
			InitialDelay:      getEnvDuration("RETRY_INITIAL_DELAY", 1*time.Second),
			MaxDelay:          getEnvDuration("RETRY_MAX_DELAY", 30*time.Second),
			BackoffMultiplier: getEnvFloat("RETRY_BACKOFF_MULTIPLIER", 2.0),
		},
		WorkerCount:        getEnvInt("WORKER_COUNT", 3),
		WorkerQueueSize:    getEnvInt("WORKER_QUEUE_SIZE", 64),
		RateLimitRequests:  getEnvInt("RATE_LIMIT_REQUESTS", 10),
		RateLimitWindow:    getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		HealthPort:         getEnv("HEALTH_PORT", "8080"),
		HealthCheckEnabled: getEnvBool("HEALTH_CHECK_ENABLED", true),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		AppDataDir:         getEnv("APP_DATA_DIR", "./data"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if c.ScrapeInterval < MinScrapeInterval {
		return fmt.Errorf("SCRAPE_INTERVAL must be at least %s", MinScrapeInterval)
	}
	if c.ListingsPerFetch <= 0 {
		return fmt.Errorf("LISTINGS_PER_FETCH must be positive")
	}
	if c.MaxRequestsPerMinute <= 0 {
		return fmt.Errorf("MAX_REQUESTS_PER_MINUTE must be positive")
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("WORKER_COUNT must be positive")
	}
	if c.Language != "fr" && c.Language != "en" {
		return fmt.Errorf("LANGUAGE must be fr or en, got %q", c.Language)
	}
	if c.HealthCheckEnabled {
		port, err := strconv.Atoi(c.HealthPort)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("HEALTH_PORT must be a valid port, got %q", c.HealthPort)
		}
	}
	return nil
}

// GetAppDataDir returns the application data directory.
func (c *Config) GetAppDataDir() string {
	return c.AppDataDir
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
		// Plain integers are treated as seconds.
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
