package app

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"vintedwatch/internal/config"
	"vintedwatch/internal/external/discord"
	"vintedwatch/internal/external/vinted"
	"vintedwatch/internal/health"
	"vintedwatch/internal/middleware"
	"vintedwatch/internal/model"
	"vintedwatch/internal/service"
	"vintedwatch/internal/storage"

	"go.uber.org/zap"
)

// ComponentFactory creates the application components.
type ComponentFactory struct {
	config *config.Config
	logger *zap.Logger
}

// NewComponentFactory creates a component factory.
func NewComponentFactory(config *config.Config, logger *zap.Logger) *ComponentFactory {
	if logger == nil {
		panic("Logger cannot be nil")
	}
	if config == nil {
		logger.Fatal("Config cannot be nil")
	}

	return &ComponentFactory{
		config: config,
		logger: logger,
	}
}

// CreateDatabase opens the database connection and runs migrations.
func (f *ComponentFactory) CreateDatabase() (*storage.Postgres, error) {
	if f.config.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := storage.NewPostgres(f.config.DatabaseURL, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	f.logger.Info("Database connection created successfully")
	return db, nil
}

// CreateDiscordClient creates the Discord gateway client.
func (f *ComponentFactory) CreateDiscordClient() (*discord.Client, error) {
	if f.config.BotToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	client, err := discord.NewClient(f.config.BotToken, f.config.GuildID, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord client: %w", err)
	}

	f.logger.Info("Discord client created successfully")
	return client, nil
}

// CreateFetcher creates the Vinted catalog fetcher.
func (f *ComponentFactory) CreateFetcher() vinted.Fetcher {
	fetcherConfig := vinted.Config{
		BaseURL:              f.config.BaseURL,
		UserAgent:            f.config.UserAgent,
		MinRequestDelay:      f.config.MinRequestDelay,
		MaxRequestsPerMinute: f.config.MaxRequestsPerMinute,
		HTTPClientConfig: vinted.HTTPClientConfig{
			MaxIdleConns:          f.config.HTTPClientConfig.MaxIdleConns,
			MaxIdleConnsPerHost:   f.config.HTTPClientConfig.MaxIdleConnsPerHost,
			IdleConnTimeout:       f.config.HTTPClientConfig.IdleConnTimeout,
			TLSHandshakeTimeout:   f.config.HTTPClientConfig.TLSHandshakeTimeout,
			ResponseHeaderTimeout: f.config.HTTPClientConfig.ResponseHeaderTimeout,
			DisableKeepAlives:     f.config.HTTPClientConfig.DisableKeepAlives,
		},
		RetryConfig: vinted.RetryConfig{
			MaxRetries:        f.config.RetryConfig.MaxRetries,
			InitialDelay:      f.config.RetryConfig.InitialDelay,
			MaxDelay:          f.config.RetryConfig.MaxDelay,
			BackoffMultiplier: f.config.RetryConfig.BackoffMultiplier,
		},
	}

	fetcher := vinted.NewFetcher(fetcherConfig, f.logger)
	f.logger.Info("Fetcher created successfully")
	return fetcher
}

// CreateServices creates all application services.
func (f *ComponentFactory) CreateServices(db *storage.Postgres, fetcher vinted.Fetcher, sender service.Sender) (*service.Services, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}

	services := service.NewServices(db, fetcher, sender, f.config, f.logger)
	f.logger.Info("Services created successfully")
	return services, nil
}

// CreateRateLimiter creates the per-user command rate limiter.
func (f *ComponentFactory) CreateRateLimiter() *middleware.RateLimiter {
	rateLimiter := middleware.NewRateLimiter(f.config.RateLimitRequests, f.config.RateLimitWindow, f.logger)
	f.logger.Info("Rate limiter created successfully")
	return rateLimiter
}

// CreateHealthServer creates the health check server, if enabled.
func (f *ComponentFactory) CreateHealthServer(db *storage.Postgres, stats *service.Stats) (*health.Server, error) {
	if !f.config.HealthCheckEnabled {
		f.logger.Info("Health check server is disabled")
		return nil, nil
	}

	if f.config.HealthPort == "" {
		return nil, fmt.Errorf("health port is required when health check is enabled")
	}

	server := health.NewServer(f.config.HealthPort, db, stats, f.logger)
	f.logger.Info("Health check server created", zap.String("port", f.config.HealthPort))
	return server, nil
}

// CreateAppDataDirectory creates the application data directory.
func (f *ComponentFactory) CreateAppDataDirectory() error {
	dataDir := f.config.GetAppDataDir()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		f.logger.Error("Failed to create app data directory", zap.String("dir", dataDir), zap.Error(err))
		return fmt.Errorf("failed to create app data directory: %w", err)
	}
	f.logger.Info("App data directory ready", zap.String("dir", dataDir))
	return nil
}

// CreateBot creates a bot instance with all dependencies wired.
func (f *ComponentFactory) CreateBot() (*Bot, error) {
	if err := f.CreateAppDataDirectory(); err != nil {
		return nil, err
	}

	db, err := f.CreateDatabase()
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	discordClient, err := f.CreateDiscordClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create discord client: %w", err)
	}

	fetcher := f.CreateFetcher()

	services, err := f.CreateServices(db, fetcher, discordClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create services: %w", err)
	}

	healthServer, err := f.CreateHealthServer(db, services.Stats)
	if err != nil {
		return nil, fmt.Errorf("failed to create health server: %w", err)
	}

	rateLimiter := f.CreateRateLimiter()

	bot, err := NewBot(f.config, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	bot.db = db
	bot.discord = discordClient
	bot.health = healthServer
	bot.services = services
	bot.rateLimiter = rateLimiter

	// A persisted interval from a previous run overrides the env value.
	f.applyPersistedInterval(db.GetSettingRepository(), services.Watcher)

	searches, _ := services.Search.GetAll()
	if len(searches) == 0 {
		f.logger.Warn("No searches found; add searches using /vinted add")
	}

	f.logger.Info("Bot created successfully with all dependencies")
	return bot, nil
}

// applyPersistedInterval restores the scrape interval saved by the
// /vinted interval command.
func (f *ComponentFactory) applyPersistedInterval(settings model.SettingRepository, watcher *service.Watcher) {
	value, err := settings.Get(model.SettingScrapeInterval)
	if err != nil || value == "" {
		return
	}

	seconds, err := strconv.Atoi(value)
	if err != nil {
		f.logger.Warn("Ignoring invalid persisted scrape interval", zap.String("value", value))
		return
	}

	if err := watcher.SetInterval(time.Duration(seconds) * time.Second); err != nil {
		f.logger.Warn("Ignoring persisted scrape interval", zap.Error(err))
	}
}

// ValidateConfig checks the configuration for completeness.
func (f *ComponentFactory) ValidateConfig() error {
	if f.config == nil {
		return fmt.Errorf("config is nil")
	}

	if f.config.BotToken == "" {
		return fmt.Errorf("bot token is required")
	}
	if f.config.DatabaseURL == "" {
		return fmt.Errorf("database URL is required")
	}
	if f.config.HealthCheckEnabled && f.config.HealthPort == "" {
		return fmt.Errorf("health port is required when health check is enabled")
	}

	f.logger.Info("Configuration validation passed")
	return nil
}

// GetAppDataDir returns the application data directory.
func (f *ComponentFactory) GetAppDataDir() string {
	return f.config.GetAppDataDir()
}
