package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"vintedwatch/internal/config"
	"vintedwatch/internal/external/discord"
	"vintedwatch/internal/health"
	"vintedwatch/internal/middleware"
	"vintedwatch/internal/service"
	"vintedwatch/internal/storage"

	"go.uber.org/zap"
)

// Bot owns the lifecycle of all application components.
type Bot struct {
	config      *config.Config
	logger      *zap.Logger
	db          *storage.Postgres
	discord     *discord.Client
	health      *health.Server
	services    *service.Services
	rateLimiter *middleware.RateLimiter
	stopChan    chan struct{}
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewBot creates a bot shell; components are attached by the factory.
func NewBot(cfg *config.Config, logger *zap.Logger) (*Bot, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Bot{
		config:   cfg,
		logger:   logger,
		stopChan: make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// NewBotWithFactory creates a fully wired bot.
func NewBotWithFactory(cfg *config.Config, logger *zap.Logger) (*Bot, error) {
	factory := NewComponentFactory(cfg, logger)
	return factory.CreateBot()
}

// Start brings up all components and blocks until Stop is called or the
// given context is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot")

	if b.health != nil {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			if err := b.health.Start(); err != nil {
				if err.Error() == "http: Server closed" {
					b.logger.Info("Health check server stopped normally")
				} else {
					b.logger.Error("Health check server failed", zap.Error(err))
				}
			}
		}()
	}

	if b.rateLimiter != nil {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			ticker := time.NewTicker(5 * time.Minute)
			defer ticker.Stop()

			for {
				select {
				case <-ticker.C:
					b.rateLimiter.Cleanup()
				case <-b.ctx.Done():
					b.logger.Info("Rate limiter cleanup stopped")
					return
				}
			}
		}()
	}

	if err := b.services.Maintenance.Start(); err != nil {
		b.logger.Error("Failed to start maintenance jobs", zap.Error(err))
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.services.Watcher.Run(b.ctx)
	}()

	router := NewRouter(
		b.services,
		b.db.GetSettingRepository(),
		b.db.GetSeenListingRepository(),
		b.config,
		b.rateLimiter,
		b.logger,
	)

	if err := b.discord.Start(b.ctx, router); err != nil {
		return fmt.Errorf("failed to start discord client: %w", err)
	}

	b.logger.Info("Bot started successfully")

	select {
	case <-ctx.Done():
		b.logger.Info("Bot context cancelled")
		return ctx.Err()
	case <-b.ctx.Done():
		return nil
	case <-b.stopChan:
		return nil
	}
}

// Stop gracefully shuts the bot down.
func (b *Bot) Stop() error {
	b.logger.Info("Stopping bot gracefully")

	if b.services != nil && b.services.Maintenance != nil {
		b.services.Maintenance.Stop()
	}

	if b.discord != nil {
		if err := b.discord.Stop(); err != nil {
			b.logger.Error("Failed to stop discord client", zap.Error(err))
		}
	}

	if b.cancel != nil {
		b.cancel()
	}

	select {
	case <-b.stopChan:
	default:
		close(b.stopChan)
	}

	if b.health != nil {
		if err := b.health.Stop(); err != nil {
			b.logger.Error("Failed to stop health check server", zap.Error(err))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		b.wg.Wait()
	}()

	select {
	case <-done:
		b.logger.Info("All goroutines stopped successfully")
	case <-shutdownCtx.Done():
		b.logger.Warn("Graceful shutdown timeout exceeded, forcing stop")
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			b.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	b.logger.Info("Bot stopped successfully")
	return nil
}
