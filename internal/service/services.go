// Package service contains the application business logic.
package service

import (
	"errors"

	"vintedwatch/internal/config"
	"vintedwatch/internal/external/vinted"
	"vintedwatch/internal/storage"
	"vintedwatch/internal/worker"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Service-level sentinel errors.
var (
	ErrSearchNotFound = errors.New("search not found")
	ErrNotOwner       = errors.New("search belongs to another user")
)

// Sender delivers notification embeds. Implemented by the Discord client.
type Sender interface {
	SendEmbed(channelID, content string, embed *discordgo.MessageEmbed) error
	SendDM(userID string, embed *discordgo.MessageEmbed) error
}

// Services bundles all application services.
type Services struct {
	Search      *SearchService
	Notifier    *Notifier
	Watcher     *Watcher
	Maintenance *Maintenance
	Stats       *Stats
}

// NewServices wires all services together.
func NewServices(db *storage.Postgres, fetcher vinted.Fetcher, sender Sender, cfg *config.Config, logger *zap.Logger) *Services {
	stats := NewStats()

	searchService := NewSearchService(db.GetSearchRepository(), fetcher, logger)

	notifier := NewNotifier(
		sender,
		db.GetSettingRepository(),
		cfg.NotificationChannelID,
		cfg.Language,
		stats,
		logger,
	)

	pool := worker.NewPool(cfg.WorkerCount, cfg.WorkerQueueSize, logger)

	watcher := NewWatcher(WatcherConfig{
		Interval:         cfg.ScrapeInterval,
		SearchSpacing:    cfg.SearchSpacing,
		ListingsPerFetch: cfg.ListingsPerFetch,
	}, searchService, db.GetSeenListingRepository(), fetcher, notifier, pool, stats, logger)

	maintenance := NewMaintenance(db.GetSeenListingRepository(), cfg.CacheExpiry, stats, logger)

	return &Services{
		Search:      searchService,
		Notifier:    notifier,
		Watcher:     watcher,
		Maintenance: maintenance,
		Stats:       stats,
	}
}
