package service

import (
	"time"

	"vintedwatch/internal/model"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Maintenance runs periodic housekeeping: seen-cache expiry and a daily
// stats snapshot in the logs.
type Maintenance struct {
	cron   *cron.Cron
	seen   model.SeenListingRepository
	expiry time.Duration
	stats  *Stats
	logger *zap.Logger
}

// NewMaintenance creates the maintenance scheduler.
func NewMaintenance(seen model.SeenListingRepository, expiry time.Duration, stats *Stats, logger *zap.Logger) *Maintenance {
	return &Maintenance{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		seen:   seen,
		expiry: expiry,
		stats:  stats,
		logger: logger,
	}
}

// Start schedules the maintenance jobs.
func (m *Maintenance) Start() error {
	if _, err := m.cron.AddFunc("@every 1h", m.expireSeenListings); err != nil {
		return err
	}
	if _, err := m.cron.AddFunc("@daily", m.logStats); err != nil {
		return err
	}

	m.cron.Start()
	m.logger.Info("Maintenance jobs scheduled", zap.Duration("seen_expiry", m.expiry))
	return nil
}

// Stop stops the scheduler without interrupting a running job.
func (m *Maintenance) Stop() {
	m.cron.Stop()
	m.logger.Info("Maintenance jobs stopped")
}

// ExpireSeenListings removes seen entries older than the retention window.
func (m *Maintenance) ExpireSeenListings() (int, error) {
	cutoff := timeNow().Add(-m.expiry)
	return m.seen.DeleteOlderThan(cutoff)
}

func (m *Maintenance) expireSeenListings() {
	removed, err := m.ExpireSeenListings()
	if err != nil {
		m.logger.Error("Seen cache expiry failed", zap.Error(err))
		return
	}
	if removed > 0 {
		m.logger.Info("Seen cache cleaned", zap.Int("removed", removed))
	}
}

func (m *Maintenance) logStats() {
	snapshot := m.stats.Snapshot()
	m.logger.Info("Daily stats",
		zap.Int64("cycles_run", snapshot.CyclesRun),
		zap.Int64("searches_processed", snapshot.SearchesProcessed),
		zap.Int64("items_found", snapshot.ItemsFound),
		zap.Int64("notifications_sent", snapshot.NotificationsSent))
}
