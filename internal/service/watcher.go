package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"vintedwatch/internal/config"
	"vintedwatch/internal/external/vinted"
	"vintedwatch/internal/model"
	"vintedwatch/internal/worker"

	"go.uber.org/zap"
)

var timeNow = time.Now

// WatcherConfig holds the scrape cycle settings.
type WatcherConfig struct {
	Interval         time.Duration
	SearchSpacing    time.Duration
	ListingsPerFetch int
}

// Watcher runs the fetch/parse/dedup/notify cycle on an interval.
type Watcher struct {
	searches *SearchService
	seen     model.SeenListingRepository
	fetcher  vinted.Fetcher
	notifier *Notifier
	pool     *worker.Pool
	stats    *Stats
	logger   *zap.Logger

	spacing          time.Duration
	listingsPerFetch int

	mu         sync.Mutex
	interval   time.Duration
	reconfigCh chan struct{}
}

// NewWatcher creates a watcher.
func NewWatcher(cfg WatcherConfig, searches *SearchService, seen model.SeenListingRepository, fetcher vinted.Fetcher, notifier *Notifier, pool *worker.Pool, stats *Stats, logger *zap.Logger) *Watcher {
	return &Watcher{
		searches:         searches,
		seen:             seen,
		fetcher:          fetcher,
		notifier:         notifier,
		pool:             pool,
		stats:            stats,
		logger:           logger,
		spacing:          cfg.SearchSpacing,
		listingsPerFetch: cfg.ListingsPerFetch,
		interval:         cfg.Interval,
		reconfigCh:       make(chan struct{}, 1),
	}
}

// Interval returns the current scrape interval.
func (w *Watcher) Interval() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.interval
}

// SetInterval changes the scrape interval of the running watcher.
func (w *Watcher) SetInterval(interval time.Duration) error {
	if interval < config.MinScrapeInterval {
		return fmt.Errorf("interval must be at least %s", config.MinScrapeInterval)
	}

	w.mu.Lock()
	w.interval = interval
	w.mu.Unlock()

	// Wake the run loop so the new interval takes effect immediately.
	select {
	case w.reconfigCh <- struct{}{}:
	default:
	}

	w.logger.Info("Scrape interval updated", zap.Duration("interval", interval))
	return nil
}

// Run drives scrape cycles until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	w.pool.Start()
	defer w.pool.Stop()

	w.logger.Info("Watcher started", zap.Duration("interval", w.Interval()))

	timer := time.NewTimer(w.Interval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Watcher stopped")
			return
		case <-w.reconfigCh:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.Interval())
		case <-timer.C:
			w.runCycle(ctx)
			timer.Reset(w.Interval())
		}
	}
}

// runCycle processes every enabled search once. Errors on individual
// searches are logged and never abort the cycle.
func (w *Watcher) runCycle(ctx context.Context) {
	w.logger.Info("Starting scrape cycle")

	searches, err := w.searches.GetEnabled()
	if err != nil {
		w.logger.Error("Failed to load enabled searches", zap.Error(err))
		return
	}

	w.logger.Info("Processing searches", zap.Int("count", len(searches)))

	var wg sync.WaitGroup
	for i := range searches {
		search := searches[i]

		wg.Add(1)
		job := worker.Job{
			SearchID: search.SearchID,
			Keyword:  search.Keyword,
			Handler: func() error {
				defer wg.Done()
				return w.processSearch(ctx, &search)
			},
		}

		if err := w.pool.Submit(job); err != nil {
			wg.Done()
			w.logger.Warn("Failed to enqueue search",
				zap.Int("search_id", search.SearchID),
				zap.Error(err))
			continue
		}

		// Space out submissions so the throttle is not hit in bursts.
		if w.spacing > 0 && i < len(searches)-1 {
			select {
			case <-ctx.Done():
				wg.Wait()
				return
			case <-time.After(w.spacing):
			}
		}
	}

	wg.Wait()

	w.stats.IncCycles()
	w.stats.AddSearchesProcessed(len(searches))
	w.logger.Info("Scrape cycle finished")
}

// processSearch fetches one search and notifies its new listings.
func (w *Watcher) processSearch(ctx context.Context, search *model.Search) error {
	listings, err := w.fetcher.Search(ctx, search, w.listingsPerFetch)
	if err != nil {
		return fmt.Errorf("fetch failed for search %d: %w", search.SearchID, err)
	}

	w.searches.MarkRun(search.SearchID)

	matched := listings[:0]
	for i := range listings {
		if MatchesSearch(search, &listings[i]) {
			matched = append(matched, listings[i])
		}
	}

	if len(matched) == 0 {
		return nil
	}

	ids := make([]string, len(matched))
	byID := make(map[string]*model.Listing, len(matched))
	for i := range matched {
		ids[i] = matched[i].ID
		byID[matched[i].ID] = &matched[i]
	}

	freshIDs, err := w.seen.FilterNew(ids)
	if err != nil {
		return fmt.Errorf("dedup failed for search %d: %w", search.SearchID, err)
	}

	if len(freshIDs) == 0 {
		return nil
	}

	w.logger.Info("New listings found",
		zap.Int("search_id", search.SearchID),
		zap.Int("count", len(freshIDs)))
	w.stats.AddItemsFound(len(freshIDs))

	for _, id := range freshIDs {
		listing := byID[id]

		// Marked seen before the send so a retry cannot double-notify.
		if err := w.seen.Add(id, timeNow()); err != nil {
			w.logger.Error("Failed to mark listing seen",
				zap.String("listing_id", id),
				zap.Error(err))
			continue
		}

		if err := w.notifier.Notify(search, listing); err != nil {
			w.logger.Error("Failed to notify listing",
				zap.String("listing_id", id),
				zap.Int("search_id", search.SearchID),
				zap.Error(err))
		}
	}

	return nil
}
