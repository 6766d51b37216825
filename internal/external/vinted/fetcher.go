package vinted

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"vintedwatch/internal/model"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// rateLimitCooldown is how long the fetcher backs off after a 429 before
// the single extra attempt.
const rateLimitCooldown = 60 * time.Second

type fetcherImpl struct {
	config   Config
	throttle *Throttle
	logger   *zap.Logger
}

var _ Fetcher = (*fetcherImpl)(nil)

// NewFetcher creates a catalog fetcher.
func NewFetcher(config Config, logger *zap.Logger) Fetcher {
	return &fetcherImpl{
		config:   config,
		throttle: NewThrottle(config.MinRequestDelay, config.MaxRequestsPerMinute, logger),
		logger:   logger,
	}
}

// Search fetches the catalog page for a saved search and extracts up to
// limit listings. A 429 triggers one cool-down retry; a 403 aborts.
func (f *fetcherImpl) Search(ctx context.Context, search *model.Search, limit int) ([]model.Listing, error) {
	searchURL := BuildSearchURL(f.config.BaseURL, search)
	f.logger.Info("Fetching Vinted catalog",
		zap.Int("search_id", search.SearchID),
		zap.String("url", searchURL))

	listings, err := f.fetchWithRetry(ctx, searchURL, search, limit)
	if errors.Is(err, ErrRateLimited) {
		f.logger.Warn("Rate limited by Vinted, cooling down",
			zap.Duration("cooldown", rateLimitCooldown))
		if sleepErr := sleepCtx(ctx, rateLimitCooldown); sleepErr != nil {
			return nil, sleepErr
		}
		listings, err = f.fetchWithRetry(ctx, searchURL, search, limit)
	}
	if err != nil {
		return nil, err
	}

	if len(listings) == 0 {
		f.logger.Warn("No listings extracted, page structure may have changed",
			zap.Int("search_id", search.SearchID))
	} else {
		f.logger.Info("Catalog fetched",
			zap.Int("search_id", search.SearchID),
			zap.Int("listings", len(listings)))
	}

	return listings, nil
}

// fetchWithRetry wraps a single catalog fetch in the backoff policy.
// 403 and 429 stop the backoff loop immediately.
func (f *fetcherImpl) fetchWithRetry(ctx context.Context, searchURL string, search *model.Search, limit int) ([]model.Listing, error) {
	var (
		listings []model.Listing
		permErr  error
	)

	err := WithRetry(ctx, f.logger, f.config.RetryConfig, func() error {
		if err := f.throttle.Wait(ctx); err != nil {
			return err
		}

		result, err := f.fetchOnce(ctx, searchURL, search, limit)
		if errors.Is(err, ErrBlocked) || errors.Is(err, ErrRateLimited) {
			permErr = err
			return nil
		}
		if err != nil {
			return err
		}
		listings = result
		return nil
	})

	if err != nil {
		return nil, err
	}
	if permErr != nil {
		return nil, permErr
	}
	return listings, nil
}

// fetchOnce runs one collector pass over the catalog page.
func (f *fetcherImpl) fetchOnce(ctx context.Context, searchURL string, search *model.Search, limit int) ([]model.Listing, error) {
	collector := f.newCollector()

	var (
		mu       sync.Mutex
		listings []model.Listing
		fetchErr error
	)

	collector.OnHTML(itemBoxSelector, func(e *colly.HTMLElement) {
		select {
		case <-ctx.Done():
			return
		default:
		}

		mu.Lock()
		defer mu.Unlock()
		if len(listings) >= limit {
			return
		}

		if listing := parseItemBox(e.DOM, f.config.BaseURL, search, time.Now()); listing != nil {
			listings = append(listings, *listing)
		}
	})

	collector.OnError(func(r *colly.Response, err error) {
		mu.Lock()
		defer mu.Unlock()

		switch r.StatusCode {
		case http.StatusForbidden:
			fetchErr = ErrBlocked
		case http.StatusTooManyRequests:
			fetchErr = ErrRateLimited
		default:
			fetchErr = fmt.Errorf("catalog fetch failed: %w", err)
		}
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := collector.Visit(searchURL); err != nil {
		// OnError usually fires first with a more precise error.
		mu.Lock()
		defer mu.Unlock()
		if fetchErr != nil {
			return nil, fetchErr
		}
		return nil, fmt.Errorf("failed to visit catalog: %w", err)
	}
	collector.Wait()

	mu.Lock()
	defer mu.Unlock()
	if fetchErr != nil {
		return nil, fetchErr
	}
	return listings, nil
}

// newCollector builds a colly collector with the configured transport.
func (f *fetcherImpl) newCollector() *colly.Collector {
	collector := colly.NewCollector(
		colly.UserAgent(f.config.UserAgent),
		colly.MaxDepth(1),
	)

	collector.WithTransport(&http.Transport{
		MaxIdleConns:          f.config.HTTPClientConfig.MaxIdleConns,
		MaxIdleConnsPerHost:   f.config.HTTPClientConfig.MaxIdleConnsPerHost,
		IdleConnTimeout:       f.config.HTTPClientConfig.IdleConnTimeout,
		TLSHandshakeTimeout:   f.config.HTTPClientConfig.TLSHandshakeTimeout,
		ResponseHeaderTimeout: f.config.HTTPClientConfig.ResponseHeaderTimeout,
		DisableKeepAlives:     f.config.HTTPClientConfig.DisableKeepAlives,
	})

	collector.SetRequestTimeout(30 * time.Second)

	return collector
}
