// Package vinted contains the Vinted catalog scraper.
package vinted

import (
	"context"
	"errors"
	"time"

	"vintedwatch/internal/model"
)

// Sentinel errors surfaced by the fetcher.
var (
	// ErrBlocked is returned when Vinted answers 403, which usually means
	// the scraper tripped the anti-bot protection.
	ErrBlocked = errors.New("access denied by vinted")
	// ErrRateLimited is returned when a 429 persists after the cool-down.
	ErrRateLimited = errors.New("rate limited by vinted")
)

// Fetcher retrieves listings matching a saved search.
type Fetcher interface {
	Search(ctx context.Context, search *model.Search, limit int) ([]model.Listing, error)
}

// Config holds the scraper settings.
type Config struct {
	BaseURL              string
	UserAgent            string
	MinRequestDelay      time.Duration
	MaxRequestsPerMinute int
	HTTPClientConfig     HTTPClientConfig
	RetryConfig          RetryConfig
}

// HTTPClientConfig holds HTTP transport settings for the collector.
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
