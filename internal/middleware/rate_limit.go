// Package middleware contains per-user command rate limiting.
package middleware

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// RateLimiter limits how many commands a user may issue per window.
// User ids are Discord snowflakes.
type RateLimiter struct {
	requests map[string][]time.Time
	mu       sync.Mutex
	limit    int
	window   time.Duration
	logger   *zap.Logger
}

// NewRateLimiter creates a rate limiter.
func NewRateLimiter(limit int, window time.Duration, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		logger:   logger,
	}
}

// Allow reports whether the user may issue another command now.
func (rl *RateLimiter) Allow(userID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.window)

	requests, exists := rl.requests[userID]
	if !exists {
		rl.requests[userID] = []time.Time{now}
		return true
	}

	var valid []time.Time
	for _, reqTime := range requests {
		if reqTime.After(windowStart) {
			valid = append(valid, reqTime)
		}
	}

	if len(valid) >= rl.limit {
		rl.logger.Warn("Rate limit exceeded",
			zap.String("user_id", userID),
			zap.Int("requests", len(valid)),
			zap.Int("limit", rl.limit))
		rl.requests[userID] = valid
		return false
	}

	rl.requests[userID] = append(valid, now)
	return true
}

// Cleanup drops users whose requests all fell out of the window.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	windowStart := time.Now().Add(-rl.window)

	for userID, requests := range rl.requests {
		var valid []time.Time
		for _, reqTime := range requests {
			if reqTime.After(windowStart) {
				valid = append(valid, reqTime)
			}
		}

		if len(valid) == 0 {
			delete(rl.requests, userID)
		} else {
			rl.requests[userID] = valid
		}
	}
}
