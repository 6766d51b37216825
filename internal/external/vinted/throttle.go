package vinted

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Throttle enforces a minimum delay between requests and a rolling
// one-minute request budget.
type Throttle struct {
	mu               sync.Mutex
	minDelay         time.Duration
	maxPerMinute     int
	lastRequest      time.Time
	windowStart      time.Time
	requestsInWindow int
	logger           *zap.Logger

	// now and sleep are swappable for tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewThrottle creates a request throttle.
func NewThrottle(minDelay time.Duration, maxPerMinute int, logger *zap.Logger) *Throttle {
	return &Throttle{
		minDelay:     minDelay,
		maxPerMinute: maxPerMinute,
		logger:       logger,
		now:          time.Now,
		sleep:        sleepCtx,
	}
}

// Wait blocks until the next request is allowed to go out, or until the
// context is cancelled.
func (t *Throttle) Wait(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()

	// Reset the window once a minute has passed.
	if now.Sub(t.windowStart) > time.Minute {
		t.windowStart = now
		t.requestsInWindow = 0
	}

	// Exhausted budget: wait out the remainder of the window.
	if t.requestsInWindow >= t.maxPerMinute {
		wait := time.Minute - now.Sub(t.windowStart)
		if wait > 0 {
			t.logger.Info("Request budget exhausted, waiting",
				zap.Duration("wait", wait),
				zap.Int("max_per_minute", t.maxPerMinute))
			if err := t.sleep(ctx, wait); err != nil {
				return err
			}
		}
		t.windowStart = t.now()
		t.requestsInWindow = 0
	}

	// Minimum spacing between consecutive requests.
	if sinceLast := t.now().Sub(t.lastRequest); sinceLast < t.minDelay {
		if err := t.sleep(ctx, t.minDelay-sinceLast); err != nil {
			return err
		}
	}

	t.lastRequest = t.now()
	t.requestsInWindow++
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
