package application

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/ericfisherdev/folio/internal/domain/port/driven"
)

// LiveCounter publishes the number of visitors active today. It polls the
// analytics aggregate on an interval; when a poll fails the last value drifts
// by one in either direction, never below one.
type LiveCounter struct {
	api      driven.PortfolioAPI
	interval time.Duration
	logger   *slog.Logger
	jitter   func() int
	count    atomic.Int64
}

// NewLiveCounter creates a counter starting at 1.
func NewLiveCounter(api driven.PortfolioAPI, interval time.Duration, logger *slog.Logger) *LiveCounter {
	c := &LiveCounter{
		api:      api,
		interval: interval,
		logger:   logger,
		jitter:   coinFlip,
	}
	c.count.Store(1)
	return c
}

// Count returns the last published value.
func (c *LiveCounter) Count() int {
	return int(c.count.Load())
}

// Start polls immediately, then on every interval. It blocks until ctx is canceled.
func (c *LiveCounter) Start(ctx context.Context) {
	c.poll(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("live counter stopped")
			return
		case <-ticker.C:
			c.poll(ctx)
		}
	}
}

// poll runs one cycle.
func (c *LiveCounter) poll(ctx context.Context) {
	stats, err := c.api.GetDashboardStats(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		next := max(c.Count()+c.jitter(), 1)
		c.count.Store(int64(next))
		c.logger.Debug("live counter poll failed, drifting", "count", next, "error", err)
		return
	}

	// Zero means the aggregate has no data yet; keep the last value.
	if stats.Overview.ActiveToday > 0 {
		c.count.Store(int64(stats.Overview.ActiveToday))
	}
}

// coinFlip returns +1 or -1 with equal probability.
func coinFlip() int {
	if rand.IntN(2) == 0 {
		return -1
	}
	return 1
}
