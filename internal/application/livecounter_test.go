package application

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ericfisherdev/folio/internal/domain/model"
)

func statsWithActive(n int) func(context.Context) (*model.DashboardStats, error) {
	return func(context.Context) (*model.DashboardStats, error) {
		return &model.DashboardStats{Overview: model.Overview{ActiveToday: n}}, nil
	}
}

func TestLiveCounter_StartsAtOne(t *testing.T) {
	c := NewLiveCounter(&mockAPI{}, time.Hour, slog.Default())

	assert.Equal(t, 1, c.Count())
}

func TestLiveCounter_PublishesActiveToday(t *testing.T) {
	c := NewLiveCounter(&mockAPI{getDashboardStatsFn: statsWithActive(12)}, time.Hour, slog.Default())

	c.poll(context.Background())

	assert.Equal(t, 12, c.Count())
}

func TestLiveCounter_ZeroKeepsLastValue(t *testing.T) {
	api := &mockAPI{getDashboardStatsFn: statsWithActive(5)}
	c := NewLiveCounter(api, time.Hour, slog.Default())
	c.poll(context.Background())

	api.getDashboardStatsFn = statsWithActive(0)
	c.poll(context.Background())

	assert.Equal(t, 5, c.Count())
}

func TestLiveCounter_FailureJittersWithFloorOfOne(t *testing.T) {
	api := &mockAPI{
		getDashboardStatsFn: func(context.Context) (*model.DashboardStats, error) {
			return nil, errors.New("403 forbidden")
		},
	}
	c := NewLiveCounter(api, time.Hour, slog.Default())

	c.jitter = func() int { return -1 }
	c.poll(context.Background())
	assert.Equal(t, 1, c.Count())

	c.jitter = func() int { return 1 }
	c.poll(context.Background())
	c.poll(context.Background())
	assert.Equal(t, 3, c.Count())

	c.jitter = func() int { return -1 }
	c.poll(context.Background())
	assert.Equal(t, 2, c.Count())
}

func TestLiveCounter_RandomJitterStaysInRange(t *testing.T) {
	for range 100 {
		j := coinFlip()
		assert.Contains(t, []int{-1, 1}, j)
	}
}

func TestLiveCounter_StartPollsUntilCancelled(t *testing.T) {
	var calls atomic.Int32
	api := &mockAPI{
		getDashboardStatsFn: func(context.Context) (*model.DashboardStats, error) {
			calls.Add(1)
			return &model.DashboardStats{Overview: model.Overview{ActiveToday: 4}}, nil
		},
	}
	c := NewLiveCounter(api, 10*time.Millisecond, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("live counter did not stop")
	}
	assert.Equal(t, 4, c.Count())
}
