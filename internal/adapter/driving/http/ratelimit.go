package httphandler

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	limiters sync.Map // map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
	ips      *ClientIPResolver
	logger   *slog.Logger

	mu          sync.Mutex
	lastCleanup time.Time
}

// NewRateLimiter allows perMinute requests per client per minute, all of them
// available as a burst. Clients are told apart by ips; a nil resolver keys on
// the peer address alone.
func NewRateLimiter(perMinute int, ips *ClientIPResolver, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{
		rate:        rate.Limit(float64(perMinute) / time.Minute.Seconds()),
		burst:       perMinute,
		ips:         ips,
		logger:      logger,
		lastCleanup: time.Now(),
	}
}

// Allow consumes a token for the request's client. When the bucket is empty
// it reports how long until the next token.
func (rl *RateLimiter) Allow(r *http.Request) (bool, time.Duration) {
	client := rl.ips.ClientIP(r)
	limiter := rl.getLimiter(client)
	if limiter.Allow() {
		return true, 0
	}

	reservation := limiter.Reserve()
	delay := reservation.Delay()
	reservation.Cancel()

	rl.logger.Warn("rate limit exceeded",
		"client", client,
		"path", r.URL.Path,
		"retry_after", delay.Round(time.Second),
	)
	return false, delay
}

// Middleware rejects over-limit requests with a JSON 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ok, retry := rl.Allow(r); !ok {
			SetRetryAfter(w, retry)
			writeError(w, http.StatusTooManyRequests, "too many requests, please try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SetRetryAfter writes the Retry-After header in whole seconds, at least one.
func SetRetryAfter(w http.ResponseWriter, delay time.Duration) {
	w.Header().Set("Retry-After", strconv.Itoa(max(int(delay.Seconds()), 1)))
}

// getLimiter retrieves or creates the limiter for key.
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	if limiter, ok := rl.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}

	limiter := rate.NewLimiter(rl.rate, rl.burst)
	actual, _ := rl.limiters.LoadOrStore(key, limiter)

	rl.maybeCleanup()

	return actual.(*rate.Limiter)
}

// maybeCleanup drops idle limiters (full buckets) at most every five minutes.
func (rl *RateLimiter) maybeCleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if time.Since(rl.lastCleanup) < 5*time.Minute {
		return
	}
	rl.lastCleanup = time.Now()

	rl.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(rl.burst) {
			rl.limiters.Delete(key)
		}
		return true
	})
}
