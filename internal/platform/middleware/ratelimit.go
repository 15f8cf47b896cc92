// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/taibuivan/trailhead/internal/platform/apperr"
	"github.com/taibuivan/trailhead/internal/platform/constants"
	"github.com/taibuivan/trailhead/internal/platform/ctxutil"
	"github.com/taibuivan/trailhead/internal/platform/respond"
)

// # Rate Limiting

// Decision is the outcome of one rate limit check.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter counts requests per client key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
	Backend() string
}

// DropRecorder is notified of every rejected request.
type DropRecorder interface {
	RateLimitDropped(backend string)
}

// RateLimit rejects clients that exceed the limiter's budget with 429.
//
// Limiter failures let the request through: an unavailable counter store
// must not take the API down with it.
func RateLimit(limiter Limiter, max int, recorder DropRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			decision, err := limiter.Allow(request.Context(), RealIP(request))
			if err != nil {
				ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "rate_limit_check_failed",
					slog.String("backend", limiter.Backend()),
					slog.Any("error", err),
				)
				next.ServeHTTP(writer, request)
				return
			}

			header := writer.Header()
			header.Set("X-RateLimit-Limit", strconv.Itoa(max))
			header.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

			if !decision.Allowed {
				seconds := int(math.Ceil(decision.RetryAfter.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				header.Set("Retry-After", strconv.Itoa(seconds))

				if recorder != nil {
					recorder.RateLimitDropped(limiter.Backend())
				}
				respond.Error(writer, request, apperr.RateLimited(seconds))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Redis Backend

// fixedWindow increments the counter and starts the window on first hit.
var fixedWindow = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
    redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

// RedisLimiter is a fixed-window counter shared by every API instance.
type RedisLimiter struct {
	client *redis.Client
	max    int
	window time.Duration
}

// NewRedisLimiter allows max requests per window for each key.
func NewRedisLimiter(client *redis.Client, max int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, max: max, window: window}
}

// Allow implements [Limiter].
func (limiter *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	result, err := fixedWindow.Run(ctx, limiter.client,
		[]string{constants.RedisPrefixRateLimit + key},
		limiter.window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("redis_rate_limit_failed: %w", err)
	}
	if len(result) != 2 {
		return Decision{}, fmt.Errorf("redis_rate_limit_failed: unexpected reply %v", result)
	}

	count, ttl := int(result[0]), time.Duration(result[1])*time.Millisecond
	return Decision{
		Allowed:    count <= limiter.max,
		Remaining:  max(limiter.max-count, 0),
		RetryAfter: ttl,
	}, nil
}

// Backend implements [Limiter].
func (limiter *RedisLimiter) Backend() string { return "redis" }

// # In-Memory Backend

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter is a per-process token bucket used when Redis is not configured.
type MemoryLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	every    rate.Limit
	burst    int
	window   time.Duration
	now      func() time.Time
}

// NewMemoryLimiter refills max tokens evenly across window for each key.
// Idle keys are swept until ctx is cancelled.
func NewMemoryLimiter(ctx context.Context, max int, window time.Duration) *MemoryLimiter {
	limiter := &MemoryLimiter{
		visitors: make(map[string]*visitor),
		every:    rate.Every(window / time.Duration(max)),
		burst:    max,
		window:   window,
		now:      time.Now,
	}
	go limiter.sweep(ctx)
	return limiter
}

// Allow implements [Limiter].
func (limiter *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	now := limiter.now()
	entry, found := limiter.visitors[key]
	if !found {
		entry = &visitor{limiter: rate.NewLimiter(limiter.every, limiter.burst)}
		limiter.visitors[key] = entry
	}
	entry.lastSeen = now

	reservation := entry.limiter.ReserveN(now, 1)
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return Decision{Allowed: false, RetryAfter: delay}, nil
	}

	return Decision{Allowed: true, Remaining: int(entry.limiter.TokensAt(now))}, nil
}

// Backend implements [Limiter].
func (limiter *MemoryLimiter) Backend() string { return "memory" }

// sweep drops visitors idle for longer than a full window.
func (limiter *MemoryLimiter) sweep(ctx context.Context) {
	ticker := time.NewTicker(constants.RateLimitCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			limiter.mu.Lock()
			for key, entry := range limiter.visitors {
				if limiter.now().Sub(entry.lastSeen) > limiter.window {
					delete(limiter.visitors, key)
				}
			}
			limiter.mu.Unlock()
		case <-ctx.Done():
			return
		}
	}
}
