package http

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/pharmadistrib/pkg/logger"
)

// WindowCounter records a hit for key and returns how many hits were already
// inside the window ending at now
type WindowCounter interface {
	Hit(ctx context.Context, key string, now time.Time, window time.Duration) (int64, error)
}

// RedisWindowCounter keeps one sorted set of hit timestamps per caller
type RedisWindowCounter struct {
	client *redis.Client
}

// NewRedisWindowCounter creates a counter on client
func NewRedisWindowCounter(client *redis.Client) *RedisWindowCounter {
	return &RedisWindowCounter{client: client}
}

// Hit implements WindowCounter with a sliding window
func (c *RedisWindowCounter) Hit(ctx context.Context, key string, now time.Time, window time.Duration) (int64, error) {
	windowStart := now.Add(-window)

	pipe := c.client.Pipeline()

	// Remove old entries outside the window
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))

	countCmd := pipe.ZCard(ctx, key)

	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: now.UnixNano(),
	})

	pipe.Expire(ctx, key, window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return countCmd.Val(), nil
}

// RateLimiter caps requests per caller. Callers are identified by the acting
// user header, falling back to the client IP.
type RateLimiter struct {
	counter     WindowCounter
	maxRequests int
	window      time.Duration
	clock       func() time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(counter WindowCounter, maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		counter:     counter,
		maxRequests: maxRequests,
		window:      window,
		clock:       time.Now,
	}
}

// Middleware returns the rate limiting middleware. Counter failures let the
// request through.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identifier := "ip:" + clientIP(r)
		if userID := r.Header.Get(UserHeader); userID != "" {
			identifier = "user:" + userID
		}

		now := rl.clock()
		count, err := rl.counter.Hit(r.Context(), "ratelimit:"+identifier, now, rl.window)
		if err != nil {
			logger.Error(r.Context()).
				Err(err).
				Str("identifier", identifier).
				Msg("Rate limiter error")
			next.ServeHTTP(w, r)
			return
		}

		remaining := rl.maxRequests - int(count) - 1
		if remaining < 0 {
			remaining = 0
		}
		resetTime := now.Add(rl.window)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.maxRequests))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if count >= int64(rl.maxRequests) {
			logger.Warn(r.Context()).
				Str("identifier", identifier).
				Int("limit", rl.maxRequests).
				Msg("Rate limit exceeded")

			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			respondError(w, http.StatusTooManyRequests,
				fmt.Sprintf("Trop de requêtes, réessayez dans %v", rl.window.Round(time.Second)))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
