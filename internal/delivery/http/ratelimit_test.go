package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type memoryCounter struct {
	mu   sync.Mutex
	hits map[string][]time.Time
	err  error
}

func (c *memoryCounter) Hit(_ context.Context, key string, now time.Time, window time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return 0, c.err
	}
	if c.hits == nil {
		c.hits = map[string][]time.Time{}
	}
	kept := c.hits[key][:0]
	for _, t := range c.hits[key] {
		if t.After(now.Add(-window)) {
			kept = append(kept, t)
		}
	}
	count := int64(len(kept))
	c.hits[key] = append(kept, now)
	return count, nil
}

func limitedHandler(counter WindowCounter, clock func() time.Time) http.Handler {
	rl := NewRateLimiter(counter, 2, time.Minute)
	rl.clock = clock
	return rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func hit(h http.Handler, user, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.RemoteAddr = remoteAddr
	if user != "" {
		req.Header.Set(UserHeader, user)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_PerCaller(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	h := limitedHandler(&memoryCounter{}, func() time.Time { return now })

	w := hit(h, "1", "10.0.0.1:1234")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, hit(h, "1", "10.0.0.1:1234").Code)

	w = hit(h, "1", "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	// A different user from the same address has its own budget
	assert.Equal(t, http.StatusOK, hit(h, "2", "10.0.0.1:1234").Code)
	// Anonymous callers are keyed by IP
	assert.Equal(t, http.StatusOK, hit(h, "", "10.0.0.1:1234").Code)
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	h := limitedHandler(&memoryCounter{}, func() time.Time { return now })

	hit(h, "1", "")
	hit(h, "1", "")
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "1", "").Code)

	now = now.Add(61 * time.Second)
	assert.Equal(t, http.StatusOK, hit(h, "1", "").Code)
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	h := limitedHandler(&memoryCounter{err: errors.New("redis down")}, time.Now)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hit(h, "1", "").Code)
	}
}
