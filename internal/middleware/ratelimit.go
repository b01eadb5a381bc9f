// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/dscapture/dscapture/internal/util"
)

// limiterCache hands out one token-bucket limiter per key.
type limiterCache[K comparable] struct {
	limiters map[K]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
}

func newLimiterCache[K comparable](rps float64, burst int) *limiterCache[K] {
	return &limiterCache[K]{
		limiters: make(map[K]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

// get returns the limiter for key, creating it on first use.
func (c *limiterCache[K]) get(key K) *rate.Limiter {
	c.mu.RLock()
	limiter, exists := c.limiters[key]
	c.mu.RUnlock()
	if exists {
		return limiter
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another goroutine may have created it meanwhile.
	if limiter, exists = c.limiters[key]; exists {
		return limiter
	}
	limiter = rate.NewLimiter(c.rate, c.burst)
	c.limiters[key] = limiter
	return limiter
}

// clearIfExceeds drops every limiter once more than maxSize keys are tracked.
func (c *limiterCache[K]) clearIfExceeds(maxSize int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.limiters) <= maxSize {
		return false
	}
	c.limiters = make(map[K]*rate.Limiter)
	return true
}

func (c *limiterCache[K]) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.limiters)
}

// GlobalRateLimiter limits requests per client IP.
type GlobalRateLimiter struct {
	cache *limiterCache[string]
}

// NewGlobalRateLimiter creates a limiter allowing rps requests per second per
// IP with the given burst.
func NewGlobalRateLimiter(rps float64, burst int) *GlobalRateLimiter {
	return &GlobalRateLimiter{cache: newLimiterCache[string](rps, burst)}
}

// Allow reports whether a request from ip may proceed.
func (l *GlobalRateLimiter) Allow(ip string) bool {
	l.cache.clearIfExceeds(10000)
	return l.cache.get(ip).Allow()
}

// HTMLMiddleware rejects requests over the limit with a plain-text 429.
func (l *GlobalRateLimiter) HTMLMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := util.ClientIP(r)
			if !l.Allow(ip) {
				slog.Warn("public rate limit exceeded", "ip", ip, "path", r.URL.Path)
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Zu viele Anfragen. Bitte versuche es gleich noch einmal.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
