// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLimiterCacheGetReusesLimiter(t *testing.T) {
	c := newLimiterCache[string](1, 1)

	if c.get("a") != c.get("a") {
		t.Error("get() should return the same limiter for a key")
	}
	if c.get("a") == c.get("b") {
		t.Error("get() should return distinct limiters per key")
	}
	if n := c.size(); n != 2 {
		t.Errorf("size() = %d, want 2", n)
	}
}

func TestLimiterCacheClearIfExceeds(t *testing.T) {
	c := newLimiterCache[int](1, 1)
	for i := range 3 {
		c.get(i)
	}

	if c.clearIfExceeds(3) {
		t.Error("clearIfExceeds(3) cleared a cache of size 3")
	}
	if !c.clearIfExceeds(2) {
		t.Error("clearIfExceeds(2) should clear a cache of size 3")
	}
	if n := c.size(); n != 0 {
		t.Errorf("size() = %d, want 0", n)
	}
}

func TestGlobalRateLimiterHTMLMiddleware(t *testing.T) {
	limiter := NewGlobalRateLimiter(0.001, 3)
	handler := limiter.HTMLMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/kontakt", nil)
		req.RemoteAddr = ip + ":1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	for i := range 3 {
		if rr := serve("192.0.2.1"); rr.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want %d", i+1, rr.Code, http.StatusOK)
		}
	}

	rr := serve("192.0.2.1")
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusTooManyRequests)
	}
	if ra := rr.Header().Get("Retry-After"); ra == "" {
		t.Error("missing Retry-After header")
	}

	if rr := serve("192.0.2.2"); rr.Code != http.StatusOK {
		t.Errorf("other IP status = %d, want %d", rr.Code, http.StatusOK)
	}
}
