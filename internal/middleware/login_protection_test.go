// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// testLoginProtection returns a protection with a generous IP limit and a
// controllable clock.
func testLoginProtection(maxAttempts int, lockoutDuration, attemptWindow time.Duration) (*LoginProtection, *fakeClock) {
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       10,
		IPBurst:           100,
		MaxFailedAttempts: maxAttempts,
		LockoutDuration:   lockoutDuration,
		AttemptWindow:     attemptWindow,
	})
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	lp.now = clock.now
	return lp, clock
}

func TestDefaultLoginProtectionConfig(t *testing.T) {
	cfg := DefaultLoginProtectionConfig()

	if cfg.IPRateLimit != 0.5 {
		t.Errorf("IPRateLimit = %v, want 0.5", cfg.IPRateLimit)
	}
	if cfg.IPBurst != 5 {
		t.Errorf("IPBurst = %d, want 5", cfg.IPBurst)
	}
	if cfg.MaxFailedAttempts != 5 {
		t.Errorf("MaxFailedAttempts = %d, want 5", cfg.MaxFailedAttempts)
	}
	if cfg.LockoutDuration != 15*time.Minute {
		t.Errorf("LockoutDuration = %v, want 15m", cfg.LockoutDuration)
	}
	if cfg.AttemptWindow != 15*time.Minute {
		t.Errorf("AttemptWindow = %v, want 15m", cfg.AttemptWindow)
	}
}

func TestNewLoginProtectionDefaultValues(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{})

	if lp.maxFailedAttempts != 5 {
		t.Errorf("maxFailedAttempts = %d, want 5 (default)", lp.maxFailedAttempts)
	}
	if lp.lockoutDuration != 15*time.Minute {
		t.Errorf("lockoutDuration = %v, want 15m (default)", lp.lockoutDuration)
	}
	if lp.attemptWindow != 15*time.Minute {
		t.Errorf("attemptWindow = %v, want 15m (default)", lp.attemptWindow)
	}
}

func TestLoginProtectionIsAccountLocked(t *testing.T) {
	lp, clock := testLoginProtection(3, time.Minute, time.Hour)
	email := "admin@ds-capture.de"

	if locked, _ := lp.IsAccountLocked(email); locked {
		t.Error("account should not be locked initially")
	}

	for range 3 {
		lp.RecordFailedAttempt(email)
	}

	locked, remaining := lp.IsAccountLocked(email)
	if !locked {
		t.Fatal("account should be locked after max failed attempts")
	}
	if remaining != time.Minute {
		t.Errorf("remaining = %v, want 1m", remaining)
	}

	clock.advance(time.Minute + time.Second)
	if locked, _ := lp.IsAccountLocked(email); locked {
		t.Error("account should be unlocked after lockout expires")
	}
}

func TestLoginProtectionEmailIsCaseInsensitive(t *testing.T) {
	lp, _ := testLoginProtection(2, time.Minute, time.Hour)

	lp.RecordFailedAttempt("Admin@DS-Capture.de")
	locked, _ := lp.RecordFailedAttempt(" admin@ds-capture.de ")
	if !locked {
		t.Error("differently cased emails should count against the same account")
	}
}

func TestLoginProtectionRecordFailedAttempt(t *testing.T) {
	lp, _ := testLoginProtection(3, time.Minute, time.Hour)
	email := "admin@ds-capture.de"

	for i := 1; i <= 2; i++ {
		if locked, _ := lp.RecordFailedAttempt(email); locked {
			t.Errorf("attempt %d should not lock the account", i)
		}
	}

	locked, duration := lp.RecordFailedAttempt(email)
	if !locked {
		t.Error("third attempt should lock the account")
	}
	if duration != time.Minute {
		t.Errorf("lock duration = %v, want 1m", duration)
	}
}

func TestLoginProtectionRecordSuccessfulLogin(t *testing.T) {
	lp, _ := testLoginProtection(3, time.Minute, time.Hour)
	email := "admin@ds-capture.de"

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	lp.RecordSuccessfulLogin(email)

	if remaining := lp.GetRemainingAttempts(email); remaining != 3 {
		t.Errorf("GetRemainingAttempts() = %d, want 3", remaining)
	}
}

func TestLoginProtectionGetRemainingAttempts(t *testing.T) {
	lp, _ := testLoginProtection(5, time.Minute, time.Hour)
	email := "admin@ds-capture.de"

	if remaining := lp.GetRemainingAttempts(email); remaining != 5 {
		t.Errorf("GetRemainingAttempts() = %d, want 5", remaining)
	}

	lp.RecordFailedAttempt(email)
	if remaining := lp.GetRemainingAttempts(email); remaining != 4 {
		t.Errorf("GetRemainingAttempts() = %d, want 4", remaining)
	}

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	if remaining := lp.GetRemainingAttempts(email); remaining != 2 {
		t.Errorf("GetRemainingAttempts() = %d, want 2", remaining)
	}
}

func TestLoginProtectionExponentialBackoff(t *testing.T) {
	lp, clock := testLoginProtection(2, time.Minute, time.Hour)
	email := "admin@ds-capture.de"

	want := []time.Duration{time.Minute, 2 * time.Minute, 4 * time.Minute}
	for i, w := range want {
		lp.RecordFailedAttempt(email)
		locked, d := lp.RecordFailedAttempt(email)
		if !locked {
			t.Fatalf("lockout %d: account not locked", i+1)
		}
		if d != w {
			t.Errorf("lockout %d: duration = %v, want %v", i+1, d, w)
		}
		clock.advance(d + time.Second)
	}
}

func TestLoginProtectionBackoffIsCapped(t *testing.T) {
	lp, clock := testLoginProtection(1, 10*time.Hour, time.Hour)
	email := "admin@ds-capture.de"

	var last time.Duration
	for range 4 {
		_, last = lp.RecordFailedAttempt(email)
		clock.advance(last + time.Second)
	}
	if last != maxLockout {
		t.Errorf("duration = %v, want %v", last, maxLockout)
	}
}

func TestLoginProtectionAttemptWindowReset(t *testing.T) {
	lp, clock := testLoginProtection(3, time.Minute, 10*time.Minute)
	email := "admin@ds-capture.de"

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)

	clock.advance(11 * time.Minute)
	if remaining := lp.GetRemainingAttempts(email); remaining != 3 {
		t.Errorf("GetRemainingAttempts() after window = %d, want 3", remaining)
	}

	// The window restarted, so one more failure must not lock.
	if locked, _ := lp.RecordFailedAttempt(email); locked {
		t.Error("attempt after window expiry should not lock")
	}
}

func TestLoginProtectionCleanupStaleEntries(t *testing.T) {
	lp, clock := testLoginProtection(5, time.Minute, 10*time.Minute)

	lp.RecordFailedAttempt("old@ds-capture.de")
	clock.advance(20 * time.Minute)
	lp.RecordFailedAttempt("fresh@ds-capture.de")

	lp.cleanupStaleEntries()

	if _, ok := lp.failedAttempts["old@ds-capture.de"]; ok {
		t.Error("stale entry should be removed")
	}
	if _, ok := lp.failedAttempts["fresh@ds-capture.de"]; !ok {
		t.Error("fresh entry should be kept")
	}
}

func TestLoginProtectionMiddleware(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 2})

	wrapped := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	post := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":4321"
		rr := httptest.NewRecorder()
		wrapped.ServeHTTP(rr, req)
		return rr.Code
	}

	for i := range 2 {
		if code := post("10.0.0.1"); code != http.StatusOK {
			t.Errorf("POST %d status = %d, want %d", i+1, code, http.StatusOK)
		}
	}
	if code := post("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("POST over burst status = %d, want %d", code, http.StatusTooManyRequests)
	}
	if code := post("10.0.0.2"); code != http.StatusOK {
		t.Errorf("POST from other IP status = %d, want %d", code, http.StatusOK)
	}

	// GET is never limited.
	for range 5 {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		req.RemoteAddr = "10.0.0.1:4321"
		wrapped.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("GET status = %d, want %d", rr.Code, http.StatusOK)
		}
	}
}
