// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStripTrailingSlash(t *testing.T) {
	tests := []struct {
		method       string
		target       string
		wantStatus   int
		wantLocation string
	}{
		{http.MethodGet, "/", http.StatusOK, ""},
		{http.MethodGet, "/blog", http.StatusOK, ""},
		{http.MethodGet, "/blog/", http.StatusMovedPermanently, "/blog"},
		{http.MethodGet, "/blog//", http.StatusMovedPermanently, "/blog"},
		{http.MethodHead, "/kontakt/", http.StatusMovedPermanently, "/kontakt"},
		{http.MethodGet, "/blog/?page=2", http.StatusMovedPermanently, "/blog?page=2"},
		{http.MethodPost, "/kontakt/", http.StatusPermanentRedirect, "/kontakt"},
	}

	handler := StripTrailingSlash(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.target, nil))

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if loc := rr.Header().Get("Location"); loc != tt.wantLocation {
				t.Errorf("Location = %q, want %q", loc, tt.wantLocation)
			}
		})
	}
}
