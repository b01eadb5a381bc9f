// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"net/http/httptest"
	"path/filepath"
	"testing"
)

func TestSafeJoinPath(t *testing.T) {
	base := t.TempDir()

	tests := []struct {
		name    string
		parts   []string
		wantErr bool
	}{
		{"simple key", []string{"homepage-assets", "u1/background-1.png"}, false},
		{"nested", []string{"a", "b", "c.png"}, false},
		{"parent escape", []string{"..", "etc", "passwd"}, true},
		{"hidden escape", []string{"a/../../outside"}, true},
		{"dot stays inside", []string{"a/./b.png"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SafeJoinPath(base, tt.parts...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SafeJoinPath error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				rel, relErr := filepath.Rel(base, got)
				if relErr != nil || rel == ".." || filepath.IsAbs(rel) {
					t.Errorf("SafeJoinPath = %q escapes %q", got, base)
				}
			}
		})
	}
}

func TestTrimLeadingSlashes(t *testing.T) {
	if got := TrimLeadingSlashes("///a/b.png"); got != "a/b.png" {
		t.Errorf("TrimLeadingSlashes = %q, want %q", got, "a/b.png")
	}
}

func TestNullStringTrimmed(t *testing.T) {
	if ns := NullStringTrimmed("   "); ns.Valid {
		t.Error("whitespace-only input should be NULL")
	}
	ns := NullStringTrimmed("  Titel ")
	if !ns.Valid || ns.String != "Titel" {
		t.Errorf("NullStringTrimmed = %+v, want valid %q", ns, "Titel")
	}
	if StringOrEmpty(ns) != "Titel" {
		t.Errorf("StringOrEmpty = %q, want %q", StringOrEmpty(ns), "Titel")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr", "203.0.113.9:51234", nil, "203.0.113.9"},
		{"x-real-ip wins", "10.0.0.1:80", map[string]string{"X-Real-IP": "198.51.100.7"}, "198.51.100.7"},
		{"first forwarded", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "198.51.100.8, 10.0.0.2"}, "198.51.100.8"},
		{"no port", "192.0.2.1", nil, "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := ClientIP(req); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
