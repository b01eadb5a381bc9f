// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	// Create sessions table required by sqlite3store
	_, err = db.Exec(`
		CREATE TABLE sessions (
			token TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			expiry REAL NOT NULL
		);
		CREATE INDEX sessions_expiry_idx ON sessions(expiry);
	`)
	if err != nil {
		t.Fatalf("failed to create sessions table: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNew_CookieSettings(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		name       string
		isDev      bool
		wantSecure bool
	}{
		{"development", true, false},
		{"production", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(db, tt.isDev)

			if m.Cookie.Secure != tt.wantSecure {
				t.Errorf("Cookie.Secure = %v, want %v", m.Cookie.Secure, tt.wantSecure)
			}
			if m.Cookie.Name != CookieName {
				t.Errorf("Cookie.Name = %q, want %q", m.Cookie.Name, CookieName)
			}
			if !m.Cookie.HttpOnly {
				t.Error("expected Cookie.HttpOnly = true")
			}
			if m.Cookie.SameSite != http.SameSiteLaxMode {
				t.Errorf("expected SameSite = Lax, got %v", m.Cookie.SameSite)
			}
			if m.Lifetime != Lifetime {
				t.Errorf("Lifetime = %v, want %v", m.Lifetime, Lifetime)
			}
			if m.Store == nil {
				t.Error("expected Store to be initialized")
			}
		})
	}
}

func TestLoginLoadLogout(t *testing.T) {
	db := setupTestDB(t)
	m := New(db, true)

	var loaded Session
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if err := m.Login(r.Context(), "user-1", "admin"); err != nil {
			t.Errorf("Login: %v", err)
		}
	})
	mux.HandleFunc("/load", func(w http.ResponseWriter, r *http.Request) {
		loaded = m.Load(r.Context())
	})
	mux.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
		if err := m.Logout(r.Context()); err != nil {
			t.Errorf("Logout: %v", err)
		}
	})
	h := m.LoadAndSave(mux)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie after login")
	}
	cookie := cookies[0]
	if cookie.Name != CookieName {
		t.Errorf("cookie name = %q, want %q", cookie.Name, CookieName)
	}

	req := httptest.NewRequest(http.MethodGet, "/load", nil)
	req.AddCookie(cookie)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if loaded.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", loaded.UserID, "user-1")
	}
	if loaded.Role != "admin" {
		t.Errorf("Role = %q, want %q", loaded.Role, "admin")
	}
	if !loaded.Authenticated() {
		t.Error("expected session to be authenticated")
	}

	req = httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookie)
	h.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/load", nil)
	req.AddCookie(cookie)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if loaded.Authenticated() {
		t.Errorf("expected anonymous session after logout, got %+v", loaded)
	}
}

func TestLoad_Anonymous(t *testing.T) {
	db := setupTestDB(t)
	m := New(db, true)

	var loaded Session
	h := m.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		loaded = m.Load(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if loaded.Authenticated() {
		t.Errorf("expected anonymous session, got %+v", loaded)
	}
}

func TestContext(t *testing.T) {
	if got := FromContext(context.Background()); got != (Session{}) {
		t.Errorf("FromContext(empty) = %+v, want zero", got)
	}

	want := Session{UserID: "u", Role: "admin"}
	ctx := WithSession(context.Background(), want)
	if got := FromContext(ctx); got != want {
		t.Errorf("FromContext() = %+v, want %+v", got, want)
	}
}
