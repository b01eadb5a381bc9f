// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session stores the admin session server-side and exposes the
// per-request Session value.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Cookie and key names.
const (
	CookieName = "dsc_session"
	Lifetime   = 7 * 24 * time.Hour

	KeyUserID = "userId"
	KeyRole   = "role"
)

// Session is the per-request view of the session cookie. UserID is empty for
// anonymous visitors. Role is a cached hint and never authoritative.
type Session struct {
	UserID string
	Role   string
}

// Authenticated reports whether the session names an identity.
func (s Session) Authenticated() bool {
	return s.UserID != ""
}

// Manager wraps the scs session manager with the typed session accessors.
type Manager struct {
	*scs.SessionManager
}

// New creates a session manager backed by the sessions table of db.
func New(db *sql.DB, isDev bool) *Manager {
	sm := scs.New()

	sm.Store = sqlite3store.New(db)

	sm.Lifetime = Lifetime
	sm.Cookie.Name = CookieName
	sm.Cookie.Path = "/"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev
	sm.Cookie.Persist = true

	return &Manager{SessionManager: sm}
}

// Load reads the session of the current request. The request must have
// passed through LoadAndSave.
func (m *Manager) Load(ctx context.Context) Session {
	return Session{
		UserID: m.GetString(ctx, KeyUserID),
		Role:   m.GetString(ctx, KeyRole),
	}
}

// Login renews the session token and stores the identity. An empty role
// removes any previously cached role.
func (m *Manager) Login(ctx context.Context, userID, role string) error {
	if err := m.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	m.Put(ctx, KeyUserID, userID)
	if role != "" {
		m.Put(ctx, KeyRole, role)
	} else {
		m.Remove(ctx, KeyRole)
	}
	return nil
}

// Logout destroys the session.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.Destroy(ctx); err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	return nil
}

type contextKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored by WithSession. The zero Session is
// returned when none is present.
func FromContext(ctx context.Context) Session {
	s, _ := ctx.Value(contextKey{}).(Session)
	return s
}
