// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for session loading, the admin
// gate, security headers, timeouts and rate limiting.
package middleware

import (
	"context"
	"net/http"

	"github.com/dscapture/dscapture/internal/auth"
	"github.com/dscapture/dscapture/internal/logging"
	"github.com/dscapture/dscapture/internal/model"
	"github.com/dscapture/dscapture/internal/service"
	"github.com/dscapture/dscapture/internal/session"
	"github.com/dscapture/dscapture/internal/util"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request data.
const (
	ContextKeyIdentity ContextKey = "identity"
)

// LoadSession reads the session cookie values once and stores them in the
// request context. It must run inside the session manager's LoadAndSave.
func LoadSession(sm *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := session.WithSession(r.Context(), sm.Load(r.Context()))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin runs the admin gate before any admin handler writes output.
// Unauthorized requests are redirected to the login page with 303; requests
// from a signed-in non-admin are also recorded in the activity log when
// activity is set.
func RequireAdmin(gate *auth.Gate, activity *service.ActivityService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.FromContext(r.Context())
			decision := gate.Decide(r.Context(), sess)
			if !decision.Allowed() {
				if sess.UserID != "" {
					activity.LogUserAction(r.Context(), service.ActionParams{
						Action:      model.ActionAccessDenied,
						Description: "Zugriff auf den Adminbereich verweigert",
						Context:     model.ActivityContextPublic,
						UserID:      sess.UserID,
						Metadata: map[string]any{
							"path":   r.URL.Path,
							"method": r.Method,
							"ip":     util.ClientIP(r),
						},
					})
				}
				http.Redirect(w, r, decision.Redirect, http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyIdentity, decision.Identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity returns the admin identity verified by RequireAdmin, or the
// zero Identity outside the admin area.
func GetIdentity(r *http.Request) auth.Identity {
	id, _ := r.Context().Value(ContextKeyIdentity).(auth.Identity)
	return id
}

// RequestPath creates middleware that stores the request path in the context.
// This is used by the logging handler to include the URL in error logs.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(logging.WithRequestPath(r.Context(), r.URL.Path)))
	})
}

// GetRequestPath retrieves the request path from the context.
func GetRequestPath(ctx context.Context) string {
	return logging.RequestPath(ctx)
}
