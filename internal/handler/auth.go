// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dscapture/dscapture/internal/auth"
	"github.com/dscapture/dscapture/internal/middleware"
	"github.com/dscapture/dscapture/internal/model"
	"github.com/dscapture/dscapture/internal/render"
	"github.com/dscapture/dscapture/internal/service"
	"github.com/dscapture/dscapture/internal/session"
	"github.com/dscapture/dscapture/internal/store"
)

// Login failure messages. Every credential failure reads the same.
const (
	loginFailedPrefix      = "Login fehlgeschlagen: "
	msgInvalidCredentials  = "Ungültige E-Mail-Adresse oder ungültiges Passwort."
	msgCredentialsRequired = "Bitte gib E-Mail-Adresse und Passwort ein."
)

// AuthHandler handles authentication routes.
type AuthHandler struct {
	queries         *store.Queries
	renderer        *render.Renderer
	sessions        *session.Manager
	gate            *auth.Gate
	loginProtection *middleware.LoginProtection
	activity        *service.ActivityService
}

// NewAuthHandler creates a new AuthHandler. lp may be nil.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, sm *session.Manager, gate *auth.Gate, lp *middleware.LoginProtection, activity *service.ActivityService) *AuthHandler {
	return &AuthHandler{
		queries:         store.New(db),
		renderer:        renderer,
		sessions:        sm,
		gate:            gate,
		loginProtection: lp,
		activity:        activity,
	}
}

// LoginData is the view model of the login page.
type LoginData struct {
	Email string
}

// LoginForm renders the login page. Verified admins go straight to /admin.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if sess.Authenticated() {
		if _, err := h.gate.Verify(r.Context(), sess); err == nil {
			http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
			return
		}
	}

	renderPage(w, r, h.renderer, tmplLogin, render.TemplateData{
		Title: "Einloggen",
		Data:  LoginData{},
	})
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectLogin) {
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		h.fail(w, r, msgCredentialsRequired)
		return
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			h.logFailure(r, "", email, "account locked")
			h.fail(w, r, "Zu viele fehlgeschlagene Versuche. Bitte versuche es in "+formatDuration(remaining)+" erneut.")
			return
		}
	}

	user, err := h.queries.GetUserByEmail(r.Context(), email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("database error during login", "error", err)
		}
		// Count unknown emails too so they cannot be told apart.
		h.logFailure(r, "", email, "unknown email")
		h.failWithAttempt(w, r, email)
		return
	}

	valid, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		slog.Error("password check error", "error", err, "user_id", user.ID)
	}
	if !valid {
		h.logFailure(r, user.ID, email, "invalid password")
		h.failWithAttempt(w, r, email)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(password); err == nil {
			if err := h.queries.UpdateUserPassword(r.Context(), store.UpdateUserPasswordParams{
				PasswordHash: newHash,
				UpdatedAt:    time.Now().UTC(),
				ID:           user.ID,
			}); err != nil {
				slog.Error("failed to re-hash password", "error", err, "user_id", user.ID)
			}
		}
	}

	// The cached role is a hint for the UI only; the gate always re-reads it.
	var role string
	admin, err := h.queries.GetAdminUserByUserID(r.Context(), user.ID)
	switch {
	case err == nil:
		role = admin.Role
	case errors.Is(err, sql.ErrNoRows):
		slog.Warn("no admin entry for user", "user_id", user.ID)
	default:
		slog.Error("failed to load admin entry", "error", err, "user_id", user.ID)
	}

	if err := h.sessions.Login(r.Context(), user.ID, role); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}

	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)
	h.activity.LogUserAction(r.Context(), service.ActionParams{
		Action:      model.ActionUserLogin,
		Description: "Anmeldung erfolgreich",
		UserID:      user.ID,
		UserEmail:   user.Email,
		EntityType:  model.EntityUser,
		EntityID:    user.ID,
		Metadata:    requestMetadata(r),
	})

	http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
}

// Logout destroys the session and redirects to the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	if sess.Authenticated() {
		h.activity.LogUserAction(r.Context(), service.ActionParams{
			Action:      model.ActionUserLogout,
			Description: "Abmeldung",
			UserID:      sess.UserID,
			EntityType:  model.EntityUser,
			EntityID:    sess.UserID,
			Metadata:    requestMetadata(r),
		})
	}

	if err := h.sessions.Logout(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}

	slog.Info("user logged out", "user_id", sess.UserID)
	flashAndRedirect(w, r, h.renderer, redirectLogin, "Du wurdest abgemeldet.", render.FlashInfo)
}

func (h *AuthHandler) fail(w http.ResponseWriter, r *http.Request, message string) {
	flashError(w, r, h.renderer, redirectLogin, loginFailedPrefix+message)
}

// failWithAttempt records a failed attempt and reports a lockout or the
// remaining attempts when few are left.
func (h *AuthHandler) failWithAttempt(w http.ResponseWriter, r *http.Request, email string) {
	if h.loginProtection != nil {
		if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
			h.fail(w, r, "Zu viele fehlgeschlagene Versuche. Bitte versuche es in "+formatDuration(lockDuration)+" erneut.")
			return
		}
		if remaining := h.loginProtection.GetRemainingAttempts(email); remaining > 0 && remaining <= 3 {
			h.fail(w, r, msgInvalidCredentials+" Verbleibende Versuche: "+strconv.Itoa(remaining)+".")
			return
		}
	}
	h.fail(w, r, msgInvalidCredentials)
}

func (h *AuthHandler) logFailure(r *http.Request, userID, email, reason string) {
	slog.Debug("login failed", "email", email, "reason", reason)
	meta := requestMetadata(r)
	meta["email"] = email
	meta["reason"] = reason
	h.activity.LogUserAction(r.Context(), service.ActionParams{
		Action:      model.ActionUserLoginFailed,
		Description: "Anmeldung fehlgeschlagen",
		Context:     model.ActivityContextPublic,
		UserID:      userID,
		EntityType:  model.EntityUser,
		Metadata:    meta,
	})
}
