// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dscapture/dscapture/internal/model"
	"github.com/dscapture/dscapture/internal/session"
	"github.com/dscapture/dscapture/internal/store"
)

// LoginPath is where unauthorized admin requests are sent.
const LoginPath = "/login"

// ErrUnauthorized is returned for every failed access check. Callers must not
// distinguish between its causes.
var ErrUnauthorized = errors.New("unauthorized")

// AdminLookup resolves the admin record of an identity.
type AdminLookup interface {
	GetAdminUserByUserID(ctx context.Context, userID string) (store.AdminUser, error)
}

// Identity is a verified administrator.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// IsZero reports whether no identity is set.
func (i Identity) IsZero() bool {
	return i.UserID == ""
}

// Gate decides whether a session may reach the admin area.
type Gate struct {
	lookup AdminLookup
	logger *slog.Logger
}

// NewGate creates a gate that looks up admin rows with lookup.
func NewGate(lookup AdminLookup, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{lookup: lookup, logger: logger}
}

// Verify checks the session against the admin table. The role cached in the
// session is ignored. It performs at most one lookup and writes nothing.
func (g *Gate) Verify(ctx context.Context, sess session.Session) (Identity, error) {
	if sess.UserID == "" {
		return Identity{}, ErrUnauthorized
	}

	admin, err := g.lookup.GetAdminUserByUserID(ctx, sess.UserID)
	if err != nil {
		g.logger.Warn("admin verification failed", "user_id", sess.UserID, "error", err)
		return Identity{}, ErrUnauthorized
	}
	if admin.Role != model.RoleAdmin {
		g.logger.Warn("admin verification failed", "user_id", sess.UserID, "role", admin.Role)
		return Identity{}, ErrUnauthorized
	}

	return Identity{UserID: admin.UserID, Email: admin.Email, Role: admin.Role}, nil
}

// Decision is the outcome of a pre-render check. Exactly one of Identity and
// Redirect is set.
type Decision struct {
	Identity Identity
	Redirect string
}

// Allowed reports whether the request may proceed.
func (d Decision) Allowed() bool {
	return d.Redirect == ""
}

// Decide runs Verify before anything is rendered.
func (g *Gate) Decide(ctx context.Context, sess session.Session) Decision {
	id, err := g.Verify(ctx, sess)
	if err != nil {
		return Decision{Redirect: LoginPath}
	}
	return Decision{Identity: id}
}

// State is the client-visible state of an access check.
type State string

// Access check states. The zero State is StateLoading.
const (
	StateLoading    State = ""
	StateAuthorized State = "authorized"
	StateRedirect   State = "redirect"
)

// MarshalText renders the loading state explicitly.
func (s State) MarshalText() ([]byte, error) {
	if s == StateLoading {
		return []byte("loading"), nil
	}
	return []byte(s), nil
}

// Status is the post-mount view of the gate, served to admin scripts.
type Status struct {
	State    State  `json:"state"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
	Location string `json:"location,omitempty"`
}

// Status runs Verify and reports the result as a tri-state value.
func (g *Gate) Status(ctx context.Context, sess session.Session) Status {
	id, err := g.Verify(ctx, sess)
	if err != nil {
		return Status{State: StateRedirect, Location: LoginPath}
	}
	return Status{State: StateAuthorized, Email: id.Email, Role: id.Role}
}
