// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dscapture/dscapture/internal/model"
	"github.com/dscapture/dscapture/internal/service"
	"github.com/dscapture/dscapture/internal/session"
)

func newTestAdmin(env *testEnv) *AdminHandler {
	return NewAdminHandler(env.renderer, env.gate, env.posts, env.catalog, env.activity)
}

func TestAdmin_Dashboard(t *testing.T) {
	env := newTestEnv(t)
	h := newTestAdmin(env)
	createPost(t, env, "Erster Artikel", "erster-artikel", model.PostStatusDraft)

	w := env.serve(h.Dashboard, env.asAdmin(httptest.NewRequest(http.MethodGet, "/admin", nil)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), testAdminEmail)
}

func TestAdmin_Activity(t *testing.T) {
	env := newTestEnv(t)
	h := newTestAdmin(env)
	_, err := env.hero.Save(context.Background(), env.admin, service.HeroInput{Heading: "Neu", Subheading: "Text"})
	assert.NoError(t, err)

	w := env.serve(h.Activity, env.asAdmin(httptest.NewRequest(http.MethodGet, "/admin/activity", nil)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), model.ActionHeroSaved)
}

func TestAdmin_Verify(t *testing.T) {
	env := newTestEnv(t)
	h := newTestAdmin(env)

	tests := []struct {
		name         string
		sess         session.Session
		wantState    string
		wantLocation string
	}{
		{"anonymous", session.Session{}, "redirect", "/login"},
		{"unknown user", session.Session{UserID: "fremd", Role: model.RoleAdmin}, "redirect", "/login"},
		{"admin", session.Session{UserID: env.admin.UserID}, "authorized", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/admin/api/verify", nil)
			r = r.WithContext(session.WithSession(r.Context(), tt.sess))
			w := httptest.NewRecorder()

			h.Verify(w, r)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
			body := decodeJSON(t, w)
			assert.Equal(t, tt.wantState, body["state"])
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, body["location"])
			} else {
				assert.Equal(t, testAdminEmail, body["email"])
			}
		})
	}
}
