// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/dscapture/dscapture/internal/auth"
	"github.com/dscapture/dscapture/internal/render"
	"github.com/dscapture/dscapture/internal/service"
	"github.com/dscapture/dscapture/internal/session"
	"github.com/dscapture/dscapture/internal/uikit"
)

// AdminHandler handles the admin dashboard, the activity log and the gate
// status endpoint.
type AdminHandler struct {
	renderer *render.Renderer
	gate     *auth.Gate
	posts    *service.PostService
	catalog  *service.ServiceCatalog
	activity *service.ActivityService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(renderer *render.Renderer, gate *auth.Gate, posts *service.PostService, catalog *service.ServiceCatalog, activity *service.ActivityService) *AdminHandler {
	return &AdminHandler{
		renderer: renderer,
		gate:     gate,
		posts:    posts,
		catalog:  catalog,
		activity: activity,
	}
}

// DashboardData holds the counters shown on the dashboard.
type DashboardData struct {
	PostCount    int
	ServiceCount int
}

// Dashboard renders the admin start page.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	var data DashboardData

	if posts, err := h.posts.ListAll(r.Context()); err != nil {
		slog.Error("failed to count posts", "error", err)
	} else {
		data.PostCount = len(posts)
	}
	if entries, err := h.catalog.ListFresh(r.Context()); err != nil {
		slog.Error("failed to count services", "error", err)
	} else {
		data.ServiceCount = len(entries)
	}

	renderPage(w, r, h.renderer, tmplDashboard, render.TemplateData{
		Title: "Adminbereich",
		Data:  data,
	})
}

// Activity lists the most recent activity log entries.
func (h *AdminHandler) Activity(w http.ResponseWriter, r *http.Request) {
	logs, err := h.activity.Recent(r.Context(), service.ActivityLimit)
	if err != nil {
		logAndInternalError(w, "failed to list activity logs", "error", err)
		return
	}

	renderPage(w, r, h.renderer, tmplActivityList, render.TemplateData{
		Title:       "Aktivitäten",
		Breadcrumbs: uikit.Breadcrumbs("Admin", redirectAdmin, "Aktivitäten", ""),
		Data:        logs,
	})
}

// Verify reports the gate status as JSON for admin scripts. It always
// answers 200; the state field carries the outcome.
func (h *AdminHandler) Verify(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, h.gate.Status(r.Context(), session.FromContext(r.Context())))
}
