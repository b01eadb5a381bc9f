// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dscapture/dscapture/internal/middleware"
	"github.com/dscapture/dscapture/internal/model"
	"github.com/dscapture/dscapture/internal/render"
	"github.com/dscapture/dscapture/internal/service"
	"github.com/dscapture/dscapture/internal/uikit"
)

// HomepageHandler handles the homepage images and the hero copy.
type HomepageHandler struct {
	renderer *render.Renderer
	homepage *service.HomepageService
	hero     *service.HeroService
}

// NewHomepageHandler creates a new HomepageHandler.
func NewHomepageHandler(renderer *render.Renderer, homepage *service.HomepageService, hero *service.HeroService) *HomepageHandler {
	return &HomepageHandler{renderer: renderer, homepage: homepage, hero: hero}
}

// HeroFormData is the view model of the hero form.
type HeroFormData struct {
	Form  service.HeroInput
	Error string
}

// Images renders the two upload forms with the current images.
func (h *HomepageHandler) Images(w http.ResponseWriter, r *http.Request) {
	images, err := h.homepage.Images(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to load homepage images", "error", err)
		return
	}

	renderPage(w, r, h.renderer, tmplHomepage, render.TemplateData{
		Title:       "Homepage Verwaltung",
		Breadcrumbs: uikit.Breadcrumbs("Admin", redirectAdmin, "Homepage", ""),
		Data:        images,
	})
}

// Upload handles POST /admin/homepage/{type}. Every failure is reported as a
// single message.
func (h *HomepageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	imageType := chi.URLParam(r, "type")
	if !model.IsHomepageImageType(imageType) {
		http.NotFound(w, r)
		return
	}

	if err := parseMultipart(w, r); err != nil {
		flashError(w, r, h.renderer, redirectAdminHomepage, "Die Datei ist zu groß oder das Formular ist ungültig.")
		return
	}

	up, file, err := formUpload(r, "file")
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminHomepage, "Die Datei konnte nicht gelesen werden.")
		return
	}
	if file != nil {
		defer func() { _ = file.Close() }()
	}

	if _, err := h.homepage.UploadImage(r.Context(), middleware.GetIdentity(r), imageType, up); err != nil {
		flashFailure(w, r, h.renderer, redirectAdminHomepage, "homepage image upload failed", err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminHomepage, "Bild erfolgreich hochgeladen!")
}

// HeroForm renders the hero copy form.
func (h *HomepageHandler) HeroForm(w http.ResponseWriter, r *http.Request) {
	hero, err := h.hero.Get(r.Context())
	data := HeroFormData{Form: service.HeroInput{
		Heading:    hero.Heading,
		Subheading: hero.Subheading,
		CtaLabel:   hero.CtaLabel,
	}}
	if err != nil {
		slog.Error("failed to load hero content", "error", err)
		data.Error = "Die Hero-Texte konnten nicht geladen werden. Bitte versuche es erneut."
	}

	h.renderHero(w, r, http.StatusOK, data)
}

// SaveHero handles POST /admin/homepage/hero.
func (h *HomepageHandler) SaveHero(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminHero) {
		return
	}

	in := service.HeroInput{
		Heading:    r.FormValue("heading"),
		Subheading: r.FormValue("subheading"),
		CtaLabel:   r.FormValue("cta_label"),
	}

	if _, err := h.hero.Save(r.Context(), middleware.GetIdentity(r), in); err != nil {
		status := http.StatusUnprocessableEntity
		if !service.IsValidation(err) {
			status = http.StatusInternalServerError
			slog.Error("failed to save hero content", "error", err)
		}
		h.renderHero(w, r, status, HeroFormData{Form: in, Error: err.Error()})
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminHero, "Die Hero-Texte wurden gespeichert.")
}

func (h *HomepageHandler) renderHero(w http.ResponseWriter, r *http.Request, status int, data HeroFormData) {
	renderPageStatus(w, r, h.renderer, status, tmplHero, render.TemplateData{
		Title:       "Hero-Texte",
		Breadcrumbs: uikit.Breadcrumbs("Admin", redirectAdmin, "Homepage", redirectAdminHomepage, "Hero-Texte", ""),
		Data:        data,
	})
}
