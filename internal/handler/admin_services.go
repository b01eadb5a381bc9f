// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dscapture/dscapture/internal/middleware"
	"github.com/dscapture/dscapture/internal/render"
	"github.com/dscapture/dscapture/internal/service"
	"github.com/dscapture/dscapture/internal/uikit"
)

// ServicesHandler handles the services carousel admin.
type ServicesHandler struct {
	renderer *render.Renderer
	catalog  *service.ServiceCatalog
}

// NewServicesHandler creates a new ServicesHandler.
func NewServicesHandler(renderer *render.Renderer, catalog *service.ServiceCatalog) *ServicesHandler {
	return &ServicesHandler{renderer: renderer, catalog: catalog}
}

// ServiceFormData is the view model of the service form.
type ServiceFormData struct {
	IsNew    bool
	Action   string
	Form     service.ServiceInput
	ImageURL string
	Error    string
}

// List renders all services, bypassing the cache.
func (h *ServicesHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.catalog.ListFresh(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list services", "error", err)
		return
	}

	renderPage(w, r, h.renderer, tmplServiceList, render.TemplateData{
		Title:       "Services",
		Breadcrumbs: uikit.Breadcrumbs("Admin", redirectAdmin, "Services", ""),
		Data:        entries,
	})
}

// NewForm renders the empty service form.
func (h *ServicesHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, ServiceFormData{
		IsNew:  true,
		Action: redirectAdminServices + RouteSuffixNew,
	})
}

// Create handles POST /admin/services/new.
func (h *ServicesHandler) Create(w http.ResponseWriter, r *http.Request) {
	action := redirectAdminServices + RouteSuffixNew
	in, up, ok := h.parseForm(w, r, action)
	if !ok {
		return
	}
	if up != nil {
		defer func() { _ = up.Close() }()
	}

	if _, err := h.catalog.Create(r.Context(), middleware.GetIdentity(r), in, up.upload()); err != nil {
		h.formFailure(w, r, ServiceFormData{IsNew: true, Action: action, Form: in}, err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminServices, "Service erfolgreich erstellt!")
}

// EditForm renders the form of an existing service.
func (h *ServicesHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entry, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			flashError(w, r, h.renderer, redirectAdminServices, "Service nicht gefunden.")
			return
		}
		logAndInternalError(w, "failed to load service", "service_id", id, "error", err)
		return
	}

	h.renderForm(w, r, http.StatusOK, ServiceFormData{
		Action:   redirectAdminServices + "/" + entry.ID,
		Form:     inputFromEntry(entry),
		ImageURL: entry.ImageURL,
	})
}

// Update handles POST /admin/services/{id}.
func (h *ServicesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	action := redirectAdminServices + "/" + id
	in, up, ok := h.parseForm(w, r, action)
	if !ok {
		return
	}
	if up != nil {
		defer func() { _ = up.Close() }()
	}

	if _, err := h.catalog.Update(r.Context(), middleware.GetIdentity(r), id, in, up.upload()); err != nil {
		if isNotFound(err) {
			flashError(w, r, h.renderer, redirectAdminServices, "Service nicht gefunden.")
			return
		}
		data := ServiceFormData{Action: action, Form: in}
		if entry, gerr := h.catalog.Get(r.Context(), id); gerr == nil {
			data.ImageURL = entry.ImageURL
		}
		h.formFailure(w, r, data, err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminServices, "Service gespeichert.")
}

// Delete handles POST /admin/services/{id}/delete.
func (h *ServicesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.catalog.Delete(r.Context(), middleware.GetIdentity(r), id); err != nil {
		if isNotFound(err) {
			flashError(w, r, h.renderer, redirectAdminServices, "Service nicht gefunden.")
			return
		}
		flashFailure(w, r, h.renderer, redirectAdminServices, "failed to delete service", err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminServices, "Service gelöscht.")
}

// serviceUpload is the optional image of a service form.
type serviceUpload struct {
	up   *service.Upload
	file interface{ Close() error }
}

func (u *serviceUpload) upload() *service.Upload {
	if u == nil {
		return nil
	}
	return u.up
}

func (u *serviceUpload) Close() error {
	return u.file.Close()
}

// parseForm reads the multipart service form. The upload is nil when no
// image was selected.
func (h *ServicesHandler) parseForm(w http.ResponseWriter, r *http.Request, action string) (service.ServiceInput, *serviceUpload, bool) {
	if err := parseMultipart(w, r); err != nil {
		flashError(w, r, h.renderer, action, "Die Datei ist zu groß oder das Formular ist ungültig.")
		return service.ServiceInput{}, nil, false
	}

	in := service.ServiceInput{
		Slug:          r.FormValue("slug"),
		Label:         r.FormValue("label"),
		Headline:      r.FormValue("headline"),
		Subline:       r.FormValue("subline"),
		InfoTitle:     r.FormValue("info_title"),
		Paragraphs:    r.FormValue("paragraphs"),
		BulletPoints:  r.FormValue("bullet_points"),
		GradientStart: r.FormValue("gradient_start"),
		GradientEnd:   r.FormValue("gradient_end"),
		RemoveImage:   r.FormValue("remove_image") != "",
	}

	up, file, err := formUpload(r, "image")
	if err != nil {
		flashError(w, r, h.renderer, action, "Die Datei konnte nicht gelesen werden.")
		return service.ServiceInput{}, nil, false
	}
	if up == nil {
		return in, nil, true
	}
	return in, &serviceUpload{up: up, file: file}, true
}

func (h *ServicesHandler) formFailure(w http.ResponseWriter, r *http.Request, data ServiceFormData, err error) {
	status := http.StatusUnprocessableEntity
	if !service.IsValidation(err) {
		status = http.StatusInternalServerError
		slog.Error("failed to save service", "error", err, "path", r.URL.Path)
	}
	data.Error = err.Error()
	h.renderForm(w, r, status, data)
}

func (h *ServicesHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, data ServiceFormData) {
	title := "Service bearbeiten"
	if data.IsNew {
		title = "Neuer Service"
	}
	renderPageStatus(w, r, h.renderer, status, tmplServiceForm, render.TemplateData{
		Title:       title,
		Breadcrumbs: uikit.Breadcrumbs("Admin", redirectAdmin, "Services", redirectAdminServices, title, ""),
		Data:        data,
	})
}

func inputFromEntry(e service.ServiceEntry) service.ServiceInput {
	return service.ServiceInput{
		Slug:          e.Slug,
		Label:         e.Label,
		Headline:      e.Headline,
		Subline:       e.Subline,
		InfoTitle:     e.InfoTitle,
		Paragraphs:    strings.Join(e.InfoParagraphs, "\n"),
		BulletPoints:  strings.Join(e.InfoBulletPoints, "\n"),
		GradientStart: e.GradientStart,
		GradientEnd:   e.GradientEnd,
	}
}
