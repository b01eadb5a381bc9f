// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dscapture/dscapture/internal/middleware"
	"github.com/dscapture/dscapture/internal/model"
	"github.com/dscapture/dscapture/internal/notify"
	"github.com/dscapture/dscapture/internal/render"
	"github.com/dscapture/dscapture/internal/seo"
	"github.com/dscapture/dscapture/internal/service"
	"github.com/dscapture/dscapture/internal/util"
)

// maxContactBody bounds the JSON body of the notification endpoint.
const maxContactBody = 64 << 10

// Messages of the contact form.
const (
	contactRateLimited = "Zu viele Anfragen. Bitte versuche es gleich noch einmal."
	contactSendFailed  = "Deine Nachricht konnte nicht gesendet werden. Bitte versuche es später erneut."
	contactSent        = "Vielen Dank für deine Nachricht!"
)

// ContactHandler serves the contact form and the notification endpoint.
type ContactHandler struct {
	renderer *render.Renderer
	sender   notify.Sender
	relay    notify.Sender
	activity *service.ActivityService
	limiter  *middleware.GlobalRateLimiter
	site     seo.SiteConfig
}

// NewContactHandler creates a ContactHandler. sender delivers contact form
// submissions; relay backs POST /api/contact-notification and must report
// notify.ErrNotConfigured when it has no credentials. limiter may be nil.
func NewContactHandler(
	renderer *render.Renderer,
	sender, relay notify.Sender,
	activity *service.ActivityService,
	limiter *middleware.GlobalRateLimiter,
	site seo.SiteConfig,
) *ContactHandler {
	return &ContactHandler{
		renderer: renderer,
		sender:   sender,
		relay:    relay,
		activity: activity,
		limiter:  limiter,
		site:     site,
	}
}

// ContactData is the view model of the contact page.
type ContactData struct {
	Form  notify.Payload
	Error string
	Field string
	Sent  bool
}

// Form renders the contact page.
func (h *ContactHandler) Form(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, ContactData{Sent: r.URL.Query().Get("gesendet") == "1"})
}

// Submit handles POST /kontakt. Invalid input is reported inline without
// any notification request.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, ContactData{Error: "Ungültige Formulardaten."})
		return
	}

	payload := notify.Payload{
		Name:    r.FormValue("name"),
		Email:   r.FormValue("email"),
		Phone:   r.FormValue("phone"),
		Subject: r.FormValue("subject"),
		Message: r.FormValue("message"),
	}.Normalize()

	if err := payload.Validate(); err != nil {
		data := ContactData{Form: payload, Error: err.Error()}
		var pe *notify.PayloadError
		if errors.As(err, &pe) {
			data.Field = pe.Field
		}
		h.render(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	if h.limiter != nil && !h.limiter.Allow(util.ClientIP(r)) {
		h.render(w, r, http.StatusTooManyRequests, ContactData{Form: payload, Error: contactRateLimited})
		return
	}

	meta := requestMetadata(r)
	meta["email"] = payload.Email

	if err := h.sender.Send(r.Context(), payload); err != nil {
		slog.Error("contact notification failed", "error", err)
		meta["error"] = err.Error()
		h.activity.LogUserAction(r.Context(), service.ActionParams{
			Action:      model.ActionContactFailed,
			Description: "Kontaktanfrage konnte nicht zugestellt werden",
			Context:     model.ActivityContextPublic,
			EntityType:  model.EntityContact,
			Metadata:    meta,
		})
		h.render(w, r, http.StatusBadGateway, ContactData{Form: payload, Error: contactSendFailed})
		return
	}

	h.activity.LogUserAction(r.Context(), service.ActionParams{
		Action:      model.ActionContactSubmitted,
		Description: "Kontaktanfrage von " + payload.Name,
		Context:     model.ActivityContextPublic,
		EntityType:  model.EntityContact,
		Metadata:    meta,
	})

	flashAndRedirect(w, r, h.renderer, redirectContact+"?gesendet=1", contactSent, render.FlashSuccess)
}

// Notify handles POST /api/contact-notification.
//
// 400 for an invalid payload, 503 when the relay has no credentials, 502
// when the relay fails, 200 otherwise.
func (h *ContactHandler) Notify(w http.ResponseWriter, r *http.Request) {
	var payload notify.Payload
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxContactBody))
	if err := dec.Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Ungültige Anfrage.")
		return
	}
	payload = payload.Normalize()

	if err := payload.Validate(); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	err := h.relay.Send(r.Context(), payload)
	switch {
	case errors.Is(err, notify.ErrNotConfigured):
		slog.Warn("contact notification relay is not configured")
		writeJSON(w, http.StatusServiceUnavailable, notify.ErrorBody{Error: notify.NotConfiguredMessage})
	case err != nil:
		slog.Error("contact notification relay failed", "error", err)
		writeJSON(w, http.StatusBadGateway, notify.ErrorBody{
			Error:   "Die E-Mail-Benachrichtigung konnte nicht gesendet werden.",
			Details: err.Error(),
		})
	default:
		writeJSONSuccess(w, nil)
	}
}

func (h *ContactHandler) render(w http.ResponseWriter, r *http.Request, status int, data ContactData) {
	renderPageStatus(w, r, h.renderer, status, tmplContact, render.TemplateData{
		Title: "Kontakt",
		Meta: seo.BuildMeta(&seo.PageData{
			Title:       "Kontakt",
			Description: "Nimm Kontakt mit DS_Capture auf.",
			Path:        RouteContact,
		}, &h.site),
		Data: data,
	})
}
