// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/mileusna/useragent"

	"github.com/dscapture/dscapture/internal/service"
	"github.com/dscapture/dscapture/internal/util"
)

// maxUploadMemory is the part of a multipart form kept in memory.
const maxUploadMemory = 12 << 20

// requestMetadata describes the client for activity log entries.
func requestMetadata(r *http.Request) map[string]any {
	meta := map[string]any{"ip": util.ClientIP(r)}

	raw := r.UserAgent()
	if raw == "" {
		return meta
	}
	ua := useragent.Parse(raw)

	browser := ua.Name
	if browser == "" {
		browser = "Unknown"
	}
	osName := ua.OS
	if osName == "" {
		osName = "Unknown"
	}

	var device string
	switch {
	case ua.Mobile:
		device = "mobile"
	case ua.Tablet:
		device = "tablet"
	case ua.Bot:
		device = "bot"
	default:
		device = "desktop"
	}

	meta["browser"] = browser
	meta["os"] = osName
	meta["device"] = device
	return meta
}

// formUpload returns the file of field from a parsed multipart form, or nil
// when none was selected. The caller must close the returned file.
func formUpload(r *http.Request, field string) (*service.Upload, multipart.File, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	if header.Size == 0 && header.Filename == "" {
		_ = file.Close()
		return nil, nil, nil
	}
	return &service.Upload{
		Reader:      file,
		Filename:    header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
	}, file, nil
}

// parseMultipart limits the body and parses a multipart form.
func parseMultipart(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, service.MaxImageSize+maxUploadMemory)
	return r.ParseMultipartForm(maxUploadMemory)
}

// formatDuration formats a lockout duration in German.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d Sekunden", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 Minute"
		}
		return fmt.Sprintf("%d Minuten", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 Stunde"
	}
	return fmt.Sprintf("%d Stunden", hours)
}
