// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dscapture/dscapture/internal/imaging"
	"github.com/dscapture/dscapture/internal/storage"
)

// MaxImageSize is the largest accepted image upload.
const MaxImageSize = 10 << 20 // 10 MB

// UploadCacheControl is sent with every stored image.
const UploadCacheControl = "max-age=3600"

// Upload is a file selected in an upload form.
type Upload struct {
	Reader      io.Reader
	Filename    string
	Size        int64
	ContentType string
}

var (
	// ErrNoFile is returned when no file was selected.
	ErrNoFile = &ValidationError{Message: "Bitte wähle zuerst eine Datei aus."}
	// ErrNoIdentity is returned when the acting user is unknown.
	ErrNoIdentity = errors.New("Es konnte kein angemeldeter Nutzer ermittelt werden.")
	// ErrNoPublicURL is returned when the stored object has no public URL.
	ErrNoPublicURL = errors.New("Die öffentliche URL konnte nicht ermittelt werden.")
)

// objectKey builds "{userID}/{kind}-{unixMillis}.{ext}" with ext taken from
// the inspected image format.
func objectKey(userID, kind string, info imaging.Info, now time.Time) string {
	return fmt.Sprintf("%s/%s-%d.%s", userID, kind, now.UnixMilli(), info.Extension())
}

// readImage reads and validates the upload without touching any bucket.
func readImage(up *Upload) ([]byte, imaging.Info, error) {
	if up == nil || up.Reader == nil {
		return nil, imaging.Info{}, ErrNoFile
	}
	if up.Size > MaxImageSize {
		return nil, imaging.Info{}, invalid("Die Datei ist zu groß (maximal 10 MB).")
	}

	data, err := io.ReadAll(io.LimitReader(up.Reader, MaxImageSize+1))
	if err != nil {
		return nil, imaging.Info{}, fmt.Errorf("Die Datei konnte nicht gelesen werden: %w", err)
	}
	if len(data) == 0 {
		return nil, imaging.Info{}, ErrNoFile
	}
	if len(data) > MaxImageSize {
		return nil, imaging.Info{}, invalid("Die Datei ist zu groß (maximal 10 MB).")
	}

	info, err := imaging.Inspect(data)
	if err != nil {
		return nil, imaging.Info{}, invalid("Die Datei ist kein unterstütztes Bild (JPEG, PNG, GIF oder WebP).")
	}
	return data, info, nil
}

// putImage writes data under key. Existing objects are never replaced.
func putImage(ctx context.Context, bucket storage.Bucket, key string, data []byte, info imaging.Info) error {
	err := bucket.Put(ctx, key, bytes.NewReader(data), int64(len(data)), storage.PutOptions{
		ContentType:  info.MimeType,
		CacheControl: UploadCacheControl,
	})
	if err != nil {
		return fmt.Errorf("Fehler beim Hochladen: %w", err)
	}
	return nil
}
