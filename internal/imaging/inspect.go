// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging validates uploaded images before they are stored.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/dscapture/dscapture/internal/model"
)

// ErrUnsupportedFormat is returned for data that is not a JPEG, PNG, GIF or
// WebP image.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Info describes a decoded image.
type Info struct {
	Width    int
	Height   int
	Format   string
	MimeType string
}

// Inspect checks that data is a supported image and returns its dimensions
// after EXIF orientation has been applied.
func Inspect(data []byte) (Info, error) {
	format := detectFormat(data)
	if format == "" {
		return Info{}, ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return Info{}, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	return Info{
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Format:   format,
		MimeType: formatToMimeType(format),
	}, nil
}

// Extension returns the file extension for the detected format, without the
// dot. Stored objects are named by their content, never by the client's
// filename, since the local driver serves them with an extension-based
// content type.
func (i Info) Extension() string {
	switch i.Format {
	case "jpeg":
		return "jpg"
	case "png", "gif", "webp":
		return i.Format
	default:
		return "bin"
	}
}

// IsImage checks if a MIME type represents an image that can be uploaded.
func IsImage(mimeType string) bool {
	switch mimeType {
	case model.MimeTypeJPEG, model.MimeTypePNG, model.MimeTypeGIF, model.MimeTypeWebP:
		return true
	default:
		return false
	}
}

// detectFormat detects the image format from raw bytes.
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// Explicitly reject TIFF (CVE-2023-36308 in disintegration/imaging)
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

func formatToMimeType(format string) string {
	switch format {
	case "jpeg":
		return model.MimeTypeJPEG
	case "png":
		return model.MimeTypePNG
	case "gif":
		return model.MimeTypeGIF
	case "webp":
		return model.MimeTypeWebP
	default:
		return "application/octet-stream"
	}
}
