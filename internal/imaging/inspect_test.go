// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/dscapture/dscapture/internal/model"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encode(t *testing.T, format string, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	case "gif":
		err = gif.Encode(&buf, img, nil)
	}
	if err != nil {
		t.Fatalf("encoding %s: %v", format, err)
	}
	return buf.Bytes()
}

func TestInspect(t *testing.T) {
	img := createTestImage(40, 30)

	tests := []struct {
		format   string
		wantMime string
		wantExt  string
	}{
		{"png", model.MimeTypePNG, "png"},
		{"jpeg", model.MimeTypeJPEG, "jpg"},
		{"gif", model.MimeTypeGIF, "gif"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			info, err := Inspect(encode(t, tt.format, img))
			if err != nil {
				t.Fatalf("Inspect: %v", err)
			}
			if info.Width != 40 || info.Height != 30 {
				t.Errorf("dimensions = %dx%d, want 40x30", info.Width, info.Height)
			}
			if info.MimeType != tt.wantMime {
				t.Errorf("MimeType = %q, want %q", info.MimeType, tt.wantMime)
			}
			if got := info.Extension(); got != tt.wantExt {
				t.Errorf("Extension() = %q, want %q", got, tt.wantExt)
			}
		})
	}
}

func TestInspect_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"text", []byte("not an image at all")},
		{"pdf", []byte("%PDF-1.4\n")},
		{"tiff", []byte("II*\x00\x08\x00\x00\x00")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Inspect(tt.data); !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("Inspect() error = %v, want ErrUnsupportedFormat", err)
			}
		})
	}
}

func TestInspect_TruncatedPNG(t *testing.T) {
	data := encode(t, "png", createTestImage(10, 10))
	_, err := Inspect(data[:len(data)/2])
	if err == nil {
		t.Fatal("expected decode error for truncated data")
	}
	if errors.Is(err, ErrUnsupportedFormat) {
		t.Error("truncated PNG is a decode error, not a format error")
	}
}

func TestInspect_TrailingMarkupKeepsImageExtension(t *testing.T) {
	data := append(encode(t, "png", createTestImage(4, 4)), []byte("<html><script>alert(1)</script></html>")...)

	info, err := Inspect(data)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if got := info.Extension(); got != "png" {
		t.Errorf("Extension() = %q, want png", got)
	}
}

func TestInfoExtension_Webp(t *testing.T) {
	if got := (Info{Format: "webp"}).Extension(); got != "webp" {
		t.Errorf("Extension() = %q, want webp", got)
	}
	if got := (Info{}).Extension(); got != "bin" {
		t.Errorf("zero Info Extension() = %q, want bin", got)
	}
}

func TestIsImage(t *testing.T) {
	tests := []struct {
		mimeType string
		want     bool
	}{
		{model.MimeTypeJPEG, true},
		{model.MimeTypePNG, true},
		{model.MimeTypeGIF, true},
		{model.MimeTypeWebP, true},
		{"application/pdf", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			if got := IsImage(tt.mimeType); got != tt.want {
				t.Errorf("IsImage(%q) = %v, want %v", tt.mimeType, got, tt.want)
			}
		})
	}
}
