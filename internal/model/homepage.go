// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Homepage image types. At most one stored image exists per type.
const (
	ImageTypeBackground = "background"
	ImageTypeOverlay    = "overlay"
)

// ImageTypeService is the key segment used for service carousel uploads.
const ImageTypeService = "service"

// HomepageImageTypes lists the image types editable on the homepage.
var HomepageImageTypes = []string{ImageTypeBackground, ImageTypeOverlay}

// IsHomepageImageType reports whether t is a homepage image type.
func IsHomepageImageType(t string) bool {
	return t == ImageTypeBackground || t == ImageTypeOverlay
}

// Hero content defaults.
const (
	HeroSingletonKey   = "hero"
	DefaultHeroCTA     = "Jetzt Kontaktieren"
	DefaultHeroHeading = "Visuelle Exzellenz. Digitale Präzision."
)

// Bundled fallback images used when no homepage image has been uploaded.
const (
	FallbackBackgroundImage = "/static/img/background.jpg"
	FallbackOverlayImage    = "/static/img/overlay.png"
)

// MIME types accepted for image uploads.
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
)
