// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package web embeds the HTML templates and static assets.
package web

import "embed"

// Templates holds layouts, partials and the public, auth and admin pages.
//
//go:embed all:templates
var Templates embed.FS

// Static holds stylesheets, scripts and the bundled fallback images.
//
//go:embed all:static
var Static embed.FS
