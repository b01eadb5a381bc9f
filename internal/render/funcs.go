// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"html/template"
	"strings"

	"github.com/dscapture/dscapture/internal/model"
	"github.com/dscapture/dscapture/internal/uikit"
)

var postStatusLabels = map[string]string{
	model.PostStatusDraft:     "Entwurf",
	model.PostStatusPublished: "Veröffentlicht",
	model.PostStatusArchived:  "Archiviert",
}

// TemplateFuncs returns the generic uikit helpers plus the site functions.
func (r *Renderer) TemplateFuncs() template.FuncMap {
	funcs := uikit.TemplateFuncs()

	funcs["markdown"] = Markdown
	funcs["statusLabel"] = func(status string) string {
		if label, ok := postStatusLabels[status]; ok {
			return label
		}
		return status
	}
	// isActive marks navigation links; "/" only matches itself.
	funcs["isActive"] = func(current, link string) bool {
		if link == "/" {
			return current == "/"
		}
		return current == link || strings.HasPrefix(current, link+"/")
	}
	funcs["gradient"] = func(start, end string) template.CSS {
		if start == "" || end == "" {
			return ""
		}
		// Colors are validated as #rrggbb before they are stored.
		return template.CSS("background: linear-gradient(135deg, " + start + ", " + end + ");")
	}

	return funcs
}
