// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

// Breadcrumb represents a single breadcrumb item.
type Breadcrumb struct {
	Label  string
	URL    string
	Active bool
}

// Breadcrumbs builds a trail from label/URL pairs. The last item is marked
// active and loses its URL.
//
//	Breadcrumbs("Admin", "/admin", "Blog", "/admin/blog", "Neuer Artikel", "")
func Breadcrumbs(pairs ...string) []Breadcrumb {
	crumbs := make([]Breadcrumb, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		crumbs = append(crumbs, Breadcrumb{Label: pairs[i], URL: pairs[i+1]})
	}
	if n := len(crumbs); n > 0 {
		crumbs[n-1].Active = true
		crumbs[n-1].URL = ""
	}
	return crumbs
}
