// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds page metadata, structured data, robots.txt and
// sitemap.xml for the public site.
package seo

import (
	"encoding/json"
	"html/template"
	"strings"
	"time"
)

// DescriptionLength is the maximum length of a derived description.
const DescriptionLength = 160

// Locale is the OpenGraph locale of every page.
const Locale = "de_DE"

// Meta holds all SEO meta tag data for a page.
type Meta struct {
	Title       string // <title> and og:title
	Description string
	Canonical   string
	OGImage     string // absolute
	OGType      string // website or article
	OGSiteName  string
	OGURL       string
	OGLocale    string
	Robots      string
	TwitterCard string
}

// PageData contains page information for building meta tags.
type PageData struct {
	Title       string // without site name
	Description string
	Body        string // description fallback
	Path        string // e.g. "/blog/hochzeit"
	Image       string
	Article     bool
	NoIndex     bool
	PublishedAt *time.Time
}

// SiteConfig contains site-wide settings for SEO.
type SiteConfig struct {
	SiteName        string
	SiteURL         string
	SiteDescription string
	DefaultOGImage  string
}

// Title returns "<page> | <site>", or the site name alone.
func (s *SiteConfig) Title(page string) string {
	if page == "" {
		return s.SiteName
	}
	return page + " | " + s.SiteName
}

// BuildMeta creates a Meta struct from page and site data with proper fallbacks.
// A nil page yields the homepage metadata.
func BuildMeta(page *PageData, site *SiteConfig) *Meta {
	meta := &Meta{
		OGType:      "website",
		OGSiteName:  site.SiteName,
		OGLocale:    Locale,
		TwitterCard: "summary_large_image",
		Robots:      "index,follow",
	}

	if page == nil {
		meta.Title = site.SiteName
		meta.Description = site.SiteDescription
		meta.Canonical = siteRoot(site.SiteURL) + "/"
		meta.OGURL = meta.Canonical
		meta.OGImage = makeAbsoluteURL(site.DefaultOGImage, site.SiteURL)
		return meta
	}

	if page.Article {
		meta.OGType = "article"
	}
	meta.Title = site.Title(page.Title)

	switch {
	case page.Description != "":
		meta.Description = page.Description
	case page.Body != "":
		meta.Description = FirstChars(stripHTML(page.Body), DescriptionLength)
	default:
		meta.Description = site.SiteDescription
	}

	if page.Image != "" {
		meta.OGImage = makeAbsoluteURL(page.Image, site.SiteURL)
	} else {
		meta.OGImage = makeAbsoluteURL(site.DefaultOGImage, site.SiteURL)
	}

	meta.Canonical = siteRoot(site.SiteURL) + page.Path
	meta.OGURL = meta.Canonical
	if page.NoIndex {
		meta.Robots = "noindex,nofollow"
	}
	return meta
}

// ArticleSchema represents JSON-LD Article structured data.
type ArticleSchema struct {
	Context          string     `json:"@context"`
	Type             string     `json:"@type"`
	Headline         string     `json:"headline"`
	Description      string     `json:"description,omitempty"`
	Image            string     `json:"image,omitempty"`
	DatePublished    string     `json:"datePublished,omitempty"`
	DateModified     string     `json:"dateModified,omitempty"`
	Publisher        *OrgSchema `json:"publisher,omitempty"`
	MainEntityOfPage string     `json:"mainEntityOfPage,omitempty"`
}

// OrgSchema represents JSON-LD Organization structured data.
type OrgSchema struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// BuildArticleSchema creates JSON-LD Article structured data for a blog post.
func BuildArticleSchema(page *PageData, site *SiteConfig, modifiedAt time.Time) template.JS {
	if page == nil {
		return ""
	}

	article := ArticleSchema{
		Context:          "https://schema.org",
		Type:             "Article",
		Headline:         page.Title,
		Description:      page.Description,
		Image:            makeAbsoluteURL(page.Image, site.SiteURL),
		MainEntityOfPage: siteRoot(site.SiteURL) + page.Path,
		Publisher:        &OrgSchema{Type: "Organization", Name: site.SiteName},
	}
	if page.PublishedAt != nil {
		article.DatePublished = page.PublishedAt.Format(time.RFC3339)
	}
	if !modifiedAt.IsZero() {
		article.DateModified = modifiedAt.Format(time.RFC3339)
	}

	return marshalJSONLD(article)
}

// marshalJSONLD marshals structured data to JSON-LD script tag content.
func marshalJSONLD(v any) template.JS {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return template.JS(data)
}

// FirstChars returns the first n characters of text.
func FirstChars(text string, n int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return strings.TrimSpace(string(runes[:n]))
}

// stripHTML removes HTML tags and collapses whitespace.
func stripHTML(html string) string {
	var result strings.Builder
	inTag := false
	for _, r := range html {
		if r == '<' {
			inTag = true
			continue
		}
		if r == '>' {
			inTag = false
			result.WriteRune(' ')
			continue
		}
		if !inTag {
			result.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(result.String()), " ")
}

func siteRoot(siteURL string) string {
	return strings.TrimSuffix(siteURL, "/")
}

// makeAbsoluteURL ensures a URL is absolute by prepending site URL if needed.
func makeAbsoluteURL(url, siteURL string) string {
	if url == "" {
		return ""
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	return siteRoot(siteURL) + url
}
