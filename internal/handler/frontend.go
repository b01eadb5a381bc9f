// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dscapture/dscapture/internal/render"
	"github.com/dscapture/dscapture/internal/seo"
	"github.com/dscapture/dscapture/internal/service"
	"github.com/dscapture/dscapture/internal/store"
)

// FrontendHandler serves the public pages.
type FrontendHandler struct {
	renderer *render.Renderer
	hero     *service.HeroService
	homepage *service.HomepageService
	posts    *service.PostService
	catalog  *service.ServiceCatalog
	site     seo.SiteConfig
	logger   *slog.Logger
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(
	renderer *render.Renderer,
	hero *service.HeroService,
	homepage *service.HomepageService,
	posts *service.PostService,
	catalog *service.ServiceCatalog,
	site seo.SiteConfig,
	logger *slog.Logger,
) *FrontendHandler {
	return &FrontendHandler{
		renderer: renderer,
		hero:     hero,
		homepage: homepage,
		posts:    posts,
		catalog:  catalog,
		site:     site,
		logger:   logger,
	}
}

// HomeData is the view model of the home page.
type HomeData struct {
	Hero   service.HeroContent
	Images service.HomepageImages
}

// BlogData is the view model of the blog list.
type BlogData struct {
	Posts      []store.Post
	LoadFailed bool
}

// Home renders the landing page. Missing hero copy or images fall back to the
// built-in defaults.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	hero, err := h.hero.Get(r.Context())
	if err != nil {
		h.logger.Error("failed to load hero content", "error", err)
	}
	images, err := h.homepage.Images(r.Context())
	if err != nil {
		h.logger.Error("failed to load homepage images", "error", err)
	}

	renderPage(w, r, h.renderer, tmplHome, render.TemplateData{
		Meta: seo.BuildMeta(nil, &h.site),
		Data: HomeData{Hero: hero, Images: images},
	})
}

// Portfolio renders the portfolio page.
func (h *FrontendHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	h.renderStatic(w, r, tmplPortfolio, &seo.PageData{Title: "Portfolio", Path: RoutePortfolio})
}

// Blog renders the list of published posts.
func (h *FrontendHandler) Blog(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.ListPublished(r.Context())
	if err != nil {
		h.logger.Error("failed to list published posts", "error", err)
	}

	renderPage(w, r, h.renderer, tmplBlog, render.TemplateData{
		Title: "Blog",
		Meta: seo.BuildMeta(&seo.PageData{
			Title:       "Blog",
			Description: "Neuigkeiten und Updates von DS_Capture im Überblick.",
			Path:        RouteBlog,
		}, &h.site),
		Data: BlogData{Posts: posts, LoadFailed: err != nil},
	})
}

// Post renders a single published post. Unknown or unpublished slugs get the
// 404 page.
func (h *FrontendHandler) Post(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := h.posts.GetPublished(r.Context(), slug)
	if err != nil {
		if isNotFound(err) {
			h.renderNotFound(w, r, "Artikel nicht gefunden")
			return
		}
		logAndInternalError(w, "failed to load post", "slug", slug, "error", err)
		return
	}

	page := &seo.PageData{
		Title:       post.Title,
		Description: post.Excerpt,
		Body:        post.Content,
		Path:        RouteBlog + "/" + post.Slug,
		Image:       post.CoverImage.String,
		Article:     true,
	}
	if post.PublishedAt.Valid {
		page.PublishedAt = &post.PublishedAt.Time
	}

	renderPage(w, r, h.renderer, tmplPost, render.TemplateData{
		Title:  post.Title,
		Meta:   seo.BuildMeta(page, &h.site),
		JSONLD: seo.BuildArticleSchema(page, &h.site, post.UpdatedAt),
		Data:   post,
	})
}

// Services renders the services carousel.
func (h *FrontendHandler) Services(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, tmplServices, render.TemplateData{
		Title: "Services",
		Meta:  seo.BuildMeta(&seo.PageData{Title: "Services", Path: RouteServices}, &h.site),
		Data:  h.catalog.List(r.Context()),
	})
}

// NotFound renders the 404 page.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderNotFound(w, r, "Seite nicht gefunden")
}

// Robots serves robots.txt.
func (h *FrontendHandler) Robots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write([]byte(seo.GenerateRobots(h.site.SiteURL, false)))
}

// Sitemap serves sitemap.xml with the static pages and every published post.
func (h *FrontendHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.ListPublished(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list posts for sitemap", "error", err)
		return
	}

	entries := make([]seo.SitemapPost, 0, len(posts))
	for _, p := range posts {
		entries = append(entries, seo.SitemapPost{Slug: p.Slug, PublishedAt: p.PublishedAt.Time})
	}

	data, err := seo.GenerateSitemap(h.site.SiteURL, entries)
	if err != nil {
		logAndInternalError(w, "failed to build sitemap", "error", err)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(data)
}

func (h *FrontendHandler) renderStatic(w http.ResponseWriter, r *http.Request, name string, page *seo.PageData) {
	renderPage(w, r, h.renderer, name, render.TemplateData{
		Title: page.Title,
		Meta:  seo.BuildMeta(page, &h.site),
	})
}

func (h *FrontendHandler) renderNotFound(w http.ResponseWriter, r *http.Request, title string) {
	renderPageStatus(w, r, h.renderer, http.StatusNotFound, tmplNotFound, render.TemplateData{
		Title: title,
		Meta:  seo.BuildMeta(&seo.PageData{Title: title, Path: r.URL.Path, NoIndex: true}, &h.site),
	})
}
