// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dscapture/dscapture/internal/middleware"
	"github.com/dscapture/dscapture/internal/model"
	"github.com/dscapture/dscapture/internal/render"
	"github.com/dscapture/dscapture/internal/service"
	"github.com/dscapture/dscapture/internal/store"
	"github.com/dscapture/dscapture/internal/uikit"
	"github.com/dscapture/dscapture/internal/util"
)

// PostsHandler handles the blog admin.
type PostsHandler struct {
	renderer *render.Renderer
	posts    *service.PostService
}

// NewPostsHandler creates a new PostsHandler.
func NewPostsHandler(renderer *render.Renderer, posts *service.PostService) *PostsHandler {
	return &PostsHandler{renderer: renderer, posts: posts}
}

// PostFormData is the view model of the post form.
type PostFormData struct {
	IsNew    bool
	Action   string
	Form     service.PostInput
	Statuses []string
	Error    string
}

// List renders all posts, newest first.
func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.ListAll(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list posts", "error", err)
		return
	}

	renderPage(w, r, h.renderer, tmplBlogList, render.TemplateData{
		Title:       "Blog Manager",
		Breadcrumbs: uikit.Breadcrumbs("Admin", redirectAdmin, "Blog", ""),
		Data:        posts,
	})
}

// NewForm renders the empty post form.
func (h *PostsHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, PostFormData{
		IsNew:  true,
		Action: redirectAdminNewPost,
		Form:   service.PostInput{Status: model.PostStatusDraft},
	})
}

// Create handles POST /admin/blog/neuer-artikel.
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminNewPost) {
		return
	}
	in := postInputFromForm(r)

	if _, err := h.posts.Create(r.Context(), middleware.GetIdentity(r), in); err != nil {
		h.formFailure(w, r, PostFormData{IsNew: true, Action: redirectAdminNewPost, Form: in}, err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminBlog, "Artikel erfolgreich erstellt!")
}

// EditForm renders the form of an existing post.
func (h *PostsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	post, ok := h.load(w, r)
	if !ok {
		return
	}

	h.renderForm(w, r, http.StatusOK, PostFormData{
		Action: redirectAdminBlog + "/" + post.ID,
		Form: service.PostInput{
			Title:      post.Title,
			Slug:       post.Slug,
			Excerpt:    post.Excerpt,
			Content:    post.Content,
			CoverImage: util.StringOrEmpty(post.CoverImage),
			Status:     post.Status,
		},
	})
}

// Update handles POST /admin/blog/{id}.
func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	action := redirectAdminBlog + "/" + id
	if !parseFormOrRedirect(w, r, h.renderer, action) {
		return
	}
	in := postInputFromForm(r)

	if _, err := h.posts.Update(r.Context(), middleware.GetIdentity(r), id, in); err != nil {
		if isNotFound(err) {
			flashError(w, r, h.renderer, redirectAdminBlog, "Artikel nicht gefunden.")
			return
		}
		h.formFailure(w, r, PostFormData{Action: action, Form: in}, err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminBlog, "Artikel gespeichert.")
}

// Delete handles POST /admin/blog/{id}/delete.
func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.posts.Delete(r.Context(), middleware.GetIdentity(r), id); err != nil {
		if isNotFound(err) {
			flashError(w, r, h.renderer, redirectAdminBlog, "Artikel nicht gefunden.")
			return
		}
		flashFailure(w, r, h.renderer, redirectAdminBlog, "failed to delete post", err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminBlog, "Artikel gelöscht.")
}

func (h *PostsHandler) load(w http.ResponseWriter, r *http.Request) (store.Post, bool) {
	id := chi.URLParam(r, "id")
	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			flashError(w, r, h.renderer, redirectAdminBlog, "Artikel nicht gefunden.")
		} else {
			logAndInternalError(w, "failed to load post", "post_id", id, "error", err)
		}
		return store.Post{}, false
	}
	return post, true
}

// formFailure re-renders the form with the error. Validation errors get 422;
// other errors already carry the raw cause and are logged.
func (h *PostsHandler) formFailure(w http.ResponseWriter, r *http.Request, data PostFormData, err error) {
	status := http.StatusUnprocessableEntity
	if !service.IsValidation(err) {
		status = http.StatusInternalServerError
		slog.Error("failed to save post", "error", err, "path", r.URL.Path)
	}
	data.Error = err.Error()
	h.renderForm(w, r, status, data)
}

func (h *PostsHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, data PostFormData) {
	data.Statuses = model.PostStatuses

	title := "Artikel bearbeiten"
	if data.IsNew {
		title = "Neuer Artikel"
	}
	renderPageStatus(w, r, h.renderer, status, tmplBlogForm, render.TemplateData{
		Title:       title,
		Breadcrumbs: uikit.Breadcrumbs("Admin", redirectAdmin, "Blog", redirectAdminBlog, title, ""),
		Data:        data,
	})
}

func postInputFromForm(r *http.Request) service.PostInput {
	return service.PostInput{
		Title:      r.FormValue("title"),
		Slug:       r.FormValue("slug"),
		Excerpt:    r.FormValue("excerpt"),
		Content:    r.FormValue("content"),
		CoverImage: r.FormValue("cover_image"),
		Status:     r.FormValue("status"),
	}
}
