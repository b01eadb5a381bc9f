// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dscapture/dscapture/internal/auth"
	"github.com/dscapture/dscapture/internal/model"
	"github.com/dscapture/dscapture/internal/store"
	"github.com/dscapture/dscapture/internal/util"
)

// PostInput is the submitted post form.
type PostInput struct {
	Title      string
	Slug       string
	Excerpt    string
	Content    string
	CoverImage string
	Status     string
}

// PostService manages blog posts.
type PostService struct {
	queries  *store.Queries
	activity *ActivityService
	now      func() time.Time
}

// NewPostService creates a new PostService.
func NewPostService(db *sql.DB, activity *ActivityService) *PostService {
	return &PostService{
		queries:  store.New(db),
		activity: activity,
		now:      utcNow,
	}
}

// normalize trims the input, derives a missing slug from the title and checks
// the required fields.
func (in PostInput) normalize() (PostInput, error) {
	out := PostInput{
		Title:      strings.TrimSpace(in.Title),
		Slug:       strings.TrimSpace(in.Slug),
		Excerpt:    strings.TrimSpace(in.Excerpt),
		Content:    strings.TrimSpace(in.Content),
		CoverImage: strings.TrimSpace(in.CoverImage),
		Status:     strings.TrimSpace(in.Status),
	}

	if out.Status == "" {
		out.Status = model.PostStatusDraft
	}
	if out.Slug == "" {
		out.Slug = util.Slugify(out.Title)
	}

	switch {
	case out.Title == "":
		return out, invalid("Bitte gib einen Titel an.")
	case out.Slug == "":
		return out, invalid("Bitte gib einen Slug an.")
	case !util.IsValidSlug(out.Slug):
		return out, invalid("Der Slug darf nur Kleinbuchstaben, Ziffern und einzelne Bindestriche enthalten.")
	case out.Content == "":
		return out, invalid("Bitte gib einen Inhalt an.")
	case !model.IsValidPostStatus(out.Status):
		return out, invalid("Ungültiger Status.")
	}
	return out, nil
}

func (s *PostService) checkSlug(ctx context.Context, slug, id string) error {
	exists, err := s.queries.PostSlugExists(ctx, store.PostSlugExistsParams{Slug: slug, ID: id})
	if err != nil {
		return fmt.Errorf("Fehler beim Prüfen des Slugs: %w", err)
	}
	if exists {
		return invalid("Dieser Slug wird bereits verwendet.")
	}
	return nil
}

// Create stores a new post authored by id. published_at is set only when the
// post is created as published.
func (s *PostService) Create(ctx context.Context, id auth.Identity, in PostInput) (store.Post, error) {
	in, err := in.normalize()
	if err != nil {
		return store.Post{}, err
	}
	if id.UserID == "" {
		return store.Post{}, ErrNoIdentity
	}
	if err := s.checkSlug(ctx, in.Slug, ""); err != nil {
		return store.Post{}, err
	}

	now := s.now()
	var publishedAt sql.NullTime
	if in.Status == model.PostStatusPublished {
		publishedAt = util.NullTimeFromValue(now)
	}

	post, err := s.queries.CreatePost(ctx, store.CreatePostParams{
		ID:          uuid.NewString(),
		AuthorID:    id.UserID,
		Title:       in.Title,
		Slug:        in.Slug,
		Excerpt:     in.Excerpt,
		Content:     in.Content,
		CoverImage:  util.NullStringFromValue(in.CoverImage),
		Status:      in.Status,
		PublishedAt: publishedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return store.Post{}, fmt.Errorf("Fehler beim Speichern des Artikels: %w", err)
	}

	s.activity.LogUserAction(ctx, ActionParams{
		Action:      model.ActionPostCreated,
		Description: fmt.Sprintf("Artikel %q erstellt", post.Title),
		UserID:      id.UserID,
		UserEmail:   id.Email,
		EntityType:  model.EntityPost,
		EntityID:    post.ID,
		Metadata:    map[string]any{"slug": post.Slug, "status": post.Status},
	})
	return post, nil
}

// Update replaces the post's fields. published_at is set on the transition
// into published and otherwise kept as is.
func (s *PostService) Update(ctx context.Context, id auth.Identity, postID string, in PostInput) (store.Post, error) {
	in, err := in.normalize()
	if err != nil {
		return store.Post{}, err
	}

	existing, err := s.queries.GetPostByID(ctx, postID)
	if err != nil {
		return store.Post{}, notFound(err)
	}
	if err := s.checkSlug(ctx, in.Slug, postID); err != nil {
		return store.Post{}, err
	}

	now := s.now()
	publishedAt := existing.PublishedAt
	if in.Status == model.PostStatusPublished && existing.Status != model.PostStatusPublished {
		publishedAt = util.NullTimeFromValue(now)
	}

	post, err := s.queries.UpdatePost(ctx, store.UpdatePostParams{
		Title:       in.Title,
		Slug:        in.Slug,
		Excerpt:     in.Excerpt,
		Content:     in.Content,
		CoverImage:  util.NullStringFromValue(in.CoverImage),
		Status:      in.Status,
		PublishedAt: publishedAt,
		UpdatedAt:   now,
		ID:          postID,
	})
	if err != nil {
		return store.Post{}, fmt.Errorf("Fehler beim Speichern des Artikels: %w", err)
	}

	s.activity.LogUserAction(ctx, ActionParams{
		Action:      model.ActionPostUpdated,
		Description: fmt.Sprintf("Artikel %q aktualisiert", post.Title),
		UserID:      id.UserID,
		UserEmail:   id.Email,
		EntityType:  model.EntityPost,
		EntityID:    post.ID,
		Metadata:    map[string]any{"slug": post.Slug, "status": post.Status},
	})
	return post, nil
}

// Delete removes a post.
func (s *PostService) Delete(ctx context.Context, id auth.Identity, postID string) error {
	post, err := s.queries.GetPostByID(ctx, postID)
	if err != nil {
		return notFound(err)
	}
	if err := s.queries.DeletePost(ctx, postID); err != nil {
		return fmt.Errorf("Fehler beim Löschen des Artikels: %w", err)
	}

	s.activity.LogUserAction(ctx, ActionParams{
		Action:      model.ActionPostDeleted,
		Description: fmt.Sprintf("Artikel %q gelöscht", post.Title),
		UserID:      id.UserID,
		UserEmail:   id.Email,
		EntityType:  model.EntityPost,
		EntityID:    post.ID,
	})
	return nil
}

// Get returns a post by ID regardless of status.
func (s *PostService) Get(ctx context.Context, postID string) (store.Post, error) {
	post, err := s.queries.GetPostByID(ctx, postID)
	if err != nil {
		return store.Post{}, notFound(err)
	}
	return post, nil
}

// ListAll returns every post, newest first.
func (s *PostService) ListAll(ctx context.Context) ([]store.Post, error) {
	posts, err := s.queries.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

// ListPublished returns the published posts, most recently published first.
func (s *PostService) ListPublished(ctx context.Context) ([]store.Post, error) {
	posts, err := s.queries.ListPublishedPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing published posts: %w", err)
	}
	return posts, nil
}

// GetPublished returns the published post with slug.
func (s *PostService) GetPublished(ctx context.Context, slug string) (store.Post, error) {
	post, err := s.queries.GetPublishedPostBySlug(ctx, slug)
	if err != nil {
		return store.Post{}, notFound(err)
	}
	return post, nil
}
