// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const postColumns = `id, author_id, title, slug, excerpt, content, cover_image, status, published_at, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (Post, error) {
	var i Post
	err := row.Scan(
		&i.ID,
		&i.AuthorID,
		&i.Title,
		&i.Slug,
		&i.Excerpt,
		&i.Content,
		&i.CoverImage,
		&i.Status,
		&i.PublishedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func scanPosts(rows *sql.Rows) ([]Post, error) {
	defer func() { _ = rows.Close() }()
	var items []Post
	for rows.Next() {
		i, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createPost = `-- name: CreatePost :one
INSERT INTO posts (id, author_id, title, slug, excerpt, content, cover_image, status, published_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + postColumns

type CreatePostParams struct {
	ID          string
	AuthorID    string
	Title       string
	Slug        string
	Excerpt     string
	Content     string
	CoverImage  sql.NullString
	Status      string
	PublishedAt sql.NullTime
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (Post, error) {
	row := q.db.QueryRowContext(ctx, createPost,
		arg.ID,
		arg.AuthorID,
		arg.Title,
		arg.Slug,
		arg.Excerpt,
		arg.Content,
		arg.CoverImage,
		arg.Status,
		arg.PublishedAt,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanPost(row)
}

const updatePost = `-- name: UpdatePost :one
UPDATE posts SET
    title = ?,
    slug = ?,
    excerpt = ?,
    content = ?,
    cover_image = ?,
    status = ?,
    published_at = ?,
    updated_at = ?
WHERE id = ?
RETURNING ` + postColumns

type UpdatePostParams struct {
	Title       string
	Slug        string
	Excerpt     string
	Content     string
	CoverImage  sql.NullString
	Status      string
	PublishedAt sql.NullTime
	UpdatedAt   time.Time
	ID          string
}

func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) (Post, error) {
	row := q.db.QueryRowContext(ctx, updatePost,
		arg.Title,
		arg.Slug,
		arg.Excerpt,
		arg.Content,
		arg.CoverImage,
		arg.Status,
		arg.PublishedAt,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanPost(row)
}

const deletePost = `-- name: DeletePost :exec
DELETE FROM posts WHERE id = ?
`

func (q *Queries) DeletePost(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, deletePost, id)
	return err
}

const getPostByID = `-- name: GetPostByID :one
SELECT ` + postColumns + ` FROM posts WHERE id = ?`

func (q *Queries) GetPostByID(ctx context.Context, id string) (Post, error) {
	return scanPost(q.db.QueryRowContext(ctx, getPostByID, id))
}

const getPublishedPostBySlug = `-- name: GetPublishedPostBySlug :one
SELECT ` + postColumns + ` FROM posts WHERE slug = ? AND status = 'published'`

func (q *Queries) GetPublishedPostBySlug(ctx context.Context, slug string) (Post, error) {
	return scanPost(q.db.QueryRowContext(ctx, getPublishedPostBySlug, slug))
}

// NULL published_at sorts last; SQLite would otherwise put NULLs first in DESC order.
const listPublishedPosts = `-- name: ListPublishedPosts :many
SELECT ` + postColumns + ` FROM posts
WHERE status = 'published'
ORDER BY published_at IS NULL, published_at DESC, created_at DESC`

func (q *Queries) ListPublishedPosts(ctx context.Context) ([]Post, error) {
	rows, err := q.db.QueryContext(ctx, listPublishedPosts)
	if err != nil {
		return nil, err
	}
	return scanPosts(rows)
}

const listPosts = `-- name: ListPosts :many
SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC`

func (q *Queries) ListPosts(ctx context.Context) ([]Post, error) {
	rows, err := q.db.QueryContext(ctx, listPosts)
	if err != nil {
		return nil, err
	}
	return scanPosts(rows)
}

const postSlugExists = `-- name: PostSlugExists :one
SELECT EXISTS(SELECT 1 FROM posts WHERE slug = ? AND id != ?)`

type PostSlugExistsParams struct {
	Slug string
	ID   string
}

// PostSlugExists reports whether another post already uses slug.
func (q *Queries) PostSlugExists(ctx context.Context, arg PostSlugExistsParams) (bool, error) {
	var exists int64
	err := q.db.QueryRowContext(ctx, postSlugExists, arg.Slug, arg.ID).Scan(&exists)
	return exists != 0, err
}
