// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const upsertHomepageImage = `-- name: UpsertHomepageImage :one
INSERT INTO homepage_images (image_type, public_url, file_path, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(image_type) DO UPDATE SET
    public_url = excluded.public_url,
    file_path = excluded.file_path,
    updated_at = excluded.updated_at
RETURNING image_type, public_url, file_path, updated_at
`

type UpsertHomepageImageParams struct {
	ImageType string
	PublicUrl string
	FilePath  string
	UpdatedAt time.Time
}

func (q *Queries) UpsertHomepageImage(ctx context.Context, arg UpsertHomepageImageParams) (HomepageImage, error) {
	row := q.db.QueryRowContext(ctx, upsertHomepageImage,
		arg.ImageType,
		arg.PublicUrl,
		arg.FilePath,
		arg.UpdatedAt,
	)
	var i HomepageImage
	err := row.Scan(
		&i.ImageType,
		&i.PublicUrl,
		&i.FilePath,
		&i.UpdatedAt,
	)
	return i, err
}

const getHomepageImage = `-- name: GetHomepageImage :one
SELECT image_type, public_url, file_path, updated_at FROM homepage_images WHERE image_type = ?
`

func (q *Queries) GetHomepageImage(ctx context.Context, imageType string) (HomepageImage, error) {
	row := q.db.QueryRowContext(ctx, getHomepageImage, imageType)
	var i HomepageImage
	err := row.Scan(
		&i.ImageType,
		&i.PublicUrl,
		&i.FilePath,
		&i.UpdatedAt,
	)
	return i, err
}

const listHomepageImages = `-- name: ListHomepageImages :many
SELECT image_type, public_url, file_path, updated_at FROM homepage_images
`

func (q *Queries) ListHomepageImages(ctx context.Context) ([]HomepageImage, error) {
	rows, err := q.db.QueryContext(ctx, listHomepageImages)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []HomepageImage
	for rows.Next() {
		var i HomepageImage
		if err := rows.Scan(
			&i.ImageType,
			&i.PublicUrl,
			&i.FilePath,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countHomepageImages = `-- name: CountHomepageImagesByType :one
SELECT COUNT(*) FROM homepage_images WHERE image_type = ?
`

func (q *Queries) CountHomepageImagesByType(ctx context.Context, imageType string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countHomepageImages, imageType).Scan(&count)
	return count, err
}

const getHeroContent = `-- name: GetHeroContent :one
SELECT singleton_key, heading, subheading, cta_label, updated_at
FROM homepage_hero_content WHERE singleton_key = ?
`

func (q *Queries) GetHeroContent(ctx context.Context, singletonKey string) (HomepageHeroContent, error) {
	row := q.db.QueryRowContext(ctx, getHeroContent, singletonKey)
	var i HomepageHeroContent
	err := row.Scan(
		&i.SingletonKey,
		&i.Heading,
		&i.Subheading,
		&i.CtaLabel,
		&i.UpdatedAt,
	)
	return i, err
}

const upsertHeroContent = `-- name: UpsertHeroContent :one
INSERT INTO homepage_hero_content (singleton_key, heading, subheading, cta_label, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(singleton_key) DO UPDATE SET
    heading = excluded.heading,
    subheading = excluded.subheading,
    cta_label = excluded.cta_label,
    updated_at = excluded.updated_at
RETURNING singleton_key, heading, subheading, cta_label, updated_at
`

type UpsertHeroContentParams struct {
	SingletonKey string
	Heading      string
	Subheading   string
	CtaLabel     string
	UpdatedAt    time.Time
}

func (q *Queries) UpsertHeroContent(ctx context.Context, arg UpsertHeroContentParams) (HomepageHeroContent, error) {
	row := q.db.QueryRowContext(ctx, upsertHeroContent,
		arg.SingletonKey,
		arg.Heading,
		arg.Subheading,
		arg.CtaLabel,
		arg.UpdatedAt,
	)
	var i HomepageHeroContent
	err := row.Scan(
		&i.SingletonKey,
		&i.Heading,
		&i.Subheading,
		&i.CtaLabel,
		&i.UpdatedAt,
	)
	return i, err
}
