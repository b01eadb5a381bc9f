// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type AdminUser struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type Post struct {
	ID          string         `json:"id"`
	AuthorID    string         `json:"author_id"`
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	Excerpt     string         `json:"excerpt"`
	Content     string         `json:"content"`
	CoverImage  sql.NullString `json:"cover_image"`
	Status      string         `json:"status"`
	PublishedAt sql.NullTime   `json:"published_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type HomepageImage struct {
	ImageType string    `json:"image_type"`
	PublicUrl string    `json:"public_url"`
	FilePath  string    `json:"file_path"`
	UpdatedAt time.Time `json:"updated_at"`
}

type HomepageHeroContent struct {
	SingletonKey string    `json:"singleton_key"`
	Heading      string    `json:"heading"`
	Subheading   string    `json:"subheading"`
	CtaLabel     string    `json:"cta_label"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Service is a carousel entry. InfoParagraphs and InfoBulletPoints hold
// JSON-encoded string arrays.
type Service struct {
	ID               string         `json:"id"`
	Slug             string         `json:"slug"`
	Label            string         `json:"label"`
	Headline         string         `json:"headline"`
	Subline          string         `json:"subline"`
	InfoTitle        sql.NullString `json:"info_title"`
	InfoParagraphs   string         `json:"info_paragraphs"`
	InfoBulletPoints string         `json:"info_bullet_points"`
	GradientStart    sql.NullString `json:"gradient_start"`
	GradientEnd      sql.NullString `json:"gradient_end"`
	ImagePath        sql.NullString `json:"image_path"`
	CreatedAt        time.Time      `json:"created_at"`
}

type ActivityLog struct {
	ID          int64          `json:"id"`
	Action      string         `json:"action"`
	Description sql.NullString `json:"description"`
	Context     string         `json:"context"`
	UserID      sql.NullString `json:"user_id"`
	UserEmail   sql.NullString `json:"user_email"`
	EntityType  sql.NullString `json:"entity_type"`
	EntityID    sql.NullString `json:"entity_id"`
	Metadata    sql.NullString `json:"metadata"`
	CreatedAt   time.Time      `json:"created_at"`
}
