// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const serviceColumns = `id, slug, label, headline, subline, info_title, info_paragraphs, info_bullet_points, gradient_start, gradient_end, image_path, created_at`

func scanService(row interface{ Scan(...any) error }) (Service, error) {
	var i Service
	err := row.Scan(
		&i.ID,
		&i.Slug,
		&i.Label,
		&i.Headline,
		&i.Subline,
		&i.InfoTitle,
		&i.InfoParagraphs,
		&i.InfoBulletPoints,
		&i.GradientStart,
		&i.GradientEnd,
		&i.ImagePath,
		&i.CreatedAt,
	)
	return i, err
}

const listServices = `-- name: ListServices :many
SELECT ` + serviceColumns + ` FROM services ORDER BY created_at ASC`

func (q *Queries) ListServices(ctx context.Context) ([]Service, error) {
	rows, err := q.db.QueryContext(ctx, listServices)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []Service
	for rows.Next() {
		i, err := scanService(rows)
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

const getServiceByID = `-- name: GetServiceByID :one
SELECT ` + serviceColumns + ` FROM services WHERE id = ?`

func (q *Queries) GetServiceByID(ctx context.Context, id string) (Service, error) {
	return scanService(q.db.QueryRowContext(ctx, getServiceByID, id))
}

const createService = `-- name: CreateService :one
INSERT INTO services (id, slug, label, headline, subline, info_title, info_paragraphs, info_bullet_points, gradient_start, gradient_end, image_path, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + serviceColumns

type CreateServiceParams struct {
	ID               string
	Slug             string
	Label            string
	Headline         string
	Subline          string
	InfoTitle        sql.NullString
	InfoParagraphs   string
	InfoBulletPoints string
	GradientStart    sql.NullString
	GradientEnd      sql.NullString
	ImagePath        sql.NullString
	CreatedAt        time.Time
}

func (q *Queries) CreateService(ctx context.Context, arg CreateServiceParams) (Service, error) {
	row := q.db.QueryRowContext(ctx, createService,
		arg.ID,
		arg.Slug,
		arg.Label,
		arg.Headline,
		arg.Subline,
		arg.InfoTitle,
		arg.InfoParagraphs,
		arg.InfoBulletPoints,
		arg.GradientStart,
		arg.GradientEnd,
		arg.ImagePath,
		arg.CreatedAt,
	)
	return scanService(row)
}

const updateService = `-- name: UpdateService :one
UPDATE services SET
    slug = ?,
    label = ?,
    headline = ?,
    subline = ?,
    info_title = ?,
    info_paragraphs = ?,
    info_bullet_points = ?,
    gradient_start = ?,
    gradient_end = ?,
    image_path = ?
WHERE id = ?
RETURNING ` + serviceColumns

type UpdateServiceParams struct {
	Slug             string
	Label            string
	Headline         string
	Subline          string
	InfoTitle        sql.NullString
	InfoParagraphs   string
	InfoBulletPoints string
	GradientStart    sql.NullString
	GradientEnd      sql.NullString
	ImagePath        sql.NullString
	ID               string
}

func (q *Queries) UpdateService(ctx context.Context, arg UpdateServiceParams) (Service, error) {
	row := q.db.QueryRowContext(ctx, updateService,
		arg.Slug,
		arg.Label,
		arg.Headline,
		arg.Subline,
		arg.InfoTitle,
		arg.InfoParagraphs,
		arg.InfoBulletPoints,
		arg.GradientStart,
		arg.GradientEnd,
		arg.ImagePath,
		arg.ID,
	)
	return scanService(row)
}

const deleteService = `-- name: DeleteService :exec
DELETE FROM services WHERE id = ?
`

func (q *Queries) DeleteService(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, deleteService, id)
	return err
}
