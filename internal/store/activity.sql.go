// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const createActivityLog = `-- name: CreateActivityLog :one
INSERT INTO activity_logs (action, description, context, user_id, user_email, entity_type, entity_id, metadata, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, action, description, context, user_id, user_email, entity_type, entity_id, metadata, created_at
`

type CreateActivityLogParams struct {
	Action      string
	Description sql.NullString
	Context     string
	UserID      sql.NullString
	UserEmail   sql.NullString
	EntityType  sql.NullString
	EntityID    sql.NullString
	Metadata    sql.NullString
	CreatedAt   time.Time
}

func (q *Queries) CreateActivityLog(ctx context.Context, arg CreateActivityLogParams) (ActivityLog, error) {
	row := q.db.QueryRowContext(ctx, createActivityLog,
		arg.Action,
		arg.Description,
		arg.Context,
		arg.UserID,
		arg.UserEmail,
		arg.EntityType,
		arg.EntityID,
		arg.Metadata,
		arg.CreatedAt,
	)
	var i ActivityLog
	err := row.Scan(
		&i.ID,
		&i.Action,
		&i.Description,
		&i.Context,
		&i.UserID,
		&i.UserEmail,
		&i.EntityType,
		&i.EntityID,
		&i.Metadata,
		&i.CreatedAt,
	)
	return i, err
}

const listActivityLogs = `-- name: ListActivityLogs :many
SELECT id, action, description, context, user_id, user_email, entity_type, entity_id, metadata, created_at
FROM activity_logs
ORDER BY created_at DESC, id DESC
LIMIT ?
`

func (q *Queries) ListActivityLogs(ctx context.Context, limit int64) ([]ActivityLog, error) {
	rows, err := q.db.QueryContext(ctx, listActivityLogs, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []ActivityLog
	for rows.Next() {
		var i ActivityLog
		if err := rows.Scan(
			&i.ID,
			&i.Action,
			&i.Description,
			&i.Context,
			&i.UserID,
			&i.UserEmail,
			&i.EntityType,
			&i.EntityID,
			&i.Metadata,
			&i.CreatedAt,
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
