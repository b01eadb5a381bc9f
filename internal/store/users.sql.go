// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const createUser = `-- name: CreateUser :one
INSERT INTO users (id, email, password_hash, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
RETURNING id, email, password_hash, created_at, updated_at
`

type CreateUserParams struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx, createUser,
		arg.ID,
		arg.Email,
		arg.PasswordHash,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.PasswordHash,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getUserByEmail = `-- name: GetUserByEmail :one
SELECT id, email, password_hash, created_at, updated_at FROM users WHERE email = ?
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRowContext(ctx, getUserByEmail, email)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.PasswordHash,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getUserByID = `-- name: GetUserByID :one
SELECT id, email, password_hash, created_at, updated_at FROM users WHERE id = ?
`

func (q *Queries) GetUserByID(ctx context.Context, id string) (User, error) {
	row := q.db.QueryRowContext(ctx, getUserByID, id)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.PasswordHash,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateUserPassword = `-- name: UpdateUserPassword :exec
UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?
`

type UpdateUserPasswordParams struct {
	PasswordHash string
	UpdatedAt    time.Time
	ID           string
}

func (q *Queries) UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) error {
	_, err := q.db.ExecContext(ctx, updateUserPassword, arg.PasswordHash, arg.UpdatedAt, arg.ID)
	return err
}

const upsertAdminUser = `-- name: UpsertAdminUser :one
INSERT INTO admin_users (user_id, email, role, created_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
    email = excluded.email,
    role = excluded.role
RETURNING user_id, email, role, created_at
`

type UpsertAdminUserParams struct {
	UserID    string
	Email     string
	Role      string
	CreatedAt time.Time
}

func (q *Queries) UpsertAdminUser(ctx context.Context, arg UpsertAdminUserParams) (AdminUser, error) {
	row := q.db.QueryRowContext(ctx, upsertAdminUser,
		arg.UserID,
		arg.Email,
		arg.Role,
		arg.CreatedAt,
	)
	var i AdminUser
	err := row.Scan(
		&i.UserID,
		&i.Email,
		&i.Role,
		&i.CreatedAt,
	)
	return i, err
}

const getAdminUserByUserID = `-- name: GetAdminUserByUserID :one
SELECT user_id, email, role, created_at FROM admin_users WHERE user_id = ?
`

func (q *Queries) GetAdminUserByUserID(ctx context.Context, userID string) (AdminUser, error) {
	row := q.db.QueryRowContext(ctx, getAdminUserByUserID, userID)
	var i AdminUser
	err := row.Scan(
		&i.UserID,
		&i.Email,
		&i.Role,
		&i.CreatedAt,
	)
	return i, err
}
