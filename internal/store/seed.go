// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// SeedAdmin describes the initial administrator account. PasswordHash must
// already be hashed by the caller.
type SeedAdmin struct {
	Email        string
	PasswordHash string
}

// Seed creates the initial admin identity and its admin_users row if no user
// with that email exists yet.
func Seed(ctx context.Context, db *sql.DB, admin SeedAdmin) error {
	queries := New(db)

	_, err := queries.GetUserByEmail(ctx, admin.Email)
	if err == nil {
		slog.Info("admin user already exists, skipping seed", "email", admin.Email)
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := queries.WithTx(tx)
	now := time.Now().UTC()

	user, err := qtx.CreateUser(ctx, CreateUserParams{
		ID:           uuid.NewString(),
		Email:        admin.Email,
		PasswordHash: admin.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	if _, err := qtx.UpsertAdminUser(ctx, UpsertAdminUserParams{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      "admin",
		CreatedAt: now,
	}); err != nil {
		return fmt.Errorf("granting admin role: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed: %w", err)
	}

	slog.Info("created initial admin user", "id", user.ID, "email", user.Email)
	return nil
}
