// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/dscapture/dscapture/internal/model"
	"github.com/dscapture/dscapture/internal/store"
)

// testDB creates a temporary test database with migrations applied.
func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp("", "dscapture-logging-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		_ = os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}

	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		_ = os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}

	cleanup := func() {
		_ = db.Close()
		_ = os.Remove(dbPath)
	}

	return db, cleanup
}

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func listLogs(t *testing.T, db *sql.DB) []store.ActivityLog {
	t.Helper()
	logs, err := store.New(db).ListActivityLogs(context.Background(), 50)
	if err != nil {
		t.Fatalf("ListActivityLogs: %v", err)
	}
	return logs
}

func TestActivityLogHandler_ErrorLevel(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	logger := slog.New(NewActivityLogHandler(discardHandler{}, db))
	logger.Error("upload failed", "bucket", "homepage-assets", "size", 2048, "error", errors.New("disk full"))

	logs := listLogs(t, db)
	if len(logs) != 1 {
		t.Fatalf("got %d log entries, want 1", len(logs))
	}

	entry := logs[0]
	if entry.Action != model.ActionSystemError {
		t.Errorf("Action = %q, want %q", entry.Action, model.ActionSystemError)
	}
	if entry.Context != model.ActivityContextSystem {
		t.Errorf("Context = %q, want %q", entry.Context, model.ActivityContextSystem)
	}
	if entry.Description.String != "upload failed" {
		t.Errorf("Description = %q, want %q", entry.Description.String, "upload failed")
	}

	var meta map[string]any
	if err := json.Unmarshal([]byte(entry.Metadata.String), &meta); err != nil {
		t.Fatalf("metadata is not JSON: %v (%q)", err, entry.Metadata.String)
	}
	if meta["bucket"] != "homepage-assets" {
		t.Errorf("metadata bucket = %v", meta["bucket"])
	}
	if meta["size"] != float64(2048) {
		t.Errorf("metadata size = %v, want 2048", meta["size"])
	}
	if meta["error"] != "disk full" {
		t.Errorf("metadata error = %v", meta["error"])
	}
}

func TestActivityLogHandler_WarnLevelAndUser(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	logger := slog.New(NewActivityLogHandler(discardHandler{}, db))
	logger.Warn("admin verification failed", "user_id", "u-42")

	logs := listLogs(t, db)
	if len(logs) != 1 {
		t.Fatalf("got %d log entries, want 1", len(logs))
	}
	if logs[0].Action != model.ActionSystemWarning {
		t.Errorf("Action = %q, want %q", logs[0].Action, model.ActionSystemWarning)
	}
	if logs[0].UserID.String != "u-42" {
		t.Errorf("UserID = %q, want %q", logs[0].UserID.String, "u-42")
	}
}

func TestActivityLogHandler_BelowLevelNotPersisted(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	logger := slog.New(NewActivityLogHandler(discardHandler{}, db))
	logger.Info("server started")
	logger.Debug("details")

	if logs := listLogs(t, db); len(logs) != 0 {
		t.Errorf("got %d log entries, want 0", len(logs))
	}
}

func TestActivityLogHandler_CustomLevel(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	logger := slog.New(NewActivityLogHandlerWithLevel(discardHandler{}, db, slog.LevelError))
	logger.Warn("ignored")
	logger.Error("kept")

	logs := listLogs(t, db)
	if len(logs) != 1 || logs[0].Description.String != "kept" {
		t.Errorf("unexpected entries: %+v", logs)
	}
}

func TestActivityLogHandler_WithAttrsAndGroup(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	logger := slog.New(NewActivityLogHandler(discardHandler{}, db)).
		With("component", "storage").
		WithGroup("s3").
		With("bucket", "service-carousel")
	logger.Warn("slow upload", "ms", 1500)

	logs := listLogs(t, db)
	if len(logs) != 1 {
		t.Fatalf("got %d log entries, want 1", len(logs))
	}

	var meta map[string]any
	if err := json.Unmarshal([]byte(logs[0].Metadata.String), &meta); err != nil {
		t.Fatalf("metadata is not JSON: %v", err)
	}
	want := map[string]any{"component": "storage", "s3.bucket": "service-carousel", "s3.ms": float64(1500)}
	for k, v := range want {
		if meta[k] != v {
			t.Errorf("metadata[%q] = %v, want %v", k, meta[k], v)
		}
	}
}

func TestActivityLogHandler_NoAttrsStoresNullMetadata(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	slog.New(NewActivityLogHandler(discardHandler{}, db)).Warn("plain")

	logs := listLogs(t, db)
	if len(logs) != 1 {
		t.Fatalf("got %d log entries, want 1", len(logs))
	}
	if logs[0].Metadata.Valid {
		t.Errorf("Metadata = %q, want NULL", logs[0].Metadata.String)
	}
}
