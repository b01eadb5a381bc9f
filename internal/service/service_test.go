// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dscapture/dscapture/internal/auth"
	"github.com/dscapture/dscapture/internal/store"
	"github.com/dscapture/dscapture/internal/testutil"
)

const testAdminEmail = "admin@dscapture.de"

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	return db
}

func testAdmin(t *testing.T, db *sql.DB) auth.Identity {
	t.Helper()
	userID := testutil.CreateAdmin(t, db, testAdminEmail, "not-a-real-hash")
	return auth.Identity{UserID: userID, Email: testAdminEmail, Role: "admin"}
}

// steppingClock returns a clock advancing one second per call.
func steppingClock() func() time.Time {
	current := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func activityLogs(t *testing.T, db *sql.DB) []store.ActivityLog {
	t.Helper()
	logs, err := store.New(db).ListActivityLogs(context.Background(), 100)
	require.NoError(t, err)
	return logs
}

func findActivity(logs []store.ActivityLog, action string) *store.ActivityLog {
	for i := range logs {
		if logs[i].Action == action {
			return &logs[i]
		}
	}
	return nil
}

func metadataOf(t *testing.T, entry *store.ActivityLog) map[string]any {
	t.Helper()
	require.NotNil(t, entry)
	require.True(t, entry.Metadata.Valid, "metadata should be set")
	var meta map[string]any
	require.NoError(t, json.Unmarshal([]byte(entry.Metadata.String), &meta))
	return meta
}

// adminIdentity is an identity for services that do not check the users table.
func adminIdentity() auth.Identity {
	return auth.Identity{UserID: "admin-1", Email: testAdminEmail, Role: "admin"}
}
