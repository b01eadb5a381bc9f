// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"database/sql"
	"strings"
	"time"
)

// NullStringFromValue creates a sql.NullString that is valid only for a
// non-empty string.
func NullStringFromValue(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// NullStringTrimmed trims s and returns a NullString that is invalid when
// nothing remains.
func NullStringTrimmed(s string) sql.NullString {
	return NullStringFromValue(strings.TrimSpace(s))
}

// NullTimeFromValue creates a valid sql.NullTime.
func NullTimeFromValue(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: true}
}

// StringOrEmpty returns the string value of ns, or "" when it is NULL.
func StringOrEmpty(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}
