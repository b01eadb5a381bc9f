// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain constants shared by the store, service
// and handler layers: roles, post statuses, homepage image types and
// activity log vocabulary.
package model

// RoleAdmin is the only role that passes the admin gate.
const RoleAdmin = "admin"

// Post statuses.
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
)

// PostStatuses lists the valid post statuses in form display order.
var PostStatuses = []string{PostStatusDraft, PostStatusPublished, PostStatusArchived}

// IsValidPostStatus reports whether s is a known post status.
func IsValidPostStatus(s string) bool {
	for _, status := range PostStatuses {
		if s == status {
			return true
		}
	}
	return false
}
