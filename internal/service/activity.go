// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dscapture/dscapture/internal/model"
	"github.com/dscapture/dscapture/internal/store"
	"github.com/dscapture/dscapture/internal/util"
)

// ActivityLimit is the number of entries shown in the admin activity view.
const ActivityLimit = 100

// ActionParams describes one activity log entry.
type ActionParams struct {
	Action      string
	Description string
	Context     string // public, admin or system; defaults to admin
	UserID      string
	UserEmail   string
	EntityType  string
	EntityID    any // stringified
	Metadata    map[string]any
}

// ActivityService records user actions.
type ActivityService struct {
	queries *store.Queries
	logger  *slog.Logger
	now     func() time.Time
}

// NewActivityService creates a new ActivityService.
func NewActivityService(db *sql.DB, logger *slog.Logger) *ActivityService {
	return &ActivityService{
		queries: store.New(db),
		logger:  logger,
		now:     utcNow,
	}
}

// LogUserAction writes an entry and reports whether it was stored. Failures
// are logged and never returned, so callers continue their own flow.
func (s *ActivityService) LogUserAction(ctx context.Context, p ActionParams) bool {
	if s == nil {
		return false
	}

	logCtx := p.Context
	if logCtx == "" {
		logCtx = model.ActivityContextAdmin
	}

	var meta sql.NullString
	if p.Metadata != nil {
		data, err := json.Marshal(p.Metadata)
		if err != nil {
			s.logger.Error("encoding activity metadata", "action", p.Action, "error", err)
		} else {
			meta = sql.NullString{String: string(data), Valid: true}
		}
	}

	var entityID string
	if p.EntityID != nil {
		entityID = fmt.Sprint(p.EntityID)
	}

	_, err := s.queries.CreateActivityLog(ctx, store.CreateActivityLogParams{
		Action:      p.Action,
		Description: util.NullStringFromValue(p.Description),
		Context:     logCtx,
		UserID:      util.NullStringFromValue(p.UserID),
		UserEmail:   util.NullStringFromValue(p.UserEmail),
		EntityType:  util.NullStringFromValue(p.EntityType),
		EntityID:    util.NullStringFromValue(entityID),
		Metadata:    meta,
		CreatedAt:   s.now(),
	})
	if err != nil {
		s.logger.Error("failed to write activity log", "action", p.Action, "error", err)
		return false
	}
	return true
}

// Recent returns the newest entries, at most limit.
func (s *ActivityService) Recent(ctx context.Context, limit int) ([]store.ActivityLog, error) {
	if limit <= 0 {
		limit = ActivityLimit
	}
	logs, err := s.queries.ListActivityLogs(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("listing activity logs: %w", err)
	}
	return logs, nil
}
