// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that also records warnings and
// errors in the activity log.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/dscapture/dscapture/internal/model"
	"github.com/dscapture/dscapture/internal/store"
	"github.com/dscapture/dscapture/internal/util"
)

// ActivityLogHandler is a slog.Handler that wraps another handler and also
// writes records at or above its level to activity_logs.
type ActivityLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level
	attrs   []slog.Attr
	group   string
}

// NewActivityLogHandler wraps inner and persists WARN and ERROR records.
func NewActivityLogHandler(inner slog.Handler, db *sql.DB) *ActivityLogHandler {
	return NewActivityLogHandlerWithLevel(inner, db, slog.LevelWarn)
}

// NewActivityLogHandlerWithLevel wraps inner and persists records at or above level.
func NewActivityLogHandlerWithLevel(inner slog.Handler, db *sql.DB, level slog.Level) *ActivityLogHandler {
	return &ActivityLogHandler{
		inner:   inner,
		queries: store.New(db),
		level:   level,
	}
}

// Enabled implements slog.Handler.
func (h *ActivityLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *ActivityLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level {
		h.persist(ctx, r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *ActivityLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithAttrs(attrs)
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), h.qualify(attrs)...)
	return &clone
}

// WithGroup implements slog.Handler.
func (h *ActivityLogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.inner = h.inner.WithGroup(name)
	if h.group != "" {
		clone.group = h.group + "." + name
	} else {
		clone.group = name
	}
	return &clone
}

func (h *ActivityLogHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if h.group == "" {
		return attrs
	}
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: h.group + "." + a.Key, Value: a.Value}
	}
	return out
}

// persist writes r to the activity log. Failures are dropped so that logging
// can never recurse into itself.
func (h *ActivityLogHandler) persist(ctx context.Context, r slog.Record) {
	action := model.ActionSystemWarning
	if r.Level >= slog.LevelError {
		action = model.ActionSystemError
	}

	attrs := append([]slog.Attr{}, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, h.qualify([]slog.Attr{a})...)
		return true
	})

	var userID string
	metadata := make(map[string]any, len(attrs))
	for _, a := range attrs {
		if a.Key == "user_id" {
			userID = a.Value.String()
		}
		metadata[a.Key] = attrValue(a.Value)
	}
	if path := RequestPath(ctx); path != "" {
		if _, ok := metadata["path"]; !ok {
			metadata["path"] = path
		}
	}

	var meta sql.NullString
	if len(metadata) > 0 {
		if data, err := json.Marshal(metadata); err == nil {
			meta = sql.NullString{String: string(data), Valid: true}
		}
	}

	created := r.Time
	if created.IsZero() {
		created = time.Now()
	}

	// Background context: the entry must be written even if the request ended.
	_, _ = h.queries.CreateActivityLog(context.Background(), store.CreateActivityLogParams{
		Action:      action,
		Description: util.NullStringFromValue(r.Message),
		Context:     model.ActivityContextSystem,
		UserID:      util.NullStringFromValue(userID),
		Metadata:    meta,
		CreatedAt:   created.UTC(),
	})
}

// attrValue converts a slog value into something encoding/json can marshal.
func attrValue(v slog.Value) any {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindFloat64:
		return v.Float64()
	case slog.KindBool:
		return v.Bool()
	case slog.KindGroup:
		group := make(map[string]any)
		for _, a := range v.Group() {
			group[a.Key] = attrValue(a.Value)
		}
		return group
	default:
		// Durations, times, errors and other values use their string form.
		return v.String()
	}
}

type requestPathKey struct{}

// WithRequestPath returns a context carrying the request path. Persisted
// records logged with that context include it as "path".
func WithRequestPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, requestPathKey{}, path)
}

// RequestPath returns the request path stored by WithRequestPath.
func RequestPath(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	path, _ := ctx.Value(requestPathKey{}).(string)
	return path
}
