// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package uikit provides reusable template helpers and small view model
// types shared by the public site and the admin area.
package uikit

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"time"
	_ "time/tzdata" // Europe/Berlin on hosts without a zone database
	"unicode/utf8"
)

// MonthsDe contains the German month names.
var MonthsDe = []string{
	"Januar", "Februar", "März", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

// Berlin is the time zone dates are displayed in.
var Berlin = loadLocation("Europe/Berlin")

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// TemplateFuncs returns a template.FuncMap with pure helper functions.
//
// Callers can merge project-specific functions on top:
//
//	funcs := uikit.TemplateFuncs()
//	funcs["myFunc"] = myProjectFunc
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		// String functions
		"lower":     strings.ToLower,
		"upper":     strings.ToUpper,
		"hasPrefix": strings.HasPrefix,
		"truncate":  Truncate,
		"contains": func(collection, element any) bool {
			if slice, ok := collection.([]string); ok {
				if elem, ok := element.(string); ok {
					for _, s := range slice {
						if s == elem {
							return true
						}
					}
				}
				return false
			}
			if s, ok := collection.(string); ok {
				if substr, ok := element.(string); ok {
					return strings.Contains(s, substr)
				}
			}
			return false
		},
		"safeURL": func(s string) template.URL {
			return template.URL(s)
		},

		// Math
		"add": func(a, b int) int {
			return a + b
		},

		// Time
		"now": time.Now,
		"formatDate": func(t any) string {
			return ApplyTimeFormatter(t, FormatDate)
		},
		"formatDateTime": func(t any) string {
			return ApplyTimeFormatter(t, FormatDateTime)
		},
		"isoDate": func(t any) string {
			return ApplyTimeFormatter(t, func(t time.Time) string {
				return t.UTC().Format(time.RFC3339)
			})
		},

		// JSON
		"toJSON": func(v any) template.JS {
			b, err := json.Marshal(v)
			if err != nil {
				return "null"
			}
			return template.JS(b)
		},
		"prettyJSON": func(s string) string {
			var data any
			if err := json.Unmarshal([]byte(s), &data); err != nil {
				return s
			}
			pretty, err := json.MarshalIndent(data, "", "  ")
			if err != nil {
				return s
			}
			return string(pretty)
		},

		// Data structures
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			dict := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				dict[key] = values[i+1]
			}
			return dict
		},
	}
}

// Truncate shortens s to at most length runes, appending "…" when cut.
func Truncate(s string, length int) string {
	if utf8.RuneCountInString(s) <= length {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:length])) + "…"
}

// FormatDate formats t German style, e.g. "05. März 2025".
func FormatDate(t time.Time) string {
	t = t.In(Berlin)
	return fmt.Sprintf("%02d. %s %d", t.Day(), MonthsDe[t.Month()-1], t.Year())
}

// FormatDateTime formats t German style with the time, e.g. "05. März 2025, 14:30".
func FormatDateTime(t time.Time) string {
	t = t.In(Berlin)
	return fmt.Sprintf("%s, %02d:%02d", FormatDate(t), t.Hour(), t.Minute())
}

// ApplyTimeFormatter applies formatter to a time.Time, *time.Time or
// sql.NullTime. It returns an empty string for nil, invalid or unsupported
// values.
func ApplyTimeFormatter(t any, formatter func(time.Time) string) string {
	switch v := t.(type) {
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return formatter(v)
	case *time.Time:
		if v == nil || v.IsZero() {
			return ""
		}
		return formatter(*v)
	case sql.NullTime:
		if !v.Valid {
			return ""
		}
		return formatter(v.Time)
	default:
		return ""
	}
}
