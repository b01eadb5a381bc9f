// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the site's business operations: the homepage
// upload flow, hero copy, blog posts, the services catalog and the activity
// log.
package service

import (
	"database/sql"
	"errors"
	"time"
)

// ValidationError is a user-facing input error. Operations that return it
// have not touched the store or any bucket.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func utcNow() time.Time {
	return time.Now().UTC()
}
