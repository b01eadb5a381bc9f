// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dscapture/dscapture/internal/util"
)

// LocalBucket stores objects under <root>/<bucket>/<key>.
type LocalBucket struct {
	root    string
	name    string
	baseURL string
}

// NewLocalBucket creates the bucket directory if needed.
func NewLocalBucket(root, name, baseURL string) (*LocalBucket, error) {
	dir, err := util.SafeJoinPath(root, name)
	if err != nil {
		return nil, fmt.Errorf("bucket path: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating bucket directory: %w", err)
	}
	return &LocalBucket{root: dir, name: name, baseURL: baseURL}, nil
}

// Name returns the bucket name.
func (b *LocalBucket) Name() string { return b.name }

// Dir returns the directory holding the bucket's objects.
func (b *LocalBucket) Dir() string { return b.root }

// Put writes the object. The file is created exclusively, so an existing key
// yields ErrObjectExists.
func (b *LocalBucket) Put(_ context.Context, key string, r io.Reader, _ int64, _ PutOptions) error {
	path, err := util.SafeJoinPath(b.root, key)
	if err != nil {
		return fmt.Errorf("object path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating object directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return ErrObjectExists
		}
		return fmt.Errorf("creating object: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("writing object: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing object: %w", err)
	}
	return nil
}

// PublicURL returns the URL the object is served from.
func (b *LocalBucket) PublicURL(key string) (string, error) {
	return publicURL(b.baseURL, b.name, key)
}

// Delete removes the object. Missing objects are not an error.
func (b *LocalBucket) Delete(_ context.Context, key string) error {
	path, err := util.SafeJoinPath(b.root, key)
	if err != nil {
		return fmt.Errorf("object path: %w", err)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting object: %w", err)
	}
	return nil
}
