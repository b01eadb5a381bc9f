// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SafeJoinPath joins an object key onto a base directory and rejects any
// result that would escape the base.
func SafeJoinPath(basePath string, components ...string) (string, error) {
	absBase, err := filepath.Abs(filepath.Clean(basePath))
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}

	full := filepath.Join(append([]string{absBase}, components...)...)

	// Trailing separator prevents /uploads-evil matching /uploads.
	if full != absBase && !strings.HasPrefix(full, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal detected: %q escapes base directory", filepath.Join(components...))
	}

	return full, nil
}

// TrimLeadingSlashes strips every leading "/" from p.
func TrimLeadingSlashes(p string) string {
	return strings.TrimLeft(p, "/")
}
