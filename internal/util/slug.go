// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose helpers: slug derivation, safe path
// joining, null-type conversion and client IP extraction.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/unicode/norm"
)

var (
	// asciiSlugRegex matches everything outside the ASCII slug alphabet.
	asciiSlugRegex = regexp.MustCompile(`[^a-z0-9-]+`)
	// multipleHyphens matches runs of hyphens.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Slugify derives a URL slug from a post title.
//
// The title is NFC-normalized and lowercased. Letters a-z, digits and the
// lowercase Latin letters with diacritics (ä, ö, ü, ß, é, č, ...) are kept,
// whitespace and hyphen runs become a single hyphen, and everything else is
// dropped. The result never starts or ends with a hyphen.
//
//	Slugify("Café Démo!! Test") == "café-démo-test"
func Slugify(title string) string {
	s := strings.ToLower(norm.NFC.String(title))

	var sb strings.Builder
	sb.Grow(len(s))
	pendingHyphen := false

	for _, r := range s {
		switch {
		case unicode.IsSpace(r) || r == '-' || r == '_':
			pendingHyphen = sb.Len() > 0
		case IsSlugRune(r):
			if pendingHyphen {
				sb.WriteByte('-')
				pendingHyphen = false
			}
			sb.WriteRune(r)
		}
	}

	return sb.String()
}

// IsSlugRune reports whether r may appear in a slug segment.
func IsSlugRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r == 'ß':
		return true
	case r >= 0xE0 && r <= 0xFF && r != 0xF7: // Latin-1 lowercase, minus ÷
		return true
	case r >= 0x100 && r <= 0x17F: // Latin Extended-A
		return unicode.IsLower(r)
	}
	return false
}

// SlugifyASCII derives an ASCII-only slug, transliterating non-Latin and
// accented characters first. Used for anchors such as service IDs.
func SlugifyASCII(s string) string {
	result := strings.ToLower(unidecode.Unidecode(s))
	result = strings.ReplaceAll(result, " ", "-")
	result = asciiSlugRegex.ReplaceAllString(result, "")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// IsValidSlug checks that s is non-empty, contains only slug runes and
// single hyphens, and does not start or end with a hyphen.
func IsValidSlug(s string) bool {
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") || strings.Contains(s, "--") {
		return false
	}
	for _, r := range s {
		if r != '-' && !IsSlugRune(r) {
			return false
		}
	}
	return true
}
