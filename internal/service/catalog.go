// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dscapture/dscapture/internal/auth"
	"github.com/dscapture/dscapture/internal/cache"
	"github.com/dscapture/dscapture/internal/model"
	"github.com/dscapture/dscapture/internal/storage"
	"github.com/dscapture/dscapture/internal/store"
	"github.com/dscapture/dscapture/internal/util"
)

// servicesCacheKey holds the resolved carousel entries.
const servicesCacheKey = "services:list"

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ServiceEntry is a carousel entry ready for rendering.
type ServiceEntry struct {
	ID               string   `json:"id"`
	Slug             string   `json:"slug"`
	Label            string   `json:"label"`
	Headline         string   `json:"headline"`
	Subline          string   `json:"subline"`
	InfoTitle        string   `json:"infoTitle,omitempty"`
	InfoParagraphs   []string `json:"infoParagraphs"`
	InfoBulletPoints []string `json:"infoBulletPoints"`
	GradientStart    string   `json:"gradientStart,omitempty"`
	GradientEnd      string   `json:"gradientEnd,omitempty"`
	ImagePath        string   `json:"imagePath,omitempty"`
	ImageURL         string   `json:"imageUrl,omitempty"`
}

// ServiceInput is the submitted service form. Paragraphs and bullet points
// are entered one per line.
type ServiceInput struct {
	Slug          string
	Label         string
	Headline      string
	Subline       string
	InfoTitle     string
	Paragraphs    string
	BulletPoints  string
	GradientStart string
	GradientEnd   string
	RemoveImage   bool
}

// ServiceCatalog manages the services carousel.
type ServiceCatalog struct {
	queries  *store.Queries
	bucket   storage.Bucket
	cache    *cache.TypedCache[[]ServiceEntry]
	activity *ActivityService
	logger   *slog.Logger
	now      func() time.Time
}

// NewServiceCatalog creates a catalog whose images live in bucket and whose
// public list is cached for ttl.
func NewServiceCatalog(db *sql.DB, bucket storage.Bucket, c cache.Cache, ttl time.Duration, activity *ActivityService, logger *slog.Logger) *ServiceCatalog {
	return &ServiceCatalog{
		queries:  store.New(db),
		bucket:   bucket,
		cache:    cache.NewTypedCache[[]ServiceEntry](c, ttl),
		activity: activity,
		logger:   logger,
		now:      utcNow,
	}
}

// List returns the carousel entries in creation order. Store errors yield an
// empty list and are logged.
func (s *ServiceCatalog) List(ctx context.Context) []ServiceEntry {
	entries, err := s.cache.GetOrSet(ctx, servicesCacheKey, s.load)
	if err != nil {
		s.logger.Error("loading services failed", "error", err)
		return []ServiceEntry{}
	}
	return entries
}

// ListFresh bypasses the cache. Used by the admin views.
func (s *ServiceCatalog) ListFresh(ctx context.Context) ([]ServiceEntry, error) {
	return s.load(ctx)
}

func (s *ServiceCatalog) load(ctx context.Context) ([]ServiceEntry, error) {
	rows, err := s.queries.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing services: %w", err)
	}
	entries := make([]ServiceEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, s.toEntry(row))
	}
	return entries, nil
}

// Get returns one entry by ID.
func (s *ServiceCatalog) Get(ctx context.Context, id string) (ServiceEntry, error) {
	row, err := s.queries.GetServiceByID(ctx, id)
	if err != nil {
		return ServiceEntry{}, notFound(err)
	}
	return s.toEntry(row), nil
}

func (s *ServiceCatalog) toEntry(row store.Service) ServiceEntry {
	path := util.StringOrEmpty(row.ImagePath)
	return ServiceEntry{
		ID:               row.ID,
		Slug:             row.Slug,
		Label:            row.Label,
		Headline:         row.Headline,
		Subline:          row.Subline,
		InfoTitle:        util.StringOrEmpty(row.InfoTitle),
		InfoParagraphs:   decodeLines(row.InfoParagraphs),
		InfoBulletPoints: decodeLines(row.InfoBulletPoints),
		GradientStart:    util.StringOrEmpty(row.GradientStart),
		GradientEnd:      util.StringOrEmpty(row.GradientEnd),
		ImagePath:        path,
		ImageURL:         s.ResolveImageURL(path),
	}
}

// ResolveImageURL maps a stored image path to a URL. Absolute http(s) URLs
// pass through; other paths are resolved against the bucket's public URL, or
// returned normalized when the bucket has none.
func (s *ServiceCatalog) ResolveImageURL(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	normalized := util.TrimLeadingSlashes(path)
	if s.bucket == nil {
		return normalized
	}
	url, err := s.bucket.PublicURL(normalized)
	if err != nil || url == "" {
		return normalized
	}
	return url
}

func (in ServiceInput) normalize() (ServiceInput, error) {
	out := ServiceInput{
		Slug:          strings.TrimSpace(in.Slug),
		Label:         strings.TrimSpace(in.Label),
		Headline:      strings.TrimSpace(in.Headline),
		Subline:       strings.TrimSpace(in.Subline),
		InfoTitle:     strings.TrimSpace(in.InfoTitle),
		Paragraphs:    in.Paragraphs,
		BulletPoints:  in.BulletPoints,
		GradientStart: strings.TrimSpace(in.GradientStart),
		GradientEnd:   strings.TrimSpace(in.GradientEnd),
		RemoveImage:   in.RemoveImage,
	}
	if out.Slug == "" {
		out.Slug = util.SlugifyASCII(out.Label)
	} else {
		out.Slug = util.SlugifyASCII(out.Slug)
	}

	switch {
	case out.Label == "":
		return out, invalid("Bitte gib eine Bezeichnung an.")
	case out.Slug == "":
		return out, invalid("Aus der Bezeichnung konnte kein Slug erzeugt werden.")
	case out.Headline == "":
		return out, invalid("Bitte gib eine Überschrift an.")
	case out.GradientStart != "" && !hexColor.MatchString(out.GradientStart),
		out.GradientEnd != "" && !hexColor.MatchString(out.GradientEnd):
		return out, invalid("Farben müssen im Format #rrggbb angegeben werden.")
	}
	return out, nil
}

// Create stores a new carousel entry with an optional image.
func (s *ServiceCatalog) Create(ctx context.Context, id auth.Identity, in ServiceInput, up *Upload) (ServiceEntry, error) {
	in, err := in.normalize()
	if err != nil {
		return ServiceEntry{}, err
	}
	imagePath, err := s.uploadImage(ctx, id, up)
	if err != nil {
		return ServiceEntry{}, err
	}

	row, err := s.queries.CreateService(ctx, store.CreateServiceParams{
		ID:               uuid.NewString(),
		Slug:             in.Slug,
		Label:            in.Label,
		Headline:         in.Headline,
		Subline:          in.Subline,
		InfoTitle:        util.NullStringFromValue(in.InfoTitle),
		InfoParagraphs:   encodeLines(in.Paragraphs),
		InfoBulletPoints: encodeLines(in.BulletPoints),
		GradientStart:    util.NullStringFromValue(in.GradientStart),
		GradientEnd:      util.NullStringFromValue(in.GradientEnd),
		ImagePath:        util.NullStringFromValue(imagePath),
		CreatedAt:        s.now(),
	})
	if err != nil {
		return ServiceEntry{}, fmt.Errorf("Fehler beim Speichern des Service: %w", err)
	}

	s.invalidate(ctx)
	s.logAction(ctx, id, model.ActionServiceCreated, "Service %q erstellt", row)
	return s.toEntry(row), nil
}

// Update replaces an entry. A new upload replaces the image path; without one
// the current image is kept unless RemoveImage is set. A replaced or removed
// image object is deleted from the bucket once the row is saved.
func (s *ServiceCatalog) Update(ctx context.Context, id auth.Identity, serviceID string, in ServiceInput, up *Upload) (ServiceEntry, error) {
	in, err := in.normalize()
	if err != nil {
		return ServiceEntry{}, err
	}

	existing, err := s.queries.GetServiceByID(ctx, serviceID)
	if err != nil {
		return ServiceEntry{}, notFound(err)
	}

	previousPath := util.StringOrEmpty(existing.ImagePath)
	imagePath := previousPath
	if in.RemoveImage {
		imagePath = ""
	}
	if up != nil && up.Reader != nil {
		newPath, err := s.uploadImage(ctx, id, up)
		if err != nil {
			return ServiceEntry{}, err
		}
		imagePath = newPath
	}

	row, err := s.queries.UpdateService(ctx, store.UpdateServiceParams{
		Slug:             in.Slug,
		Label:            in.Label,
		Headline:         in.Headline,
		Subline:          in.Subline,
		InfoTitle:        util.NullStringFromValue(in.InfoTitle),
		InfoParagraphs:   encodeLines(in.Paragraphs),
		InfoBulletPoints: encodeLines(in.BulletPoints),
		GradientStart:    util.NullStringFromValue(in.GradientStart),
		GradientEnd:      util.NullStringFromValue(in.GradientEnd),
		ImagePath:        util.NullStringFromValue(imagePath),
		ID:               serviceID,
	})
	if err != nil {
		return ServiceEntry{}, fmt.Errorf("Fehler beim Speichern des Service: %w", err)
	}
	if previousPath != imagePath {
		s.removeImage(ctx, previousPath)
	}

	s.invalidate(ctx)
	s.logAction(ctx, id, model.ActionServiceUpdated, "Service %q aktualisiert", row)
	return s.toEntry(row), nil
}

// Delete removes an entry together with its image object.
func (s *ServiceCatalog) Delete(ctx context.Context, id auth.Identity, serviceID string) error {
	row, err := s.queries.GetServiceByID(ctx, serviceID)
	if err != nil {
		return notFound(err)
	}
	if err := s.queries.DeleteService(ctx, serviceID); err != nil {
		return fmt.Errorf("Fehler beim Löschen des Service: %w", err)
	}
	s.removeImage(ctx, util.StringOrEmpty(row.ImagePath))

	s.invalidate(ctx)
	s.logAction(ctx, id, model.ActionServiceDeleted, "Service %q gelöscht", row)
	return nil
}

// uploadImage stores an optional image and returns its object key.
func (s *ServiceCatalog) uploadImage(ctx context.Context, id auth.Identity, up *Upload) (string, error) {
	if up == nil || up.Reader == nil {
		return "", nil
	}
	data, info, err := readImage(up)
	if err != nil {
		return "", err
	}
	if id.UserID == "" {
		return "", ErrNoIdentity
	}
	if s.bucket == nil {
		return "", fmt.Errorf("Fehler beim Hochladen: %w", storage.ErrNoPublicURL)
	}

	key := objectKey(id.UserID, model.ImageTypeService, info, s.now())
	if err := putImage(ctx, s.bucket, key, data, info); err != nil {
		s.logger.Error("service image upload failed", "key", key, "error", err)
		return "", err
	}
	return key, nil
}

// removeImage deletes a no longer referenced object. Absolute URLs point
// outside the bucket and are left alone. A failed delete leaves an orphan
// and is only logged.
func (s *ServiceCatalog) removeImage(ctx context.Context, path string) {
	if path == "" || s.bucket == nil || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return
	}
	key := util.TrimLeadingSlashes(path)
	if err := s.bucket.Delete(ctx, key); err != nil {
		s.logger.Warn("removing service image failed", "key", key, "error", err)
	}
}

func (s *ServiceCatalog) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, servicesCacheKey); err != nil {
		s.logger.Warn("invalidating services cache failed", "error", err)
	}
}

func (s *ServiceCatalog) logAction(ctx context.Context, id auth.Identity, action, format string, row store.Service) {
	s.activity.LogUserAction(ctx, ActionParams{
		Action:      action,
		Description: fmt.Sprintf(format, row.Label),
		UserID:      id.UserID,
		UserEmail:   id.Email,
		EntityType:  model.EntityService,
		EntityID:    row.ID,
		Metadata:    map[string]any{"slug": row.Slug},
	})
}

// SplitLines returns the trimmed non-empty lines of s.
func SplitLines(s string) []string {
	lines := []string{}
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func encodeLines(s string) string {
	data, err := json.Marshal(SplitLines(s))
	if err != nil {
		return "[]"
	}
	return string(data)
}

func decodeLines(raw string) []string {
	lines := []string{}
	if raw == "" {
		return lines
	}
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return []string{}
	}
	return lines
}
