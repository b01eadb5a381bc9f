// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dscapture/dscapture/internal/auth"
	"github.com/dscapture/dscapture/internal/imaging"
	"github.com/dscapture/dscapture/internal/model"
	"github.com/dscapture/dscapture/internal/storage"
	"github.com/dscapture/dscapture/internal/store"
)

// HomepageImages holds the stored homepage images. Either may be nil.
type HomepageImages struct {
	Background *store.HomepageImage
	Overlay    *store.HomepageImage
}

// BackgroundURL returns the stored background URL or the bundled default.
func (h HomepageImages) BackgroundURL() string {
	if h.Background != nil && h.Background.PublicUrl != "" {
		return h.Background.PublicUrl
	}
	return model.FallbackBackgroundImage
}

// OverlayURL returns the stored overlay URL or the bundled default.
func (h HomepageImages) OverlayURL() string {
	if h.Overlay != nil && h.Overlay.PublicUrl != "" {
		return h.Overlay.PublicUrl
	}
	return model.FallbackOverlayImage
}

// HomepageService manages the background and overlay images of the home page.
type HomepageService struct {
	queries  *store.Queries
	bucket   storage.Bucket
	activity *ActivityService
	logger   *slog.Logger
	now      func() time.Time
}

// NewHomepageService creates a HomepageService storing images in bucket.
func NewHomepageService(db *sql.DB, bucket storage.Bucket, activity *ActivityService, logger *slog.Logger) *HomepageService {
	return &HomepageService{
		queries:  store.New(db),
		bucket:   bucket,
		activity: activity,
		logger:   logger,
		now:      utcNow,
	}
}

// UploadImage stores a new image of imageType and points the homepage at it.
// A written object is not removed when a later step fails.
func (s *HomepageService) UploadImage(ctx context.Context, id auth.Identity, imageType string, up *Upload) (store.HomepageImage, error) {
	data, info, err := readImage(up)
	if err != nil {
		return store.HomepageImage{}, err
	}
	if !model.IsHomepageImageType(imageType) {
		return store.HomepageImage{}, invalid("Unbekannter Bildtyp.")
	}
	if id.UserID == "" {
		return store.HomepageImage{}, ErrNoIdentity
	}

	key := objectKey(id.UserID, imageType, info, s.now())

	image, err := s.persist(ctx, imageType, key, data, info)
	if err != nil {
		s.logger.Error("homepage image upload failed", "type", imageType, "key", key, "error", err)
		s.activity.LogUserAction(ctx, ActionParams{
			Action:      model.ActionHomepageImageUploadError,
			Description: fmt.Sprintf("Upload des Bildes %q fehlgeschlagen", imageType),
			UserID:      id.UserID,
			UserEmail:   id.Email,
			EntityType:  model.EntityHomepageImage,
			EntityID:    imageType,
			Metadata:    map[string]any{"filePath": key, "error": err.Error()},
		})
		return store.HomepageImage{}, err
	}

	s.activity.LogUserAction(ctx, ActionParams{
		Action:      model.ActionHomepageImageUploaded,
		Description: fmt.Sprintf("Bild %q aktualisiert", imageType),
		UserID:      id.UserID,
		UserEmail:   id.Email,
		EntityType:  model.EntityHomepageImage,
		EntityID:    imageType,
		Metadata: map[string]any{
			"filePath":  key,
			"publicUrl": image.PublicUrl,
			"width":     info.Width,
			"height":    info.Height,
		},
	})
	return image, nil
}

func (s *HomepageService) persist(ctx context.Context, imageType, key string, data []byte, info imaging.Info) (store.HomepageImage, error) {
	if err := putImage(ctx, s.bucket, key, data, info); err != nil {
		return store.HomepageImage{}, err
	}

	url, err := s.bucket.PublicURL(key)
	if err != nil || url == "" {
		return store.HomepageImage{}, ErrNoPublicURL
	}

	image, err := s.queries.UpsertHomepageImage(ctx, store.UpsertHomepageImageParams{
		ImageType: imageType,
		PublicUrl: url,
		FilePath:  key,
		UpdatedAt: s.now(),
	})
	if err != nil {
		return store.HomepageImage{}, fmt.Errorf("Fehler beim Speichern des Bildes: %w", err)
	}
	return image, nil
}

// Images returns the stored homepage images.
func (s *HomepageService) Images(ctx context.Context) (HomepageImages, error) {
	rows, err := s.queries.ListHomepageImages(ctx)
	if err != nil {
		return HomepageImages{}, fmt.Errorf("listing homepage images: %w", err)
	}

	var images HomepageImages
	for i := range rows {
		switch rows[i].ImageType {
		case model.ImageTypeBackground:
			images.Background = &rows[i]
		case model.ImageTypeOverlay:
			images.Overlay = &rows[i]
		}
	}
	return images, nil
}

// Image returns the stored image of imageType.
func (s *HomepageService) Image(ctx context.Context, imageType string) (store.HomepageImage, error) {
	image, err := s.queries.GetHomepageImage(ctx, imageType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.HomepageImage{}, ErrNotFound
		}
		return store.HomepageImage{}, fmt.Errorf("loading homepage image: %w", err)
	}
	return image, nil
}
