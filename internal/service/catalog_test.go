// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dscapture/dscapture/internal/cache"
	"github.com/dscapture/dscapture/internal/model"
	"github.com/dscapture/dscapture/internal/storage"
	"github.com/dscapture/dscapture/internal/store"
	"github.com/dscapture/dscapture/internal/testutil"
	"github.com/dscapture/dscapture/internal/util"
)

func newCatalog(t *testing.T) (*ServiceCatalog, *store.Queries) {
	t.Helper()
	db := testDB(t)
	bucket, err := storage.NewLocalBucket(t.TempDir(), "service-images", "https://cdn.example.com")
	require.NoError(t, err)

	mem := cache.NewMemoryCache(time.Minute, time.Minute)
	t.Cleanup(func() { _ = mem.Close() })

	logger := testutil.TestLoggerSilent()
	svc := NewServiceCatalog(db, bucket, mem, time.Minute, NewActivityService(db, logger), logger)
	svc.now = steppingClock()
	return svc, store.New(db)
}

func TestServiceCatalog_CreateAndList(t *testing.T) {
	svc, _ := newCatalog(t)
	admin := adminIdentity()
	ctx := context.Background()

	assert.Empty(t, svc.List(ctx))

	entry, err := svc.Create(ctx, admin, ServiceInput{
		Label:         "Hochzeitsfotografie",
		Headline:      "Eure Geschichte in Bildern",
		Subline:       "Ganztägige Begleitung",
		Paragraphs:    "Erster Absatz.\r\n\n  Zweiter Absatz.  \n",
		BulletPoints:  "Vorgespräch\nOnline-Galerie",
		GradientStart: "#112233",
		GradientEnd:   "#AABBCC",
	}, pngUpload(t, "hochzeit.jpg"))
	require.NoError(t, err)

	assert.Equal(t, "hochzeitsfotografie", entry.Slug)
	assert.Equal(t, []string{"Erster Absatz.", "Zweiter Absatz."}, entry.InfoParagraphs)
	assert.Equal(t, []string{"Vorgespräch", "Online-Galerie"}, entry.InfoBulletPoints)
	assert.True(t, strings.HasPrefix(entry.ImagePath, admin.UserID+"/service-"), "image path = %q", entry.ImagePath)
	assert.True(t, strings.HasSuffix(entry.ImagePath, ".png"), "extension follows the content, image path = %q", entry.ImagePath)
	assert.Equal(t, "https://cdn.example.com/service-images/"+entry.ImagePath, entry.ImageURL)

	list := svc.List(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, entry.ID, list[0].ID)
}

func TestServiceCatalog_ListIsCachedAndInvalidated(t *testing.T) {
	svc, queries := newCatalog(t)
	admin := adminIdentity()
	ctx := context.Background()

	first, err := svc.Create(ctx, admin, ServiceInput{Label: "Portrait", Headline: "Menschen"}, nil)
	require.NoError(t, err)
	require.Len(t, svc.List(ctx), 1)

	// A write behind the catalog's back is not visible until invalidation.
	_, err = queries.CreateService(ctx, store.CreateServiceParams{
		ID: "direct", Slug: "direkt", Label: "Direkt", Headline: "x",
		InfoParagraphs: "[]", InfoBulletPoints: "[]", CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Len(t, svc.List(ctx), 1)

	fresh, err := svc.ListFresh(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 2)

	_, err = svc.Update(ctx, admin, first.ID, ServiceInput{Label: "Portraits", Headline: "Menschen"}, nil)
	require.NoError(t, err)
	list := svc.List(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, "Portraits", list[0].Label)

	require.NoError(t, svc.Delete(ctx, admin, first.ID))
	assert.Len(t, svc.List(ctx), 1)
}

func objectExists(t *testing.T, svc *ServiceCatalog, key string) bool {
	t.Helper()
	local, ok := svc.bucket.(*storage.LocalBucket)
	require.True(t, ok)
	_, err := os.Stat(filepath.Join(local.Dir(), filepath.FromSlash(key)))
	return err == nil
}

func TestServiceCatalog_UpdateImage(t *testing.T) {
	svc, _ := newCatalog(t)
	admin := adminIdentity()
	ctx := context.Background()

	entry, err := svc.Create(ctx, admin, ServiceInput{Label: "Event", Headline: "Feiern"}, pngUpload(t, "a.png"))
	require.NoError(t, err)
	require.NotEmpty(t, entry.ImagePath)
	require.True(t, objectExists(t, svc, entry.ImagePath))

	kept, err := svc.Update(ctx, admin, entry.ID, ServiceInput{Label: "Event", Headline: "Feste"}, nil)
	require.NoError(t, err)
	assert.Equal(t, entry.ImagePath, kept.ImagePath)
	assert.True(t, objectExists(t, svc, entry.ImagePath), "kept image stays in the bucket")

	replaced, err := svc.Update(ctx, admin, entry.ID, ServiceInput{Label: "Event", Headline: "Feste"}, pngUpload(t, "b.png"))
	require.NoError(t, err)
	assert.NotEqual(t, entry.ImagePath, replaced.ImagePath)
	assert.False(t, objectExists(t, svc, entry.ImagePath), "replaced image is deleted")
	assert.True(t, objectExists(t, svc, replaced.ImagePath))

	removed, err := svc.Update(ctx, admin, entry.ID, ServiceInput{Label: "Event", Headline: "Feste", RemoveImage: true}, nil)
	require.NoError(t, err)
	assert.Empty(t, removed.ImagePath)
	assert.Empty(t, removed.ImageURL)
	assert.False(t, objectExists(t, svc, replaced.ImagePath), "removed image is deleted")
}

func TestServiceCatalog_DeleteRemovesImage(t *testing.T) {
	svc, _ := newCatalog(t)
	admin := adminIdentity()
	ctx := context.Background()

	entry, err := svc.Create(ctx, admin, ServiceInput{Label: "Drohne", Headline: "Von oben"}, pngUpload(t, "d.png"))
	require.NoError(t, err)
	require.True(t, objectExists(t, svc, entry.ImagePath))

	require.NoError(t, svc.Delete(ctx, admin, entry.ID))
	assert.False(t, objectExists(t, svc, entry.ImagePath))
	assert.Empty(t, svc.List(ctx))
}

func TestServiceCatalog_DeleteKeepsExternalImage(t *testing.T) {
	svc, queries := newCatalog(t)
	admin := adminIdentity()
	ctx := context.Background()

	entry, err := svc.Create(ctx, admin, ServiceInput{Label: "Extern", Headline: "Fremdes Bild"}, nil)
	require.NoError(t, err)
	row, err := queries.GetServiceByID(ctx, entry.ID)
	require.NoError(t, err)

	_, err = queries.UpdateService(ctx, store.UpdateServiceParams{
		Slug:             row.Slug,
		Label:            row.Label,
		Headline:         row.Headline,
		Subline:          row.Subline,
		InfoParagraphs:   row.InfoParagraphs,
		InfoBulletPoints: row.InfoBulletPoints,
		ImagePath:        util.NullStringFromValue("https://img.example.com/extern.jpg"),
		ID:               entry.ID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, admin, entry.ID), "external URLs are not bucket objects")
}

func TestServiceCatalog_Validation(t *testing.T) {
	svc, _ := newCatalog(t)
	admin := adminIdentity()

	tests := []struct {
		name string
		in   ServiceInput
	}{
		{"missing label", ServiceInput{Headline: "x"}},
		{"missing headline", ServiceInput{Label: "Film"}},
		{"bad gradient", ServiceInput{Label: "Film", Headline: "x", GradientStart: "red"}},
		{"short gradient", ServiceInput{Label: "Film", Headline: "x", GradientEnd: "#fff"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), admin, tt.in, nil)
			require.Error(t, err)
			assert.True(t, IsValidation(err), "want validation error, got %v", err)
		})
	}

	_, err := svc.Update(context.Background(), admin, "missing", ServiceInput{Label: "Film", Headline: "x"}, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceCatalog_ActivityLogged(t *testing.T) {
	db := testDB(t)
	bucket, err := storage.NewLocalBucket(t.TempDir(), "service-images", "/uploads")
	require.NoError(t, err)
	logger := testutil.TestLoggerSilent()
	svc := NewServiceCatalog(db, bucket, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute, NewActivityService(db, logger), logger)
	ctx := context.Background()

	entry, err := svc.Create(ctx, adminIdentity(), ServiceInput{Label: "Luftaufnahmen", Headline: "Von oben"}, nil)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, adminIdentity(), entry.ID))

	logs := activityLogs(t, db)
	created := findActivity(logs, model.ActionServiceCreated)
	require.NotNil(t, created)
	assert.Equal(t, entry.ID, created.EntityID.String)
	assert.Equal(t, "luftaufnahmen", metadataOf(t, created)["slug"])
	assert.NotNil(t, findActivity(logs, model.ActionServiceDeleted))
}

func TestResolveImageURL(t *testing.T) {
	bucket, err := storage.NewLocalBucket(t.TempDir(), "service-images", "/uploads")
	require.NoError(t, err)
	noURL, err := storage.NewLocalBucket(t.TempDir(), "service-images", "")
	require.NoError(t, err)

	tests := []struct {
		name   string
		bucket storage.Bucket
		path   string
		want   string
	}{
		{"empty", bucket, "", ""},
		{"absolute https", bucket, "https://img.example.com/a.jpg", "https://img.example.com/a.jpg"},
		{"absolute http", bucket, "http://img.example.com/a.jpg", "http://img.example.com/a.jpg"},
		{"bucket key", bucket, "u1/service-1.png", "/uploads/service-images/u1/service-1.png"},
		{"leading slashes", bucket, "//u1/service-1.png", "/uploads/service-images/u1/service-1.png"},
		{"no public url", noURL, "/u1/service-1.png", "u1/service-1.png"},
		{"no bucket", nil, "/u1/service-1.png", "u1/service-1.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &ServiceCatalog{bucket: tt.bucket}
			assert.Equal(t, tt.want, svc.ResolveImageURL(tt.path))
		})
	}
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{}, SplitLines(""))
	assert.Equal(t, []string{"a", "b"}, SplitLines(" a \r\n\r\n b"))
	assert.Equal(t, []string{}, decodeLines("not json"))
	assert.Equal(t, `["x"]`, encodeLines("x\n"))
}
