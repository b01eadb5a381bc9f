// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"
)

// testDB creates a temporary test database with migrations applied.
func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "dscapture-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}

	if err := Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	return db, func() { _ = db.Close() }
}

func createTestUser(t *testing.T, q *Queries, id, email string) User {
	t.Helper()
	now := time.Now().UTC()
	user, err := q.CreateUser(context.Background(), CreateUserParams{
		ID:           id,
		Email:        email,
		PasswordHash: "hashed-password",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

func TestCreateUser(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	q := New(db)
	user := createTestUser(t, q, "u-1", "test@example.com")

	if user.ID != "u-1" {
		t.Errorf("ID = %q, want %q", user.ID, "u-1")
	}
	if user.Email != "test@example.com" {
		t.Errorf("Email = %q, want %q", user.Email, "test@example.com")
	}

	got, err := q.GetUserByEmail(context.Background(), "test@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("GetUserByEmail ID = %q, want %q", got.ID, user.ID)
	}
}

func TestGetUserByID_NotFound(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	_, err := New(db).GetUserByID(context.Background(), "missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetUserByID error = %v, want sql.ErrNoRows", err)
	}
}

func TestUpsertAdminUser(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	user := createTestUser(t, q, "u-1", "admin@example.com")

	if _, err := q.UpsertAdminUser(ctx, UpsertAdminUserParams{
		UserID: user.ID, Email: user.Email, Role: "editor", CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("UpsertAdminUser: %v", err)
	}
	if _, err := q.UpsertAdminUser(ctx, UpsertAdminUserParams{
		UserID: user.ID, Email: user.Email, Role: "admin", CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("UpsertAdminUser (second): %v", err)
	}

	admin, err := q.GetAdminUserByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetAdminUserByUserID: %v", err)
	}
	if admin.Role != "admin" {
		t.Errorf("Role = %q, want %q", admin.Role, "admin")
	}
}

func insertPost(t *testing.T, q *Queries, id, slug, status string, publishedAt sql.NullTime) {
	t.Helper()
	now := time.Now().UTC()
	if _, err := q.CreatePost(context.Background(), CreatePostParams{
		ID:          id,
		AuthorID:    "u-1",
		Title:       "Post " + id,
		Slug:        slug,
		Content:     "content",
		Status:      status,
		PublishedAt: publishedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		t.Fatalf("CreatePost(%s): %v", id, err)
	}
}

func TestListPublishedPosts(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	q := New(db)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	at := func(d int) sql.NullTime { return sql.NullTime{Time: base.AddDate(0, 0, d), Valid: true} }

	insertPost(t, q, "p-old", "old", "published", at(0))
	insertPost(t, q, "p-null", "null", "published", sql.NullTime{})
	insertPost(t, q, "p-new", "new", "published", at(5))
	insertPost(t, q, "p-draft", "draft", "draft", sql.NullTime{})
	insertPost(t, q, "p-archived", "archived", "archived", at(9))

	posts, err := q.ListPublishedPosts(context.Background())
	if err != nil {
		t.Fatalf("ListPublishedPosts: %v", err)
	}

	want := []string{"p-new", "p-old", "p-null"}
	if len(posts) != len(want) {
		t.Fatalf("got %d posts, want %d", len(posts), len(want))
	}
	for i, p := range posts {
		if p.Status != "published" {
			t.Errorf("posts[%d].Status = %q, want published", i, p.Status)
		}
		if p.ID != want[i] {
			t.Errorf("posts[%d].ID = %q, want %q", i, p.ID, want[i])
		}
	}
}

func TestGetPublishedPostBySlug(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	insertPost(t, q, "p-1", "live", "published", sql.NullTime{Time: time.Now().UTC(), Valid: true})
	insertPost(t, q, "p-2", "hidden", "draft", sql.NullTime{})

	if _, err := q.GetPublishedPostBySlug(ctx, "live"); err != nil {
		t.Errorf("GetPublishedPostBySlug(live): %v", err)
	}
	if _, err := q.GetPublishedPostBySlug(ctx, "hidden"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetPublishedPostBySlug(hidden) error = %v, want sql.ErrNoRows", err)
	}
}

func TestPostSlugExists(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	insertPost(t, q, "p-1", "taken", "draft", sql.NullTime{})

	exists, err := q.PostSlugExists(ctx, PostSlugExistsParams{Slug: "taken", ID: ""})
	if err != nil {
		t.Fatalf("PostSlugExists: %v", err)
	}
	if !exists {
		t.Error("expected slug to exist for a new post")
	}

	exists, err = q.PostSlugExists(ctx, PostSlugExistsParams{Slug: "taken", ID: "p-1"})
	if err != nil {
		t.Fatalf("PostSlugExists: %v", err)
	}
	if exists {
		t.Error("slug owned by the same post should not count as taken")
	}
}

func TestUpsertHomepageImage_ReplacesRow(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	first := UpsertHomepageImageParams{ImageType: "background", PublicUrl: "https://cdn/a.png", FilePath: "u/background-1.png", UpdatedAt: time.Now().UTC()}
	second := UpsertHomepageImageParams{ImageType: "background", PublicUrl: "https://cdn/b.png", FilePath: "u/background-2.png", UpdatedAt: time.Now().UTC()}

	if _, err := q.UpsertHomepageImage(ctx, first); err != nil {
		t.Fatalf("UpsertHomepageImage(first): %v", err)
	}
	if _, err := q.UpsertHomepageImage(ctx, second); err != nil {
		t.Fatalf("UpsertHomepageImage(second): %v", err)
	}

	count, err := q.CountHomepageImagesByType(ctx, "background")
	if err != nil {
		t.Fatalf("CountHomepageImagesByType: %v", err)
	}
	if count != 1 {
		t.Errorf("row count = %d, want 1", count)
	}

	img, err := q.GetHomepageImage(ctx, "background")
	if err != nil {
		t.Fatalf("GetHomepageImage: %v", err)
	}
	if img.PublicUrl != second.PublicUrl || img.FilePath != second.FilePath {
		t.Errorf("got (%q, %q), want second write (%q, %q)", img.PublicUrl, img.FilePath, second.PublicUrl, second.FilePath)
	}
}

func TestUpsertHomepageImage_RejectsUnknownType(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	_, err := New(db).UpsertHomepageImage(context.Background(), UpsertHomepageImageParams{
		ImageType: "sidebar", PublicUrl: "x", FilePath: "y", UpdatedAt: time.Now().UTC(),
	})
	if err == nil {
		t.Error("expected CHECK constraint error for unknown image type")
	}
}

func TestUpsertHeroContent(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	for _, heading := range []string{"First", "Second"} {
		if _, err := q.UpsertHeroContent(ctx, UpsertHeroContentParams{
			SingletonKey: "hero",
			Heading:      heading,
			Subheading:   "Sub",
			CtaLabel:     "Jetzt Kontaktieren",
			UpdatedAt:    time.Now().UTC(),
		}); err != nil {
			t.Fatalf("UpsertHeroContent(%s): %v", heading, err)
		}
	}

	hero, err := q.GetHeroContent(ctx, "hero")
	if err != nil {
		t.Fatalf("GetHeroContent: %v", err)
	}
	if hero.Heading != "Second" {
		t.Errorf("Heading = %q, want %q", hero.Heading, "Second")
	}

	var rows int
	if err := db.QueryRow(`SELECT COUNT(*) FROM homepage_hero_content`).Scan(&rows); err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 1 {
		t.Errorf("hero rows = %d, want 1", rows)
	}
}

func TestListServices_OrderedByCreation(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	inserts := []struct {
		slug   string
		offset time.Duration
	}{
		{"third", 3 * time.Hour},
		{"first", 1 * time.Hour},
		{"second", 2 * time.Hour},
	}
	for _, in := range inserts {
		if _, err := q.CreateService(ctx, CreateServiceParams{
			ID:               in.slug,
			Slug:             in.slug,
			Label:            in.slug,
			Headline:         in.slug,
			InfoParagraphs:   "[]",
			InfoBulletPoints: "[]",
			CreatedAt:        base.Add(in.offset),
		}); err != nil {
			t.Fatalf("CreateService(%s): %v", in.slug, err)
		}
	}

	services, err := q.ListServices(ctx)
	if err != nil {
		t.Fatalf("ListServices: %v", err)
	}
	want := []string{"first", "second", "third"}
	if len(services) != len(want) {
		t.Fatalf("got %d services, want %d", len(services), len(want))
	}
	for i, s := range services {
		if s.Slug != want[i] {
			t.Errorf("services[%d].Slug = %q, want %q", i, s.Slug, want[i])
		}
	}
}

func TestCreateActivityLog(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	entry, err := q.CreateActivityLog(ctx, CreateActivityLogParams{
		Action:     "homepage_hero_content_saved",
		Context:    "admin",
		UserID:     sql.NullString{String: "u-1", Valid: true},
		EntityType: sql.NullString{String: "homepage_hero_content", Valid: true},
		Metadata:   sql.NullString{String: `{"hasCustomCta":false}`, Valid: true},
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateActivityLog: %v", err)
	}
	if entry.ID == 0 {
		t.Error("entry.ID should not be 0")
	}

	logs, err := q.ListActivityLogs(ctx, 10)
	if err != nil {
		t.Fatalf("ListActivityLogs: %v", err)
	}
	if len(logs) != 1 || logs[0].Action != "homepage_hero_content_saved" {
		t.Errorf("ListActivityLogs = %+v, want one saved entry", logs)
	}
}

func TestSeed_Idempotent(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	admin := SeedAdmin{Email: "owner@example.com", PasswordHash: "hash"}

	for range 2 {
		if err := Seed(ctx, db, admin); err != nil {
			t.Fatalf("Seed: %v", err)
		}
	}

	q := New(db)
	user, err := q.GetUserByEmail(ctx, admin.Email)
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	row, err := q.GetAdminUserByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetAdminUserByUserID: %v", err)
	}
	if row.Role != "admin" {
		t.Errorf("Role = %q, want admin", row.Role)
	}
}
