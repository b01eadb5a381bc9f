// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/dscapture/dscapture/internal/auth"
	"github.com/dscapture/dscapture/internal/cache"
	"github.com/dscapture/dscapture/internal/middleware"
	"github.com/dscapture/dscapture/internal/model"
	"github.com/dscapture/dscapture/internal/render"
	"github.com/dscapture/dscapture/internal/seo"
	"github.com/dscapture/dscapture/internal/service"
	"github.com/dscapture/dscapture/internal/session"
	"github.com/dscapture/dscapture/internal/storage"
	"github.com/dscapture/dscapture/internal/store"
	"github.com/dscapture/dscapture/internal/testutil"
	"github.com/dscapture/dscapture/web"
)

const (
	testAdminEmail    = "admin@dscapture.de"
	testAdminPassword = "correct-horse-battery"
)

// testEnv wires the services of a handler test against a migrated database.
type testEnv struct {
	db       *sql.DB
	mem      *cache.MemoryCache
	sessions *session.Manager
	renderer *render.Renderer
	activity *service.ActivityService
	gate     *auth.Gate
	posts    *service.PostService
	hero     *service.HeroService
	homepage *service.HomepageService
	catalog  *service.ServiceCatalog
	bucket   *storage.LocalBucket
	site     seo.SiteConfig
	admin    auth.Identity
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	logger := testutil.TestLoggerSilent()
	sessions := session.New(db, true)

	templates, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)
	renderer, err := render.New(render.Config{
		TemplatesFS: templates,
		Sessions:    sessions,
		SiteName:    "DS_Capture",
	})
	require.NoError(t, err)

	bucket, err := storage.NewLocalBucket(t.TempDir(), "homepage-assets", "/uploads")
	require.NoError(t, err)

	mem := cache.NewMemoryCache(time.Minute, time.Minute)
	t.Cleanup(func() { _ = mem.Close() })

	hash, err := auth.HashPassword(testAdminPassword)
	require.NoError(t, err)
	adminID := testutil.CreateAdmin(t, db, testAdminEmail, hash)

	activity := service.NewActivityService(db, logger)
	return &testEnv{
		db:       db,
		mem:      mem,
		sessions: sessions,
		renderer: renderer,
		activity: activity,
		gate:     auth.NewGate(store.New(db), logger),
		posts:    service.NewPostService(db, activity),
		hero:     service.NewHeroService(db, activity, logger),
		homepage: service.NewHomepageService(db, bucket, activity, logger),
		catalog:  service.NewServiceCatalog(db, bucket, mem, time.Minute, activity, logger),
		bucket:   bucket,
		site: seo.SiteConfig{
			SiteName:        "DS_Capture",
			SiteURL:         "https://ds-capture.de",
			SiteDescription: "Fotografie und Videografie",
		},
		admin: auth.Identity{UserID: adminID, Email: testAdminEmail, Role: model.RoleAdmin},
	}
}

// serve runs h behind the session middleware, as the router does.
func (e *testEnv) serve(h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.sessions.LoadAndSave(middleware.LoadSession(e.sessions)(h)).ServeHTTP(w, r)
	return w
}

// asAdmin marks r as verified by the admin gate.
func (e *testEnv) asAdmin(r *http.Request) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.ContextKeyIdentity, e.admin)
	return r.WithContext(ctx)
}

// follow issues a GET with the cookies of a previous response, so the flash
// set by that response is rendered.
func (e *testEnv) follow(h http.HandlerFunc, prev *httptest.ResponseRecorder, target string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range prev.Result().Cookies() {
		r.AddCookie(c)
	}
	return e.serve(h, r)
}

func (e *testEnv) activityActions(t *testing.T) []string {
	t.Helper()
	logs, err := e.activity.Recent(context.Background(), 100)
	require.NoError(t, err)
	actions := make([]string, 0, len(logs))
	for _, l := range logs {
		actions = append(actions, l.Action)
	}
	return actions
}

// requestWithURLParams adds chi URL parameters to a request.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func formRequest(target string, values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func jsonRequest(t *testing.T, target string, v any) *http.Request {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	r := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// multipartRequest builds a multipart form. The file part is skipped when
// data is nil.
func multipartRequest(t *testing.T, target string, fields map[string]string, fileField, filename string, data []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if data != nil {
		part, err := mw.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, target, &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return body
}
