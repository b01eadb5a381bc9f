// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the embedded HTML templates and renders pages with
// the shared layout data.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/dscapture/dscapture/internal/auth"
	"github.com/dscapture/dscapture/internal/middleware"
	"github.com/dscapture/dscapture/internal/seo"
	"github.com/dscapture/dscapture/internal/session"
	"github.com/dscapture/dscapture/internal/uikit"
)

// Flash types.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

const (
	flashKey     = "flash"
	flashTypeKey = "flash_type"
)

// blankLinesRegex matches runs of blank lines left behind by template actions.
var blankLinesRegex = regexp.MustCompile(`(\r?\n[ \t]*){2,}`)

// page groups are parsed with their layout; files in each directory become
// "<dir>/<name>" templates.
var pageGroups = []struct {
	dir    string
	layout string
}{
	{"public", "layouts/public.html"},
	{"auth", "layouts/public.html"},
	{"admin", "layouts/admin.html"},
}

// Renderer handles template rendering with caching.
type Renderer struct {
	templates map[string]*template.Template
	sessions  *session.Manager
	funcs     template.FuncMap
	siteName  string
	now       func() time.Time
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS fs.FS
	Sessions    *session.Manager
	SiteName    string
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		sessions:  cfg.Sessions,
		siteName:  cfg.SiteName,
		now:       time.Now,
	}
	r.funcs = r.TemplateFuncs()

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := templateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	for _, group := range pageGroups {
		pages, err := templateFiles(templatesFS, group.dir)
		if err != nil {
			return fmt.Errorf("getting %s templates: %w", group.dir, err)
		}

		for _, page := range pages {
			name := group.dir + "/" + strings.TrimSuffix(path.Base(page), ".html")

			// Order matters: later files may override blocks of earlier ones.
			files := []string{"layouts/base.html", group.layout}
			files = append(files, partials...)
			files = append(files, page)

			tmpl, err := template.New("").Funcs(r.funcs).ParseFS(templatesFS, files...)
			if err != nil {
				return fmt.Errorf("parsing template %s: %w", name, err)
			}
			r.templates[name] = tmpl
		}
	}

	if len(r.templates) == 0 {
		return fmt.Errorf("no templates found")
	}
	return nil
}

// templateFiles returns the .html files of dir. A missing directory yields
// no files.
func templateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// Has reports whether a template with the given name was parsed.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	Meta        *seo.Meta
	JSONLD      template.JS
	Data        any
	Breadcrumbs []uikit.Breadcrumb

	// Filled by Render.
	SiteName    string
	Flash       string
	FlashType   string
	CurrentYear int
	CurrentPath string
	Identity    auth.Identity
}

// Render renders a template with status 200.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	return r.RenderStatus(w, req, http.StatusOK, name, data)
}

// RenderStatus renders a template with the given status. Nothing is written
// when execution fails, so callers can still send an error response.
func (r *Renderer) RenderStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.SiteName = r.siteName
	data.CurrentYear = r.now().Year()
	data.CurrentPath = req.URL.Path
	data.Identity = middleware.GetIdentity(req)
	if data.Flash == "" {
		data.Flash, data.FlashType = r.popFlash(req)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := w.Write(blankLinesRegex.ReplaceAll(buf.Bytes(), []byte("\n")))
	return err
}

// SetFlash stores a message shown on the next rendered page.
func (r *Renderer) SetFlash(req *http.Request, message, flashType string) {
	if r.sessions == nil {
		return
	}
	r.sessions.Put(req.Context(), flashKey, message)
	r.sessions.Put(req.Context(), flashTypeKey, flashType)
}

func (r *Renderer) popFlash(req *http.Request) (string, string) {
	if r.sessions == nil {
		return "", ""
	}
	ctx := req.Context()
	flash := r.sessions.PopString(ctx, flashKey)
	flashType := r.sessions.PopString(ctx, flashTypeKey)
	if flash == "" {
		return "", ""
	}
	if flashType == "" {
		flashType = FlashInfo
	}
	return flash, flashType
}
