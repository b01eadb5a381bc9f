// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/dscapture/dscapture/internal/auth"
	"github.com/dscapture/dscapture/internal/cache"
	"github.com/dscapture/dscapture/internal/config"
	"github.com/dscapture/dscapture/internal/handler"
	"github.com/dscapture/dscapture/internal/logging"
	"github.com/dscapture/dscapture/internal/middleware"
	"github.com/dscapture/dscapture/internal/notify"
	"github.com/dscapture/dscapture/internal/render"
	"github.com/dscapture/dscapture/internal/seo"
	"github.com/dscapture/dscapture/internal/service"
	"github.com/dscapture/dscapture/internal/session"
	"github.com/dscapture/dscapture/internal/storage"
	"github.com/dscapture/dscapture/internal/store"
	"github.com/dscapture/dscapture/internal/version"
	"github.com/dscapture/dscapture/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

const siteDescription = "Fotografie, Videografie und Drohnenaufnahmen von DS_Capture."

// crudHandlers defines the standard CRUD handler methods.
type crudHandlers struct {
	List     http.HandlerFunc
	NewForm  http.HandlerFunc
	Create   http.HandlerFunc
	EditForm http.HandlerFunc
	Update   http.HandlerFunc
	Delete   http.HandlerFunc
}

// registerCRUD registers the admin form routes for a resource.
// Routes: GET /, GET+POST <newPath>, GET+POST /{id}, POST /{id}/delete
func registerCRUD(r chi.Router, base, newPath string, h crudHandlers) {
	r.Get(base, h.List)
	r.Get(base+newPath, h.NewForm)
	r.Post(base+newPath, h.Create)
	r.Get(base+handler.RouteParamID, h.EditForm)
	r.Post(base+handler.RouteParamID, h.Update) // HTML forms can't send PUT
	r.Post(base+handler.RouteParamID+handler.RouteSuffixDelete, h.Delete)
}

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "DS_Capture - website and admin backoffice\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DSC_DB_PATH            SQLite database path (default: ./data/dscapture.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DSC_SERVER_PORT        Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DSC_ENV                Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DSC_SITE_URL           Public site URL used in canonical links and the sitemap\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DSC_STORAGE_DRIVER     Object storage: local|s3|minio (default: local)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DSC_UPLOADS_DIR        Upload directory for local storage (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DSC_REDIS_URL          Redis URL for the services cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DSC_EMAILJS_*          Contact notification credentials\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DSC_ADMIN_EMAIL        Seed an admin account with this email on first start\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DSC_ADMIN_PASSWORD     Password for the seeded admin account\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	if *showVersion {
		_, _ = fmt.Println(versionInfo.String())
		os.Exit(0)
	}

	if err := run(versionInfo); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(versionInfo version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	slog.Info("starting dscapture", versionInfo.LogAttrs()...)

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Mirror WARN and ERROR records into the activity log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewActivityLogHandler(textHandler, db))
	slog.SetDefault(logger)

	ctx := context.Background()
	if cfg.SeedEnabled() {
		hash, err := auth.HashPassword(cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("hashing seed password: %w", err)
		}
		if err := store.Seed(ctx, db, store.SeedAdmin{Email: cfg.AdminEmail, PasswordHash: hash}); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	homepageBucket, err := storage.Open(ctx, cfg, cfg.HomepageBucket)
	if err != nil {
		return fmt.Errorf("opening homepage bucket: %w", err)
	}
	serviceBucket, err := storage.Open(ctx, cfg, cfg.ServiceBucket)
	if err != nil {
		return fmt.Errorf("opening service bucket: %w", err)
	}
	slog.Info("object storage ready", "driver", cfg.StorageDriver,
		"homepage_bucket", cfg.HomepageBucket, "service_bucket", cfg.ServiceBucket)

	servicesCache := cache.NewCache(ctx, cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      cfg.ServicesCacheTTL(),
		CleanupInterval: time.Minute,
	}, logger)
	defer func() {
		if err := servicesCache.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()

	// Contact notification senders
	creds := notify.Credentials{
		ServiceID:  cfg.EmailJSServiceID,
		TemplateID: cfg.EmailJSTemplateID,
		PublicKey:  cfg.EmailJSPublicKey,
		PrivateKey: cfg.EmailJSPrivateKey,
	}
	relay := notify.NewRelay(cfg.EmailJSAPIURL, creds, nil)
	direct := notify.NewDirect(cfg.EmailJSAPIURL, creds, nil)
	var contactSender notify.Sender = notify.FallbackSender{Primary: relay, Fallback: direct}
	if cfg.ContactEndpoint != "" {
		contactSender = notify.NewEndpointClient(cfg.ContactEndpoint, direct, nil)
	}
	if !cfg.RelayConfigured() && !cfg.FallbackConfigured() {
		slog.Warn("contact notifications are not configured")
	}

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS: templatesFS,
		Sessions:    sessionManager,
		SiteName:    cfg.SiteName,
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	site := seo.SiteConfig{
		SiteName:        cfg.SiteName,
		SiteURL:         cfg.SiteURL,
		SiteDescription: siteDescription,
		DefaultOGImage:  "/static/img/background.jpg",
	}

	// Services
	activityService := service.NewActivityService(db, logger)
	postService := service.NewPostService(db, activityService)
	heroService := service.NewHeroService(db, activityService, logger)
	homepageService := service.NewHomepageService(db, homepageBucket, activityService, logger)
	catalog := service.NewServiceCatalog(db, serviceBucket, servicesCache, cfg.ServicesCacheTTL(), activityService, logger)
	gate := auth.NewGate(store.New(db), logger)

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	stopCleanup := make(chan struct{})
	defer close(stopCleanup)
	loginProtection.StartCleanup(10*time.Minute, stopCleanup)

	// One contact submission every five seconds per IP, bursts of three
	contactLimiter := middleware.NewGlobalRateLimiter(0.2, 3)
	publicRateLimiter := middleware.NewGlobalRateLimiter(10.0, 20)

	// Handlers
	frontendHandler := handler.NewFrontendHandler(renderer, heroService, homepageService, postService, catalog, site, logger)
	contactHandler := handler.NewContactHandler(renderer, contactSender, relay, activityService, contactLimiter, site)
	authHandler := handler.NewAuthHandler(db, renderer, sessionManager, gate, loginProtection, activityService)
	adminHandler := handler.NewAdminHandler(renderer, gate, postService, catalog, activityService)
	postsHandler := handler.NewPostsHandler(renderer, postService)
	homepageHandler := handler.NewHomepageHandler(renderer, homepageService, heroService)
	servicesHandler := handler.NewServicesHandler(renderer, catalog)

	uploadsDir := ""
	if cfg.StorageDriver == config.StorageLocal {
		uploadsDir = cfg.UploadsDir
	}
	healthHandler := handler.NewHealthHandler(db, servicesCache, uploadsDir)

	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))                    // Gzip compression with level 5
	r.Use(chimw.GetHead)                        // Handle HEAD requests for uptime monitoring
	r.Use(middleware.Timeout(30 * time.Second)) // 30 second request timeout
	r.Use(middleware.StripTrailingSlash)        // Redirect /path/ to /path (301)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.RequestPath)
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.LoadSession(sessionManager))

	// Static assets: cache for 1 year
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	staticHandler := middleware.StaticCache(365*24*time.Hour)(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	r.Handle("/static/*", staticHandler)

	// Uploaded objects are only served locally for the local driver; remote
	// buckets hand out their own public URLs.
	if uploadsDir != "" {
		uploadsHandler := middleware.StaticCache(7*24*time.Hour)(http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsDir))))
		r.Handle("/uploads/*", uploadsHandler)
	}

	// Health checks
	r.Get(handler.RouteHealth, healthHandler.Health)
	r.Get(handler.RouteHealth+"/live", healthHandler.Liveness)
	r.Get(handler.RouteHealth+"/ready", healthHandler.Readiness)

	// Public site
	r.Group(func(r chi.Router) {
		r.Use(publicRateLimiter.HTMLMiddleware())

		r.Get(handler.RouteRoot, frontendHandler.Home)
		r.Get(handler.RoutePortfolio, frontendHandler.Portfolio)
		r.Get(handler.RouteBlog, frontendHandler.Blog)
		r.Get(handler.RouteBlog+handler.RouteParamSlug, frontendHandler.Post)
		r.Get(handler.RouteServices, frontendHandler.Services)
		r.Get("/robots.txt", frontendHandler.Robots)
		r.Get("/sitemap.xml", frontendHandler.Sitemap)

		r.Get(handler.RouteContact, contactHandler.Form)
		r.Post(handler.RouteContact, contactHandler.Submit)
		r.Post(handler.RouteContactNotification, contactHandler.Notify)
	})

	// Authentication
	r.Get(handler.RouteLogin, authHandler.LoginForm)
	r.With(loginProtection.Middleware()).Post(handler.RouteLogin, authHandler.Login)
	r.Post(handler.RouteLogout, authHandler.Logout)

	// Admin backoffice
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.NoStore)

		// Reports the gate decision itself, so it stays outside RequireAdmin
		r.Get(handler.RouteAdminVerify, adminHandler.Verify)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(gate, activityService))

			r.Get(handler.RouteRoot, adminHandler.Dashboard)
			r.Get("/activity", adminHandler.Activity)

			registerCRUD(r, "/blog", handler.RouteAdminNewPost, crudHandlers{
				List:     postsHandler.List,
				NewForm:  postsHandler.NewForm,
				Create:   postsHandler.Create,
				EditForm: postsHandler.EditForm,
				Update:   postsHandler.Update,
				Delete:   postsHandler.Delete,
			})

			registerCRUD(r, "/services", handler.RouteSuffixNew, crudHandlers{
				List:     servicesHandler.List,
				NewForm:  servicesHandler.NewForm,
				Create:   servicesHandler.Create,
				EditForm: servicesHandler.EditForm,
				Update:   servicesHandler.Update,
				Delete:   servicesHandler.Delete,
			})

			r.Get("/homepage", homepageHandler.Images)
			r.Get("/homepage"+handler.RouteAdminHero, homepageHandler.HeroForm)
			r.Post("/homepage"+handler.RouteAdminHero, homepageHandler.SaveHero)
			r.Post("/homepage"+handler.RouteAdminImageType, homepageHandler.Upload)
		})
	})

	r.NotFound(frontendHandler.NotFound)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Longer to allow for image uploads
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
