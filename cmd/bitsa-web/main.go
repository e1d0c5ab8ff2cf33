// Copyright (c) 2025-2026 BITSA
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

	"github.com/bitsa/bitsa-web/internal/api"
	"github.com/bitsa/bitsa-web/internal/cache"
	"github.com/bitsa/bitsa-web/internal/config"
	"github.com/bitsa/bitsa-web/internal/handler"
	"github.com/bitsa/bitsa-web/internal/logging"
	"github.com/bitsa/bitsa-web/internal/middleware"
	"github.com/bitsa/bitsa-web/internal/render"
	"github.com/bitsa/bitsa-web/internal/scheduler"
	"github.com/bitsa/bitsa-web/internal/session"
	"github.com/bitsa/bitsa-web/internal/store"
	"github.com/bitsa/bitsa-web/internal/version"
	"github.com/bitsa/bitsa-web/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "bitsa-web - Bugema University IT Students Association site\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BITSA_SESSION_SECRET   Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BITSA_API_BASE_URL     Association API base URL (e.g. http://localhost:8000/api)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BITSA_SESSION_DB_PATH  Session database path (default: ./data/sessions.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BITSA_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BITSA_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BITSA_REDIS_URL        Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BITSA_CACHE_TTL        API response cache TTL in seconds (default: 60)\n")
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
	// Load .env if present (development)
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

	// The ring handler keeps recent warnings in memory for the admin
	// dashboard while everything still goes to stdout.
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	ringHandler := logging.NewRingHandler(textHandler, 256)
	logger := slog.New(ringHandler)
	slog.SetDefault(logger)

	// Ensure the session database directory exists
	dbDir := filepath.Dir(cfg.SessionDBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing session database", "path", cfg.SessionDBPath)
	db, err := store.NewDB(cfg.SessionDBPath)
	if err != nil {
		return fmt.Errorf("initializing session database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing session database", "error", err)
		}
	}(db)

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("session database ready")

	// Session manager backed by the SQLite store
	sessionManager := session.New(db, cfg.IsDevelopment())
	sessionStore := session.NewStore(sessionManager)
	slog.Info("session manager initialized")

	// Cache backend: Redis when configured, in-process memory otherwise
	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	backend := cache.New(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      cacheTTL,
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	}, logger)
	defer func() {
		if err := backend.Close(); err != nil {
			slog.Error("error closing cache backend", "error", err)
		}
	}()

	// Association API client with the read-through cache
	apiClient := api.New(cfg.APIBaseURL, time.Duration(cfg.APITimeout)*time.Second, logger)
	cached := api.NewCached(apiClient, backend, cacheTTL)
	slog.Info("api client initialized", "base_url", cfg.APIBaseURL, "cache_ttl", cacheTTL)

	// Warm the content cache periodically so anonymous page views
	// rarely wait on the API.
	sched := scheduler.New(cached, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	// Template renderer over the embedded templates
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	metrics := middleware.NewMetrics()

	// CSRF protection for all state-changing form posts
	csrfConfig := middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())
	csrfMiddleware := middleware.CSRF(csrfConfig)
	slog.Info("CSRF protection initialized", "secure", !cfg.IsDevelopment())

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	slog.Info("login protection initialized",
		"ip_rate_limit", "0.5 req/s",
		"max_failed_attempts", 5,
		"lockout_duration", "15m",
	)

	// Handlers
	pagesHandler := handler.NewPagesHandler(cached, renderer)
	eventsHandler := handler.NewEventsHandler(cached, sessionStore, renderer, metrics)
	blogHandler := handler.NewBlogHandler(cached, renderer, metrics)
	galleryHandler := handler.NewGalleryHandler(cached, renderer, metrics)
	authHandler := handler.NewAuthHandler(apiClient, sessionStore, renderer, loginProtection)
	profileHandler := handler.NewProfileHandler(cached, sessionStore, renderer)
	adminHandler := handler.NewAdminHandler(cached, sessionStore, renderer, backend, ringHandler, versionInfo)
	healthHandler := handler.NewHealthHandler(db, apiClient, versionInfo)

	// Router
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(metrics.Middleware())
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.LoadUser(sessionStore))

	// Probes and metrics
	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)
	r.Handle("/metrics", metrics.Handler())

	// Public pages
	r.Group(func(r chi.Router) {
		r.Use(csrfMiddleware)

		r.Get(handler.RouteRoot, pagesHandler.Home)
		r.Get(handler.RouteAbout, pagesHandler.About)
		r.Get(handler.RouteContact, pagesHandler.ContactForm)
		r.Post(handler.RouteContact, pagesHandler.Contact)

		r.Route(handler.RouteEvents, func(r chi.Router) {
			r.Get("/", eventsHandler.List)
			r.Get(handler.RouteParamID, eventsHandler.Detail)
			r.With(middleware.RequireUser).Post(handler.RouteEventRSVP, eventsHandler.RSVP)
		})

		r.Route(handler.RouteBlog, func(r chi.Router) {
			r.Get("/", blogHandler.List)
			r.Get(handler.RouteBlogPost, blogHandler.Detail)
		})

		r.Get(handler.RouteGallery, galleryHandler.List)
	})

	// Auth routes
	r.Group(func(r chi.Router) {
		r.Use(csrfMiddleware)

		r.Get(handler.RouteLogin, authHandler.LoginForm)
		r.With(loginProtection.Middleware()).Post(handler.RouteLogin, authHandler.Login)
		r.Get(handler.RouteRegister, authHandler.RegisterForm)
		r.Post(handler.RouteRegister, authHandler.Register)
		r.Post(handler.RouteLogout, authHandler.Logout)
	})

	// Member routes
	r.Group(func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Use(middleware.RequireUser)

		r.Get(handler.RouteProfile, profileHandler.Show)
		r.Post(handler.RouteProfile, profileHandler.Update)
	})

	// Admin routes
	r.Route(handler.RouteAdmin, func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Use(middleware.RequireAdmin)

		r.Get(handler.RouteRoot, adminHandler.Dashboard)
		r.Get(handler.RouteUsers, adminHandler.Users)
		r.Post(handler.RouteUsers, adminHandler.AddUser)
		r.Post(handler.RouteUsers+"/{id}/toggle-block", adminHandler.ToggleUserBlock)
		r.Post("/cache/clear", adminHandler.ClearCache)
	})

	// Static assets from the embedded filesystem, cached for an hour
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	staticHandler := middleware.StaticCache(3600)(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	r.Handle("/static/*", staticHandler)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		data := render.TemplateData{Title: "Page Not Found", User: middleware.GetUser(req)}
		if err := renderer.RenderStatus(w, req, "404", http.StatusNotFound, data); err != nil {
			http.NotFound(w, req)
		}
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB max header size
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
