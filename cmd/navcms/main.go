// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/navcms/internal/cache"
	"github.com/olegiv/navcms/internal/config"
	"github.com/olegiv/navcms/internal/handler"
	"github.com/olegiv/navcms/internal/handler/api"
	"github.com/olegiv/navcms/internal/imaging"
	"github.com/olegiv/navcms/internal/logging"
	"github.com/olegiv/navcms/internal/middleware"
	"github.com/olegiv/navcms/internal/service"
	"github.com/olegiv/navcms/internal/store"
	"github.com/olegiv/navcms/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// publicMaxAge is the Cache-Control max-age of public API reads.
const publicMaxAge = time.Minute

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "navcms - navigation and site configuration API\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NAVCMS_DB_PATH           SQLite database path (default: ./data/navcms.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NAVCMS_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NAVCMS_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NAVCMS_UPLOADS_DIR       Directory of uploaded media (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NAVCMS_REDIS_URL         Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NAVCMS_ADMIN_API_KEY     Admin API key (min 32 bytes; empty disables admin routes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NAVCMS_DO_SEED           Seed default menus and settings (default: false)\n")
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

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func run(versionInfo version.Info) error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

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

	// Upgrade logger to also write WARN and ERROR logs to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	if cfg.DoSeed {
		if err := store.Seed(context.Background(), db); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	backend, backendName := cache.NewCache(cfg.CacheConfig(), logger)
	cacheManager := cache.NewManager(backend, backendName, cfg.CacheTTLs(), logger)
	defer func() {
		if err := cacheManager.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()

	events := service.NewEventService(db)
	navService := service.NewNavigationService(db, cacheManager, events, logger)
	settingsService := service.NewSettingsService(db, cacheManager, events, logger)
	mediaService := service.NewMediaService(db, cacheManager, imaging.NewProber(cfg.UploadsDir), events, cfg.MediaBaseURL, logger)
	configService := service.NewConfigService(navService, settingsService, mediaService, cacheManager, logger)

	apiHandler := api.NewHandler(api.Services{
		Navigation: navService,
		Settings:   settingsService,
		Media:      mediaService,
		Config:     configService,
		Events:     events,
		Cache:      cacheManager,
	}, logger)
	healthHandler := handler.NewHealthHandler(db, cacheManager, versionInfo)

	if !cfg.AdminEnabled() {
		slog.Warn("NAVCMS_ADMIN_API_KEY is not set; admin endpoints are disabled")
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.CORS(middleware.CORSConfig{AllowedOrigins: cfg.CORSOrigins}))

	if cfg.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
		limiter.Start()
		defer limiter.Stop()
		r.Use(limiter.Middleware())
		slog.Info("rate limiting enabled", "rps", cfg.RateLimit, "burst", cfg.RateBurst)
	}

	r.Use(middleware.Timeout(30 * time.Second))

	healthRoutes := func(r chi.Router) {
		r.Get("/", healthHandler.Health)
		r.Get("/simple", healthHandler.Simple)
		r.Get("/live", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
	}
	r.Route("/health", healthRoutes)
	r.Route("/api/v1/health", healthRoutes)

	r.Mount("/api/v1", apiHandler.Routes(api.RouteOptions{
		AdminKey:     cfg.AdminAPIKey,
		PublicMaxAge: publicMaxAge,
	}))

	// Serve uploaded files when media URLs point back at this server
	if prefix := strings.TrimRight(cfg.MediaBaseURL, "/"); strings.HasPrefix(prefix, "/") && prefix != "" {
		r.Handle(prefix+"/*", http.StripPrefix(prefix, uploadsHandler(cfg.UploadsDir)))
		slog.Info("serving uploads", "prefix", prefix, "dir", cfg.UploadsDir)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteError(w, http.StatusNotFound, "endpoint not found")
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

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.Short())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or a failed listener
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// uploadsHandler serves stored files without directory listings.
func uploadsHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}
