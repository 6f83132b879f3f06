// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the shutterflow email API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server and the branding watcher with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"shutterflow/internal/cache"
	"shutterflow/internal/config"
	"shutterflow/internal/database"
	"shutterflow/internal/engine"
	"shutterflow/internal/handlers"
	"shutterflow/internal/mailer"
	"shutterflow/internal/middleware"
	"shutterflow/internal/router"
	"shutterflow/internal/session"
	"shutterflow/internal/storage"
	"shutterflow/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped gracefully")
}

func run() error {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Structured logger: text in development, JSON otherwise.
	if cfg.IsDev() {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})))
	} else {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}
	slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())

	// Connect to PostgreSQL and run pending migrations.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}
	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			return err
		}
	}

	// Connect to Valkey (render cache, drafts and branding events).
	vk, err := cache.ConnectValkey(cfg.ValkeyAddr(), cfg.ValkeyPassword, cfg.ValkeyDB)
	if err != nil {
		return err
	}
	defer vk.Close()

	// Data stores.
	templateStore := store.NewTemplateStore(db)
	brandingStore := store.NewBrandingStore(db)
	sentStore := store.NewSentEmailStore(db)
	cacheLogStore := store.NewCacheLogStore(db)

	// L1 render cache lives in the engine; the L2 copy of full HTML lives in
	// Valkey and is cleared whenever the engine drops a photographer.
	eng := engine.New()
	renderCache := cache.NewRenderCache(vk, cfg.RenderCacheTTL)
	eng.OnInvalidate(func(photographerID uuid.UUID) {
		renderCache.InvalidatePhotographer(context.Background(), photographerID)
	})
	events := cache.NewBrandingEvents(vk)

	sender, err := newSender(cfg)
	if err != nil {
		return err
	}

	deps := handlers.Deps{
		Templates:   templateStore,
		Branding:    brandingStore,
		Sent:        sentStore,
		Drafts:      session.NewStore(vk, cfg.DraftTTL),
		Engine:      eng,
		Mailer:      mailer.NewService(sender, eng, templateStore, brandingStore, sentStore),
		RenderCache: renderCache,
		Events:      events,
		CacheLog:    cacheLogStore,
	}

	// S3-compatible asset storage is optional; uploads answer 503 without it.
	assets, err := storage.New(storage.Options{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		return err
	}
	if assets != nil {
		deps.Assets = assets
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, brand asset uploads disabled")
	}

	sendLimiter := middleware.NewRateLimiter(cfg.SendRateLimit, time.Minute, middleware.ByURLParam("photographerID"))
	defer sendLimiter.Stop()

	r := router.New(handlers.NewAPI(deps), sendLimiter, map[string]router.HealthCheck{
		"postgres": db.PingContext,
		"valkey":   func(ctx context.Context) error { return vk.Ping(ctx).Err() },
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return eng.Watch(gctx, events)
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		// Give active requests up to 30 seconds to complete.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newSender returns the Postmark client when both tokens are configured and
// a sender that writes mail to disk otherwise.
func newSender(cfg *config.Config) (mailer.EmailSender, error) {
	if !cfg.PostmarkEnabled() {
		slog.Warn("postmark not configured, writing mail to disk", "dir", cfg.DevMailDir)
		return mailer.NewDevSender(cfg.DevMailDir), nil
	}
	return mailer.NewPostmarkClient(mailer.Config{
		PostmarkServerToken:  cfg.PostmarkServerToken,
		PostmarkAccountToken: cfg.PostmarkAccountToken,
		SenderEmail:          cfg.SenderEmail,
		SupportEmail:         cfg.SupportEmail,
	})
}
