// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// shutterflow API. Every route except the health check is scoped to one
// photographer.
package router

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"shutterflow/internal/handlers"
	"shutterflow/internal/middleware"
)

// HealthCheck reports whether one backing service is reachable.
type HealthCheck func(ctx context.Context) error

// New creates the configured Chi router. sendLimiter may be nil, in which
// case sends are not rate limited. checks are run by /health.
func New(api *handlers.API, sendLimiter *middleware.RateLimiter, checks map[string]HealthCheck) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler(checks))

	r.Route("/api", func(r chi.Router) {
		r.Get("/variables", handlers.Variables)
		r.Delete("/cache", api.FlushCache)

		r.Route("/photographers/{photographerID}", func(r chi.Router) {
			// Branding
			r.Get("/branding", api.GetBranding)
			r.Put("/branding", api.PutBranding)
			r.Post("/branding/assets/{kind}", api.UploadAsset)

			// Templates
			r.Route("/templates", func(r chi.Router) {
				r.Get("/", api.ListTemplates)
				r.Post("/", api.CreateTemplate)
				r.Post("/preview", api.PreviewDocument)
				r.Get("/{id}", api.GetTemplate)
				r.Put("/{id}", api.UpdateTemplate)
				r.Delete("/{id}", api.DeleteTemplate)
				r.Get("/{id}/render", api.RenderTemplate)
				r.Group(func(r chi.Router) {
					if sendLimiter != nil {
						r.Use(sendLimiter.Middleware)
					}
					r.Post("/{id}/send", api.SendTemplate)
				})
			})
			r.Get("/sent", api.ListSent)

			// Composer drafts
			r.Route("/drafts", func(r chi.Router) {
				r.Post("/", api.CreateDraft)
				r.Route("/{draftID}", func(r chi.Router) {
					r.Get("/", api.GetDraft)
					r.Delete("/", api.DeleteDraft)
					r.Post("/blocks", api.AddBlock)
					r.Put("/blocks/order", api.ReorderBlocks)
					r.Put("/blocks/{blockID}", api.UpdateBlock)
					r.Delete("/blocks/{blockID}", api.DeleteBlock)
					r.Post("/blocks/{blockID}/variables", api.InsertVariable)
					r.Put("/settings", api.UpdateSettings)
					r.Get("/preview", api.PreviewDraft)
					r.Post("/save", api.SaveDraft)
				})
			})
		})
	})

	return r
}

// healthHandler runs every check with a short timeout and answers 503 if
// any of them fails.
func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				slog.Warn("health check failed", "service", name, "error", err)
				body[name] = "down"
				body["status"] = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			body[name] = "ok"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}
}
