// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the shutterflow API.
// Handlers are grouped by concern (branding, templates, drafts, send) and
// receive their dependencies through the API struct.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"shutterflow/internal/cache"
	"shutterflow/internal/engine"
	"shutterflow/internal/mailer"
	"shutterflow/internal/models"
	"shutterflow/internal/session"
	"shutterflow/internal/store"
)

// maxJSONBody bounds JSON request bodies.
const maxJSONBody = 1 << 20

// TemplateRepo persists email templates. *store.TemplateStore satisfies it.
type TemplateRepo interface {
	List(photographerID uuid.UUID) ([]models.EmailTemplate, error)
	FindByID(photographerID, id uuid.UUID) (*models.EmailTemplate, error)
	FindBySlug(photographerID uuid.UUID, slug string) (*models.EmailTemplate, error)
	Create(t *models.EmailTemplate) (*models.EmailTemplate, error)
	Update(t *models.EmailTemplate) (*models.EmailTemplate, error)
	Delete(photographerID, id uuid.UUID) (bool, error)
}

// BrandingRepo persists branding profiles. *store.BrandingStore satisfies it.
type BrandingRepo interface {
	FindByPhotographer(photographerID uuid.UUID) (*models.Branding, error)
	Upsert(b *models.Branding) (*models.Branding, error)
	SetAssetURL(photographerID uuid.UUID, kind store.AssetKind, url string) (*models.Branding, error)
}

// SentLog lists recorded send attempts. *store.SentEmailStore satisfies it.
type SentLog interface {
	ListByPhotographer(photographerID uuid.UUID, limit int) ([]models.SentEmail, error)
}

// InvalidationLog records cache invalidations. *store.CacheLogStore satisfies it.
type InvalidationLog interface {
	Log(entityType string, entityID uuid.UUID, action string)
}

// DraftStore keeps composer drafts. *session.Store satisfies it.
type DraftStore interface {
	Create(ctx context.Context, d *session.Draft) (string, error)
	Get(ctx context.Context, photographerID uuid.UUID, id string) (*session.Draft, error)
	Update(ctx context.Context, d *session.Draft) error
	Delete(ctx context.Context, id string) error
}

// RenderCache is the shared cache of rendered template HTML.
// *cache.RenderCache satisfies it.
type RenderCache interface {
	Get(ctx context.Context, k cache.RenderKey) ([]byte, bool)
	Set(ctx context.Context, k cache.RenderKey, html []byte)
	InvalidateTemplate(ctx context.Context, photographerID, templateID uuid.UUID) int
	InvalidateAll(ctx context.Context) int
}

// AssetStorage stores brand images. *storage.Client satisfies it.
type AssetStorage interface {
	PutAsset(ctx context.Context, photographerID uuid.UUID, kind, contentType string, body io.Reader, size int64) (string, error)
	DeleteURL(ctx context.Context, rawURL string) error
}

// BrandingPublisher announces branding changes to every instance.
// *cache.BrandingEvents satisfies it.
type BrandingPublisher interface {
	Publish(ctx context.Context, photographerID uuid.UUID) error
}

// Sender renders and sends a template. *mailer.Service satisfies it.
type Sender interface {
	Send(ctx context.Context, req mailer.SendRequest) (*models.SentEmail, error)
}

// Deps are the API's collaborators. RenderCache, Assets, Events and
// CacheLog are optional.
type Deps struct {
	Templates   TemplateRepo
	Branding    BrandingRepo
	Sent        SentLog
	Drafts      DraftStore
	Engine      *engine.Engine
	Mailer      Sender
	RenderCache RenderCache
	Assets      AssetStorage
	Events      BrandingPublisher
	CacheLog    InvalidationLog
}

// API groups the photographer-scoped HTTP handlers.
type API struct {
	templates   TemplateRepo
	branding    BrandingRepo
	sent        SentLog
	drafts      DraftStore
	engine      *engine.Engine
	mailer      Sender
	renderCache RenderCache
	assets      AssetStorage
	events      BrandingPublisher
	cacheLog    InvalidationLog
}

// NewAPI creates the handler group.
func NewAPI(d Deps) *API {
	return &API{
		templates:   d.Templates,
		branding:    d.Branding,
		sent:        d.Sent,
		drafts:      d.Drafts,
		engine:      d.Engine,
		mailer:      d.Mailer,
		renderCache: d.RenderCache,
		assets:      d.Assets,
		events:      d.Events,
		cacheLog:    d.CacheLog,
	}
}

// errBadRequest marks request decoding failures.
var errBadRequest = errors.New("bad request")

// photographerID parses the {photographerID} URL parameter.
func photographerID(r *http.Request) (uuid.UUID, bool) {
	return uuidParam(r, "photographerID")
}

func uuidParam(r *http.Request, key string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, key))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Join(errBadRequest, err)
	}
	return nil
}

// writeJSON writes data as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("encode response failed", "error", err)
	}
}

// writeError writes a JSON error body.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeHTML writes an HTML document.
func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// serverError logs err and answers 500 without leaking details.
func serverError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	writeError(w, http.StatusInternalServerError, "Internal server error.")
}

// loadBranding returns the photographer's branding, or nil if none is
// saved yet. Rendering falls back to defaults for a nil profile.
func (a *API) loadBranding(w http.ResponseWriter, pid uuid.UUID) (*models.Branding, bool) {
	b, err := a.branding.FindByPhotographer(pid)
	if err != nil {
		serverError(w, "load branding failed", err)
		return nil, false
	}
	return b, true
}

// logInvalidation records an invalidation when a log is configured.
func (a *API) logInvalidation(entityType string, id uuid.UUID, action string) {
	if a.cacheLog != nil {
		a.cacheLog.Log(entityType, id, action)
	}
}
