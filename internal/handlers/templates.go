// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"shutterflow/internal/cache"
	"shutterflow/internal/models"
	"shutterflow/internal/slug"
	"shutterflow/internal/store"
)

// ListTemplates returns the photographer's templates.
func (a *API) ListTemplates(w http.ResponseWriter, r *http.Request) {
	pid, ok := photographerID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid photographer id.")
		return
	}
	list, err := a.templates.List(pid)
	if err != nil {
		serverError(w, "list templates failed", err)
		return
	}
	if list == nil {
		list = []models.EmailTemplate{}
	}
	writeJSON(w, http.StatusOK, list)
}

// GetTemplate returns one template.
func (a *API) GetTemplate(w http.ResponseWriter, r *http.Request) {
	tmpl, ok := a.templateFromURL(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, tmpl)
}

// CreateTemplate stores a new template. The slug defaults to the name and
// is made unique per photographer.
func (a *API) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	pid, ok := photographerID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid photographer id.")
		return
	}

	var in models.EmailTemplate
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed template JSON.")
		return
	}
	if msg := validateTemplate(in.Name, in.Document); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := a.createTemplate(pid, in.Name, in.Slug, in.Document)
	if err != nil {
		serverError(w, "create template failed", err)
		return
	}
	a.logInvalidation(store.EntityTemplate, created.ID, store.ActionCreate)
	writeJSON(w, http.StatusCreated, created)
}

// UpdateTemplate replaces a template's name and document. Cached renders
// of the template are dropped.
func (a *API) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	existing, ok := a.templateFromURL(w, r)
	if !ok {
		return
	}

	var in models.EmailTemplate
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed template JSON.")
		return
	}
	if msg := validateTemplate(in.Name, in.Document); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := a.updateTemplate(r.Context(), existing, in.Name, in.Slug, in.Document)
	if err != nil {
		serverError(w, "update template failed", err)
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "Template not found.")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteTemplate removes a template and its cached renders.
func (a *API) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	pid, ok := photographerID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid photographer id.")
		return
	}
	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Template not found.")
		return
	}

	deleted, err := a.templates.Delete(pid, id)
	if err != nil {
		serverError(w, "delete template failed", err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Template not found.")
		return
	}

	a.invalidateTemplate(r.Context(), pid, id, store.ActionDelete)
	w.WriteHeader(http.StatusNoContent)
}

// RenderTemplate returns the authoritative email HTML for a template with
// placeholder tokens left in place. Renders are served from the shared
// cache when possible.
func (a *API) RenderTemplate(w http.ResponseWriter, r *http.Request) {
	tmpl, ok := a.templateFromURL(w, r)
	if !ok {
		return
	}
	brand, ok := a.loadBranding(w, tmpl.PhotographerID)
	if !ok {
		return
	}

	key := cache.RenderKey{
		PhotographerID: tmpl.PhotographerID,
		TemplateID:     tmpl.ID,
		Version:        tmpl.Version,
	}
	if brand != nil {
		key.BrandingVersion = brand.Version
	}

	ctx := r.Context()
	if a.renderCache != nil {
		if body, hit := a.renderCache.Get(ctx, key); hit {
			w.Header().Set("X-Cache", "HIT")
			writeHTML(w, body)
			return
		}
	}

	out, err := a.engine.RenderTemplate(tmpl, brand)
	if err != nil {
		serverError(w, "render template failed", err)
		return
	}
	body := []byte(out.HTML)
	if a.renderCache != nil {
		a.renderCache.Set(ctx, key, body)
	}
	w.Header().Set("X-Cache", "MISS")
	writeHTML(w, body)
}

// FlushCache drops every cached render, in memory and in Valkey. Used after
// a deploy that changes rendered markup.
func (a *API) FlushCache(w http.ResponseWriter, r *http.Request) {
	a.engine.InvalidateAll()
	n := 0
	if a.renderCache != nil {
		n = a.renderCache.InvalidateAll(r.Context())
	}
	slog.Info("render caches flushed", "shared_entries", n)
	writeJSON(w, http.StatusOK, map[string]int{"flushed": n})
}

// PreviewDocument renders an unsaved document for the in-app preview pane,
// with the preview sanitization policy applied.
func (a *API) PreviewDocument(w http.ResponseWriter, r *http.Request) {
	pid, ok := photographerID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid photographer id.")
		return
	}

	var doc models.Document
	if err := decodeJSON(w, r, &doc); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed document JSON.")
		return
	}
	if msg := validateDocument(doc); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	a.writePreview(w, pid, doc)
}

func (a *API) writePreview(w http.ResponseWriter, pid uuid.UUID, doc models.Document) {
	brand, ok := a.loadBranding(w, pid)
	if !ok {
		return
	}
	out, err := a.engine.Preview(doc, brand)
	if err != nil {
		serverError(w, "preview failed", err)
		return
	}
	writeHTML(w, []byte(out.HTML))
}

// templateFromURL loads the template named by {photographerID} and {id},
// writing 400/404/500 itself when it cannot.
func (a *API) templateFromURL(w http.ResponseWriter, r *http.Request) (*models.EmailTemplate, bool) {
	pid, ok := photographerID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid photographer id.")
		return nil, false
	}
	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Template not found.")
		return nil, false
	}
	tmpl, err := a.templates.FindByID(pid, id)
	if err != nil {
		serverError(w, "find template failed", err)
		return nil, false
	}
	if tmpl == nil {
		writeError(w, http.StatusNotFound, "Template not found.")
		return nil, false
	}
	return tmpl, true
}

func (a *API) createTemplate(pid uuid.UUID, name, requestedSlug string, doc models.Document) (*models.EmailTemplate, error) {
	s, err := a.uniqueSlug(pid, slugSource(name, requestedSlug), uuid.Nil)
	if err != nil {
		return nil, err
	}
	return a.templates.Create(&models.EmailTemplate{
		PhotographerID: pid,
		Name:           strings.TrimSpace(name),
		Slug:           s,
		Document:       doc,
	})
}

// updateTemplate saves new content over existing. An empty requested slug
// keeps the current one. Returns nil if the template vanished meanwhile.
func (a *API) updateTemplate(ctx context.Context, existing *models.EmailTemplate, name, requestedSlug string, doc models.Document) (*models.EmailTemplate, error) {
	s := existing.Slug
	if requestedSlug != "" && slug.Generate(requestedSlug) != existing.Slug {
		var err error
		s, err = a.uniqueSlug(existing.PhotographerID, slugSource(name, requestedSlug), existing.ID)
		if err != nil {
			return nil, err
		}
	}

	updated, err := a.templates.Update(&models.EmailTemplate{
		ID:             existing.ID,
		PhotographerID: existing.PhotographerID,
		Name:           strings.TrimSpace(name),
		Slug:           s,
		Document:       doc,
	})
	if err != nil || updated == nil {
		return updated, err
	}
	a.invalidateTemplate(ctx, existing.PhotographerID, existing.ID, store.ActionUpdate)
	return updated, nil
}

// invalidateTemplate drops every cached render of one template.
func (a *API) invalidateTemplate(ctx context.Context, pid, id uuid.UUID, action string) {
	a.engine.InvalidateTemplate(id)
	if a.renderCache != nil {
		a.renderCache.InvalidateTemplate(ctx, pid, id)
	}
	a.logInvalidation(store.EntityTemplate, id, action)
}

// uniqueSlug returns base, suffixed if another template of the
// photographer (other than self) already uses it.
func (a *API) uniqueSlug(pid uuid.UUID, base string, self uuid.UUID) (string, error) {
	var lookupErr error
	s := slug.Unique(base, func(candidate string) bool {
		if lookupErr != nil {
			return false
		}
		t, err := a.templates.FindBySlug(pid, candidate)
		if err != nil {
			lookupErr = err
			return false
		}
		return t != nil && t.ID != self
	})
	return s, lookupErr
}

func slugSource(name, requested string) string {
	if requested != "" {
		return slug.GenerateOr(requested, "template")
	}
	return slug.GenerateOr(name, "template")
}
