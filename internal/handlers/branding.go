// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"shutterflow/internal/models"
	"shutterflow/internal/storage"
	"shutterflow/internal/store"
)

// GetBranding returns the photographer's branding profile. A photographer
// without a saved profile gets an empty one at version 0.
func (a *API) GetBranding(w http.ResponseWriter, r *http.Request) {
	pid, ok := photographerID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid photographer id.")
		return
	}
	b, ok := a.loadBranding(w, pid)
	if !ok {
		return
	}
	if b == nil {
		b = &models.Branding{PhotographerID: pid}
	}
	writeJSON(w, http.StatusOK, b)
}

// PutBranding creates or replaces the branding profile and announces the
// change so cached renders are dropped everywhere.
func (a *API) PutBranding(w http.ResponseWriter, r *http.Request) {
	pid, ok := photographerID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid photographer id.")
		return
	}

	var in models.Branding
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed branding JSON.")
		return
	}
	in.PhotographerID = pid
	if msg := validateBranding(&in); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	saved, err := a.branding.Upsert(&in)
	if err != nil {
		serverError(w, "upsert branding failed", err)
		return
	}

	a.announceBranding(r.Context(), pid, store.ActionUpdate)
	writeJSON(w, http.StatusOK, saved)
}

// UploadAsset stores a logo or headshot image and points the profile at it.
// The previous image is removed from storage on a best-effort basis.
func (a *API) UploadAsset(w http.ResponseWriter, r *http.Request) {
	if a.assets == nil {
		writeError(w, http.StatusServiceUnavailable, "Object storage is not configured.")
		return
	}
	pid, ok := photographerID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid photographer id.")
		return
	}
	kind := store.AssetKind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		writeError(w, http.StatusBadRequest, "Asset kind must be logo or headshot.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxAssetSize+1024)
	if err := r.ParseMultipartForm(storage.MaxAssetSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 5 MB.")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		serverError(w, "read asset failed", err)
		return
	}
	if len(data) > storage.MaxAssetSize {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 5 MB.")
		return
	}
	contentType := detectImageType(header.Filename, data)

	previous, ok := a.loadBranding(w, pid)
	if !ok {
		return
	}

	ctx := r.Context()
	url, err := a.assets.PutAsset(ctx, pid, string(kind), contentType, bytes.NewReader(data), int64(len(data)))
	if errors.Is(err, storage.ErrUnsupportedType) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("File type %q is not allowed.", contentType))
		return
	}
	if err != nil {
		serverError(w, "asset upload failed", err)
		return
	}

	saved, err := a.branding.SetAssetURL(pid, kind, url)
	if err != nil {
		serverError(w, "set asset url failed", err)
		return
	}

	if previous != nil {
		old := previous.LogoURL
		if kind == store.AssetHeadshot {
			old = previous.HeadshotURL
		}
		if old != "" && old != url {
			if err := a.assets.DeleteURL(ctx, old); err != nil {
				slog.Warn("delete previous asset failed", "url", old, "error", err)
			}
		}
	}

	a.announceBranding(ctx, pid, store.ActionAsset)
	writeJSON(w, http.StatusCreated, saved)
}

// announceBranding logs the invalidation and publishes the change. If no
// publisher is configured or publishing fails, the local engine is
// invalidated directly.
func (a *API) announceBranding(ctx context.Context, pid uuid.UUID, action string) {
	a.logInvalidation(store.EntityBranding, pid, action)

	if a.events != nil {
		err := a.events.Publish(ctx, pid)
		if err == nil {
			return
		}
		slog.Warn("publish branding change failed", "photographer", pid, "error", err)
	}
	a.engine.Invalidate(pid)
}

// detectImageType sniffs the content type. SVG is recognized by extension
// since sniffing reports it as XML or text.
func detectImageType(filename string, data []byte) string {
	contentType := http.DetectContentType(data)
	if strings.HasSuffix(strings.ToLower(filename), ".svg") &&
		(strings.Contains(contentType, "xml") || strings.Contains(contentType, "text/plain")) {
		return "image/svg+xml"
	}
	return contentType
}
