// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"shutterflow/internal/mailer"
	"shutterflow/internal/models"
	"shutterflow/internal/variables"
)

// Page sizes for the sent email log.
const (
	defaultSentLimit = 50
	maxSentLimit     = 200
)

// SendTemplate renders a template with the request's values and link URLs
// and sends it to one recipient.
func (a *API) SendTemplate(w http.ResponseWriter, r *http.Request) {
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

	var req mailer.SendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed send JSON.")
		return
	}
	req.PhotographerID = pid
	req.TemplateID = id

	rec, err := a.mailer.Send(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, rec)
	case errors.Is(err, mailer.ErrTemplateNotFound):
		writeError(w, http.StatusNotFound, "Template not found.")
	case errors.Is(err, mailer.ErrInvalidParams):
		writeError(w, http.StatusBadRequest, err.Error())
	case rec != nil:
		// The attempt was made and recorded as failed.
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":      "Email could not be sent.",
			"sent_email": rec,
		})
	default:
		serverError(w, "send failed", err)
	}
}

// ListSent returns recent send attempts, newest first. ?limit= caps the
// page at 200.
func (a *API) ListSent(w http.ResponseWriter, r *http.Request) {
	pid, ok := photographerID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid photographer id.")
		return
	}

	limit := defaultSentLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer.")
			return
		}
		limit = min(n, maxSentLimit)
	}

	list, err := a.sent.ListByPhotographer(pid, limit)
	if err != nil {
		serverError(w, "list sent emails failed", err)
		return
	}
	if list == nil {
		list = []models.SentEmail{}
	}
	writeJSON(w, http.StatusOK, list)
}

// Variables returns the placeholder token catalogue for the variable
// picker.
func Variables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, variables.Catalogue)
}
