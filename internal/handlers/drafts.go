// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"shutterflow/internal/branding"
	"shutterflow/internal/composer"
	"shutterflow/internal/models"
	"shutterflow/internal/session"
	"shutterflow/internal/store"
)

// draftResponse is the body returned by every draft mutation.
type draftResponse struct {
	Draft *session.Draft `json:"draft"`
	Block *models.Block  `json:"block,omitempty"`
	Caret *int           `json:"caret,omitempty"`
}

// CreateDraft starts an editing session, empty or seeded from a template.
func (a *API) CreateDraft(w http.ResponseWriter, r *http.Request) {
	pid, ok := photographerID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid photographer id.")
		return
	}

	var in struct {
		TemplateID *uuid.UUID `json:"template_id"`
	}
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "Malformed draft JSON.")
			return
		}
	}

	d := &session.Draft{PhotographerID: pid, Document: composer.New().Document()}
	if in.TemplateID != nil {
		tmpl, err := a.templates.FindByID(pid, *in.TemplateID)
		if err != nil {
			serverError(w, "find template failed", err)
			return
		}
		if tmpl == nil {
			writeError(w, http.StatusNotFound, "Template not found.")
			return
		}
		d.TemplateID = &tmpl.ID
		d.Document = tmpl.Document.Clone()
	}

	if _, err := a.drafts.Create(r.Context(), d); err != nil {
		serverError(w, "create draft failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, draftResponse{Draft: d})
}

// GetDraft returns a draft.
func (a *API) GetDraft(w http.ResponseWriter, r *http.Request) {
	d, ok := a.draftFromURL(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, draftResponse{Draft: d})
}

// DeleteDraft discards a draft.
func (a *API) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	d, ok := a.draftFromURL(w, r)
	if !ok {
		return
	}
	if err := a.drafts.Delete(r.Context(), d.ID); err != nil {
		serverError(w, "delete draft failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddBlock appends a block of the requested type with default content,
// or inserts it at index when one is given.
func (a *API) AddBlock(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Type  models.BlockType `json:"type"`
		Index *int             `json:"index"`
	}
	a.mutateDraft(w, r, &in, http.StatusCreated, func(c *composer.Composer, resp *draftResponse) error {
		b, err := c.Add(in.Type)
		if err != nil {
			return errors.Join(errBadRequest, err)
		}
		if in.Index != nil {
			to := min(max(*in.Index, 0), c.Len()-1)
			if err := c.Move(c.Len()-1, to); err != nil {
				return err
			}
		}
		resp.Block = &b
		return nil
	})
}

// ReorderBlocks replaces the block order. The ids must be a permutation of
// the draft's blocks.
func (a *API) ReorderBlocks(w http.ResponseWriter, r *http.Request) {
	var in struct {
		IDs []string `json:"ids"`
	}
	a.mutateDraft(w, r, &in, http.StatusOK, func(c *composer.Composer, _ *draftResponse) error {
		return c.Reorder(in.IDs)
	})
}

// UpdateBlock replaces a block's content. For spacers, a size label may be
// sent instead of content and sets the height to match.
func (a *API) UpdateBlock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "blockID")
	var in struct {
		Content    json.RawMessage    `json:"content"`
		SpacerSize *models.SpacerSize `json:"spacer_size"`
	}
	a.mutateDraft(w, r, &in, http.StatusOK, func(c *composer.Composer, resp *draftResponse) error {
		b, found := c.Get(id)
		if !found {
			return composer.ErrBlockNotFound
		}
		if len(in.Content) > 0 {
			content, err := models.DecodeContent(b.Type, in.Content)
			if err != nil {
				return errors.Join(errBadRequest, err)
			}
			if err := c.Update(id, content); err != nil {
				return err
			}
		}
		if in.SpacerSize != nil {
			if err := c.SetSpacerSize(id, *in.SpacerSize); err != nil {
				return err
			}
		}
		b, _ = c.Get(id)
		resp.Block = &b
		return nil
	})
}

// DeleteBlock removes a block from the draft.
func (a *API) DeleteBlock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "blockID")
	a.mutateDraft(w, r, nil, http.StatusOK, func(c *composer.Composer, _ *draftResponse) error {
		return c.Delete(id)
	})
}

// InsertVariable splices a token into a block's text at the caret and
// returns the caret after the token. Tokens outside the catalogue are
// accepted and left for send-time substitution to report.
func (a *API) InsertVariable(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "blockID")
	var in struct {
		Token string `json:"token"`
		Caret int    `json:"caret"`
	}
	a.mutateDraft(w, r, &in, http.StatusOK, func(c *composer.Composer, resp *draftResponse) error {
		if in.Token == "" {
			return errors.Join(errBadRequest, errors.New("token is required"))
		}
		caret, err := c.InsertVariable(id, in.Caret, in.Token)
		if err != nil {
			return err
		}
		b, _ := c.Get(id)
		resp.Block = &b
		resp.Caret = &caret
		return nil
	})
}

// draftSettings is a partial update of the document settings and dialog
// state. Absent fields are left unchanged.
type draftSettings struct {
	Subject          *string                `json:"subject"`
	IncludeHeader    *bool                  `json:"include_header"`
	HeaderStyle      *models.HeaderStyle    `json:"header_style"`
	IncludeSignature *bool                  `json:"include_signature"`
	SignatureStyle   *models.SignatureStyle `json:"signature_style"`
	IncludeHeroImage *bool                  `json:"include_hero_image"`
	HeroImageURL     *string                `json:"hero_image_url"`
	OpenPicker       *composer.Picker       `json:"open_picker"`
	ClosePicker      *composer.Picker       `json:"close_picker"`
}

// UpdateSettings applies subject, branding and hero changes and opens or
// closes the branding pickers.
func (a *API) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var in draftSettings
	a.mutateDraft(w, r, &in, http.StatusOK, func(c *composer.Composer, _ *draftResponse) error {
		doc := c.Document()
		if in.Subject != nil {
			c.SetSubject(*in.Subject)
		}
		if in.IncludeHeader != nil || in.HeaderStyle != nil {
			include, style := doc.IncludeHeader, doc.HeaderStyle
			if in.IncludeHeader != nil {
				include = *in.IncludeHeader
			}
			if in.HeaderStyle != nil {
				style = *in.HeaderStyle
			}
			if err := c.SetHeader(include, style); err != nil {
				return errors.Join(errBadRequest, err)
			}
		}
		if in.IncludeSignature != nil || in.SignatureStyle != nil {
			include, style := doc.IncludeSignature, doc.SignatureStyle
			if in.IncludeSignature != nil {
				include = *in.IncludeSignature
			}
			if in.SignatureStyle != nil {
				style = *in.SignatureStyle
			}
			if err := c.SetSignature(include, style); err != nil {
				return errors.Join(errBadRequest, err)
			}
		}
		if in.IncludeHeroImage != nil || in.HeroImageURL != nil {
			include, url := doc.IncludeHeroImage, doc.HeroImageURL
			if in.IncludeHeroImage != nil {
				include = *in.IncludeHeroImage
			}
			if in.HeroImageURL != nil {
				url = *in.HeroImageURL
			}
			c.SetHero(include, url)
		}
		for _, p := range []*composer.Picker{in.OpenPicker, in.ClosePicker} {
			if p != nil && *p != composer.PickerHeader && *p != composer.PickerSignature {
				return errors.Join(errBadRequest, errors.New("unknown picker"))
			}
		}
		if in.OpenPicker != nil {
			c.OpenPicker(*in.OpenPicker)
		}
		if in.ClosePicker != nil {
			c.ClosePicker(*in.ClosePicker)
		}
		return nil
	})
}

// PreviewDraft renders the draft for the preview pane.
func (a *API) PreviewDraft(w http.ResponseWriter, r *http.Request) {
	d, ok := a.draftFromURL(w, r)
	if !ok {
		return
	}
	a.writePreview(w, d.PhotographerID, d.Document)
}

// SaveDraft persists the draft as a template: a new one the first time,
// then the same template on later saves. The draft stays open.
func (a *API) SaveDraft(w http.ResponseWriter, r *http.Request) {
	d, ok := a.draftFromURL(w, r)
	if !ok {
		return
	}

	var in struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed save JSON.")
		return
	}

	var existing *models.EmailTemplate
	if d.TemplateID != nil {
		var err error
		existing, err = a.templates.FindByID(d.PhotographerID, *d.TemplateID)
		if err != nil {
			serverError(w, "find template failed", err)
			return
		}
	}
	name := in.Name
	if name == "" && existing != nil {
		name = existing.Name
	}
	if msg := validateTemplate(name, d.Document); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var (
		saved  *models.EmailTemplate
		err    error
		status = http.StatusOK
	)
	if existing != nil {
		saved, err = a.updateTemplate(r.Context(), existing, name, in.Slug, d.Document)
	}
	if existing == nil || (err == nil && saved == nil) {
		saved, err = a.createTemplate(d.PhotographerID, name, in.Slug, d.Document)
		status = http.StatusCreated
		if err == nil {
			a.logInvalidation(store.EntityTemplate, saved.ID, store.ActionCreate)
		}
	}
	if err != nil {
		serverError(w, "save draft failed", err)
		return
	}

	d.TemplateID = &saved.ID
	if err := a.drafts.Update(r.Context(), d); err != nil {
		writeDraftUpdateError(w, err)
		return
	}
	writeJSON(w, status, saved)
}

// draftFromURL loads the draft named by {draftID} for {photographerID}.
func (a *API) draftFromURL(w http.ResponseWriter, r *http.Request) (*session.Draft, bool) {
	pid, ok := photographerID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid photographer id.")
		return nil, false
	}
	d, err := a.drafts.Get(r.Context(), pid, chi.URLParam(r, "draftID"))
	if err != nil {
		serverError(w, "load draft failed", err)
		return nil, false
	}
	if d == nil {
		writeError(w, http.StatusNotFound, "Draft not found.")
		return nil, false
	}
	return d, true
}

// mutateDraft decodes the request into in (if non-nil), loads the draft,
// applies fn to a composer over it and stores the result. Composer errors
// map to 400, 404 and 409.
func (a *API) mutateDraft(w http.ResponseWriter, r *http.Request, in any, status int, fn func(*composer.Composer, *draftResponse) error) {
	if in != nil {
		if err := decodeJSON(w, r, in); err != nil {
			writeError(w, http.StatusBadRequest, "Malformed request JSON.")
			return
		}
	}
	d, ok := a.draftFromURL(w, r)
	if !ok {
		return
	}

	c := composer.FromDocument(d.Document)
	for _, p := range d.OpenPickers {
		c.OpenPicker(composer.Picker(p))
	}

	resp := draftResponse{Draft: d}
	if err := fn(c, &resp); err != nil {
		writeComposerError(w, err)
		return
	}

	d.Document = c.Document()
	d.OpenPickers = d.OpenPickers[:0]
	for _, p := range c.OpenPickers() {
		d.OpenPickers = append(d.OpenPickers, string(p))
	}
	if err := a.drafts.Update(r.Context(), d); err != nil {
		writeDraftUpdateError(w, err)
		return
	}
	writeJSON(w, status, resp)
}

func writeDraftUpdateError(w http.ResponseWriter, err error) {
	if errors.Is(err, session.ErrConflict) {
		writeError(w, http.StatusConflict, "Draft was changed by another request. Reload it and retry.")
		return
	}
	serverError(w, "update draft failed", err)
}

func writeComposerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, composer.ErrBlockNotFound):
		writeError(w, http.StatusNotFound, "Block not found.")
	case errors.Is(err, composer.ErrInvalidOrder):
		writeError(w, http.StatusConflict, "Block ids must be a permutation of the draft's blocks.")
	case errors.Is(err, composer.ErrContentMismatch),
		errors.Is(err, composer.ErrNotEditable),
		errors.Is(err, branding.ErrUnknownStyle),
		errors.Is(err, errBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		serverError(w, "draft mutation failed", err)
	}
}
