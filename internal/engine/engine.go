// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engine is the email content pipeline. It turns a Document and a
// branding snapshot into the complete email HTML: wrapper, optional branded
// header, optional hero image, the rendered blocks and the optional branded
// signature. Placeholder tokens pass through untouched; substitution happens
// later, at send time.
//
// Rendering itself is a pure function of its inputs. The Engine adds an L1
// cache for persisted templates and a watcher that drops cached renders when
// a photographer's branding changes.
package engine

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"shutterflow/internal/blocks"
	"shutterflow/internal/branding"
	"shutterflow/internal/models"
	"shutterflow/internal/sanitize"
	"shutterflow/internal/variables"
)

// Output is a rendered email.
type Output struct {
	Subject string          `json:"subject"`
	HTML    models.Fragment `json:"html"`
	// Tokens lists the placeholder tokens left in Subject and HTML, in
	// order of first appearance.
	Tokens []string `json:"tokens"`
}

// Subscriber delivers the ids of photographers whose branding changed. The
// channel is closed when the subscription ends.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan uuid.UUID, error)
}

// Engine renders documents and caches renders of persisted templates.
type Engine struct {
	cache *renderCache

	mu    sync.RWMutex
	hooks []func(photographerID uuid.UUID)
}

// New creates an engine with an empty L1 cache.
func New() *Engine {
	return &Engine{cache: newRenderCache()}
}

// OnInvalidate registers fn to run whenever a photographer's renders are
// invalidated, after the L1 entries are dropped. Used to clear outer caches.
func (e *Engine) OnInvalidate(fn func(photographerID uuid.UUID)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hooks = append(e.hooks, fn)
}

// Render renders doc as a complete email using the brand snapshot (may be
// nil). Unknown block types and unknown branding styles are skipped.
func (e *Engine) Render(doc models.Document, brand *models.Branding) (Output, error) {
	return e.render(doc, brand, sanitize.Raw)
}

// render builds the full email and applies policy to the HTML.
func (e *Engine) render(doc models.Document, brand *models.Branding, policy sanitize.Policy) (Output, error) {
	body, err := e.RenderBody(doc, brand)
	if err != nil {
		return Output{}, err
	}

	var sb strings.Builder
	sb.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8" />`)
	sb.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1.0" />`)
	sb.WriteString(`<title>`)
	sb.WriteString(html.EscapeString(doc.Subject))
	sb.WriteString(`</title></head>`)
	sb.WriteString(`<body style="margin: 0; padding: 0; background-color: #f4f4f5;">`)
	sb.WriteString(`<table role="presentation" width="100%" cellpadding="0" cellspacing="0" border="0" style="background-color: #f4f4f5;"><tr><td align="center" style="padding: 24px 12px;">`)
	sb.WriteString(`<table role="presentation" width="600" cellpadding="0" cellspacing="0" border="0" style="max-width: 600px; width: 100%; background-color: #ffffff; border-radius: 8px;"><tr>`)
	sb.WriteString(`<td style="padding: 32px; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Helvetica, Arial, sans-serif;">`)
	sb.WriteString(string(body))
	sb.WriteString(`</td></tr></table></td></tr></table></body></html>`)

	out := Output{Subject: doc.Subject, HTML: policy.Apply(models.Fragment(sb.String()))}
	slog.Debug("email rendered", "policy", policy.Name(), "blocks", len(doc.Blocks))
	out.Tokens = variables.Extract(out.Subject + "\n" + string(out.HTML))
	return out, nil
}

// RenderBody renders the inner content of doc without the email wrapper:
// header, hero image, blocks and signature, in that order.
func (e *Engine) RenderBody(doc models.Document, brand *models.Branding) (models.Fragment, error) {
	var sb strings.Builder

	if doc.IncludeHeader {
		header, err := branding.RenderHeader(doc.HeaderStyle, brand)
		if err := skippable(err, "header", string(doc.HeaderStyle)); err != nil {
			return "", err
		}
		sb.WriteString(string(header))
	}

	if doc.IncludeHeroImage && doc.HeroImageURL != "" {
		sb.WriteString(`<div style="margin: 0 0 24px 0;"><img src="`)
		sb.WriteString(doc.HeroImageURL)
		sb.WriteString(`" alt="" style="width: 100%; max-width: 100%; height: auto; border-radius: 8px; display: block;" /></div>`)
	}

	sb.WriteString(string(blocks.New(brand).RenderAll(doc.Blocks)))

	if doc.IncludeSignature {
		sig, err := branding.RenderSignature(doc.SignatureStyle, brand)
		if err := skippable(err, "signature", string(doc.SignatureStyle)); err != nil {
			return "", err
		}
		sb.WriteString(string(sig))
	}

	return models.Fragment(sb.String()), nil
}

// Preview renders doc for display inside the app, with the preview
// sanitization policy applied.
func (e *Engine) Preview(doc models.Document, brand *models.Branding) (Output, error) {
	return e.render(doc, brand, sanitize.Preview)
}

// RenderTemplate renders a persisted template. Results are cached by
// template id and version plus branding version.
func (e *Engine) RenderTemplate(tmpl *models.EmailTemplate, brand *models.Branding) (Output, error) {
	if tmpl == nil {
		return Output{}, errors.New("render template: nil template")
	}

	k := cacheKey{
		photographer: tmpl.PhotographerID,
		template:     tmpl.ID,
		version:      tmpl.Version,
	}
	if brand != nil {
		k.brandVersion = brand.Version
	}

	if out, ok := e.cache.get(k); ok {
		slog.Debug("render cache hit", "template", tmpl.ID, "version", tmpl.Version)
		return out, nil
	}

	out, err := e.Render(tmpl.Document, brand)
	if err != nil {
		return Output{}, fmt.Errorf("render template %s: %w", tmpl.ID, err)
	}
	e.cache.put(k, out)
	return out, nil
}

// InvalidateTemplate drops cached renders of one template. Called after
// the template is updated or deleted.
func (e *Engine) InvalidateTemplate(id uuid.UUID) {
	e.cache.invalidateTemplate(id)
}

// Invalidate drops every cached render for a photographer and runs the
// registered hooks.
func (e *Engine) Invalidate(photographerID uuid.UUID) {
	e.cache.invalidatePhotographer(photographerID)

	e.mu.RLock()
	hooks := append([]func(uuid.UUID){}, e.hooks...)
	e.mu.RUnlock()
	for _, fn := range hooks {
		fn(photographerID)
	}
}

// InvalidateAll clears the L1 cache.
func (e *Engine) InvalidateAll() {
	e.cache.invalidateAll()
}

// Watch invalidates cached renders each time sub reports a branding change.
// It blocks until ctx is cancelled or the subscription ends. Renders are
// rebuilt lazily on the next request.
func (e *Engine) Watch(ctx context.Context, sub Subscriber) error {
	events, err := sub.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe to branding changes: %w", err)
	}
	slog.Info("branding watcher started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case id, ok := <-events:
			if !ok {
				slog.Info("branding watcher stopped")
				return nil
			}
			slog.Debug("branding changed", "photographer", id)
			e.Invalidate(id)
		}
	}
}

// skippable logs and swallows unknown-style errors so that a bad style
// name only drops its own fragment.
func skippable(err error, part, style string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, branding.ErrUnknownStyle) {
		slog.Warn("branding part skipped", "part", part, "style", style, "error", err)
		return nil
	}
	return fmt.Errorf("render %s: %w", part, err)
}
