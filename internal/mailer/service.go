// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mailer

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"

	"github.com/google/uuid"

	"shutterflow/internal/engine"
	"shutterflow/internal/models"
	"shutterflow/internal/variables"
)

// ErrTemplateNotFound is returned when the template to send does not exist
// or belongs to another photographer.
var ErrTemplateNotFound = errors.New("template not found")

// TemplateSource loads persisted templates. *store.TemplateStore satisfies it.
type TemplateSource interface {
	FindByID(photographerID, id uuid.UUID) (*models.EmailTemplate, error)
}

// BrandingSource loads branding profiles. *store.BrandingStore satisfies it.
type BrandingSource interface {
	FindByPhotographer(photographerID uuid.UUID) (*models.Branding, error)
}

// SendLog records send attempts. *store.SentEmailStore satisfies it.
type SendLog interface {
	Create(e *models.SentEmail) error
}

// Links carries the resolved URLs behind the link tokens.
type Links struct {
	SmartFile string `json:"smart_file"`
	Gallery   string `json:"gallery"`
	Calendar  string `json:"calendar"`
}

// SendRequest asks for one template to be rendered and sent to one client.
type SendRequest struct {
	PhotographerID uuid.UUID         `json:"-"`
	TemplateID     uuid.UUID         `json:"-"`
	To             string            `json:"to"`
	Values         map[string]string `json:"values"`
	Links          Links             `json:"links"`
}

// Service renders templates with the engine and delivers them.
type Service struct {
	sender    EmailSender
	engine    *engine.Engine
	templates TemplateSource
	branding  BrandingSource
	log       SendLog
}

// NewService creates a send service.
func NewService(sender EmailSender, eng *engine.Engine, templates TemplateSource, branding BrandingSource, log SendLog) *Service {
	return &Service{sender: sender, engine: eng, templates: templates, branding: branding, log: log}
}

// Send renders the template, fills in the request's values and sends it.
// Every attempt that reaches the sender is recorded, including failures.
func (s *Service) Send(ctx context.Context, req SendRequest) (*models.SentEmail, error) {
	tmpl, err := s.templates.FindByID(req.PhotographerID, req.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}
	if tmpl == nil {
		return nil, ErrTemplateNotFound
	}

	brand, err := s.branding.FindByPhotographer(req.PhotographerID)
	if err != nil {
		return nil, fmt.Errorf("load branding: %w", err)
	}

	out, err := s.engine.RenderTemplate(tmpl, brand)
	if err != nil {
		return nil, err
	}

	values := Values(req, brand)
	subject := variables.Substitute(out.Subject, values)
	body := variables.Substitute(string(out.HTML), escapeValues(values))

	if missing := variables.Missing(subject+"\n"+body, values); len(missing) > 0 {
		slog.Warn("sending with unresolved variables",
			"template", tmpl.ID,
			"tokens", missing,
		)
	}

	params := SendEmailParams{
		SendTo:   req.To,
		Subject:  subject,
		BodyHTML: body,
		Tag:      tmpl.Slug,
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	record := &models.SentEmail{
		TemplateID:     tmpl.ID,
		PhotographerID: req.PhotographerID,
		Recipient:      req.To,
		Subject:        subject,
		Status:         models.SendStatusSent,
	}

	sendErr := s.sender.SendEmail(ctx, params)
	if sendErr != nil {
		record.Status = models.SendStatusFailed
		record.Error = sendErr.Error()
	}

	if err := s.log.Create(record); err != nil {
		slog.Warn("failed to record sent email", "template", tmpl.ID, "error", err)
	}

	if sendErr != nil {
		slog.Error("email send failed", "template", tmpl.ID, "to", req.To, "error", sendErr)
		return record, sendErr
	}
	slog.Info("email sent", "template", tmpl.ID, "to", req.To)
	return record, nil
}

// Values builds the substitution map for a request. Business and
// photographer names default to the branding profile; explicit values win.
// Link URLs fill the link tokens.
func Values(req SendRequest, brand *models.Branding) map[string]string {
	values := make(map[string]string, len(req.Values)+5)
	if brand != nil {
		if brand.BusinessName != "" {
			values["business_name"] = brand.BusinessName
		}
		if brand.PhotographerName != "" {
			values["photographer_name"] = brand.PhotographerName
		}
	}
	for k, v := range req.Values {
		values[k] = v
	}

	links := map[string]string{
		"smart_file_link": req.Links.SmartFile,
		"gallery_link":    req.Links.Gallery,
		"calendar_link":   req.Links.Calendar,
	}
	for k, v := range links {
		if v != "" {
			values[k] = v
		}
	}

	if _, ok := values["client_name"]; !ok {
		first, last := values["first_name"], values["last_name"]
		switch {
		case first != "" && last != "":
			values["client_name"] = first + " " + last
		case first != "":
			values["client_name"] = first
		}
	}
	return values
}

// escapeValues returns a copy of values with HTML special characters
// escaped, for substitution into markup.
func escapeValues(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = html.EscapeString(v)
	}
	return out
}
