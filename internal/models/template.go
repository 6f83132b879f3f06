// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is the editable email content: subject, ordered blocks and the
// branding selections. It is the unit the composer mutates and the engine
// renders.
type Document struct {
	Subject          string         `json:"subject"`
	Blocks           []Block        `json:"blocks"`
	IncludeHeader    bool           `json:"includeHeader"`
	HeaderStyle      HeaderStyle    `json:"headerStyle"`
	IncludeSignature bool           `json:"includeSignature"`
	SignatureStyle   SignatureStyle `json:"signatureStyle"`
	IncludeHeroImage bool           `json:"includeHeroImage"`
	HeroImageURL     string         `json:"heroImageUrl"`
}

// Clone returns a copy of d whose block slice can be mutated independently.
func (d Document) Clone() Document {
	out := d
	out.Blocks = make([]Block, len(d.Blocks))
	copy(out.Blocks, d.Blocks)
	return out
}

// EmailTemplate is a persisted Document owned by a photographer. Version is
// incremented on every update and keys the render caches.
type EmailTemplate struct {
	ID             uuid.UUID `json:"id"`
	PhotographerID uuid.UUID `json:"photographer_id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Document
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SendStatus records the outcome of a send attempt.
type SendStatus string

const (
	SendStatusSent   SendStatus = "sent"
	SendStatusFailed SendStatus = "failed"
)

// SentEmail is the audit record of one send attempt.
type SentEmail struct {
	ID             uuid.UUID  `json:"id"`
	TemplateID     uuid.UUID  `json:"template_id"`
	PhotographerID uuid.UUID  `json:"photographer_id"`
	Recipient      string     `json:"recipient"`
	Subject        string     `json:"subject"`
	Status         SendStatus `json:"status"`
	Error          string     `json:"error,omitempty"`
	SentAt         time.Time  `json:"sent_at"`
}
