// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"shutterflow/internal/models"
)

// Validation limits for template and branding fields.
const (
	maxTemplateNameLen = 200
	maxSubjectLen      = 300
	maxBlocks          = 200
	maxBusinessNameLen = 200
	maxFieldLen        = 500
)

// hexColor matches #rgb and #rrggbb colors.
var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// validateTemplate checks template inputs and returns the first error found.
func validateTemplate(name string, doc models.Document) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Template name is required."
	}
	if utf8.RuneCountInString(name) > maxTemplateNameLen {
		return "Template name is too long (max 200 characters)."
	}
	if msg := validateDocument(doc); msg != "" {
		return msg
	}
	return ""
}

// validateDocument checks the parts of a document shared by templates and
// previews.
func validateDocument(doc models.Document) string {
	if utf8.RuneCountInString(doc.Subject) > maxSubjectLen {
		return "Subject is too long (max 300 characters)."
	}
	if len(doc.Blocks) > maxBlocks {
		return "Too many blocks (max 200)."
	}
	seen := make(map[string]bool, len(doc.Blocks))
	for _, b := range doc.Blocks {
		if b.ID == "" {
			return "Every block needs an id."
		}
		if seen[b.ID] {
			return "Block ids must be unique."
		}
		seen[b.ID] = true
	}
	return ""
}

// validateBranding checks a branding profile and returns the first error found.
func validateBranding(b *models.Branding) string {
	if utf8.RuneCountInString(b.BusinessName) > maxBusinessNameLen {
		return "Business name is too long (max 200 characters)."
	}
	for _, c := range []string{b.BrandPrimary, b.BrandSecondary} {
		if c != "" && !hexColor.MatchString(c) {
			return "Brand colors must be hex values like #1a2b3c."
		}
	}
	for _, f := range []string{b.PhotographerName, b.Phone, b.Email, b.Website, b.BusinessAddress} {
		if utf8.RuneCountInString(f) > maxFieldLen {
			return "Branding fields are limited to 500 characters."
		}
	}
	return ""
}
