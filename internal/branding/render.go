// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package branding renders the photographer's branded email header and
// signature. Every style is a fixed html/template filled from a Branding
// snapshot; missing optional fields either fall back to a documented default
// or drop the element that would show them.
package branding

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"shutterflow/internal/models"
)

// Defaults substituted when the branding snapshot leaves a field empty.
const (
	DefaultPrimary   = "#1a1a1a"
	DefaultSecondary = "#6b7280"

	// DefaultHeadshotURL is shown by the professional signature when the
	// photographer has not uploaded a headshot.
	DefaultHeadshotURL = "https://placehold.co/80x80/e5e7eb/6b7280?text=Photo"

	// FallbackPhone and FallbackEmail fill the contact line of signatures
	// when the profile has no phone or email.
	FallbackPhone = "(555) 123-4567"
	FallbackEmail = "hello@example.com"
)

// ErrUnknownStyle is returned for a style name outside the closed set.
var ErrUnknownStyle = errors.New("unknown branding style")

var styles = template.Must(template.New("branding").Parse(
	socialRow + headerMinimal + headerProfessional + headerBold + headerClassic +
		signatureSimple + signatureProfessional + signatureDetailed + signatureBranded,
))

// HeaderStyles lists the selectable header styles in picker order.
var HeaderStyles = []models.HeaderStyle{
	models.HeaderNone,
	models.HeaderMinimal,
	models.HeaderProfessional,
	models.HeaderBold,
	models.HeaderClassic,
}

// SignatureStyles lists the selectable signature styles in picker order.
var SignatureStyles = []models.SignatureStyle{
	models.SignatureNone,
	models.SignatureSimple,
	models.SignatureProfessional,
	models.SignatureDetailed,
	models.SignatureBranded,
}

// ParseHeaderStyle validates a header style name. The empty string is
// treated as "none".
func ParseHeaderStyle(s string) (models.HeaderStyle, error) {
	if s == "" {
		return models.HeaderNone, nil
	}
	for _, h := range HeaderStyles {
		if string(h) == s {
			return h, nil
		}
	}
	return "", fmt.Errorf("%w: header %q", ErrUnknownStyle, s)
}

// ParseSignatureStyle validates a signature style name. The empty string is
// treated as "none".
func ParseSignatureStyle(s string) (models.SignatureStyle, error) {
	if s == "" {
		return models.SignatureNone, nil
	}
	for _, sig := range SignatureStyles {
		if string(sig) == s {
			return sig, nil
		}
	}
	return "", fmt.Errorf("%w: signature %q", ErrUnknownStyle, s)
}

// view is the data every style template receives.
type view struct {
	BusinessName     string
	PhotographerName string
	Name             string // photographer name, falling back to business name
	LogoURL          string
	HeadshotURL      string // as provided; may be empty
	Headshot         string // HeadshotURL or DefaultHeadshotURL
	Primary          string
	Secondary        string
	Phone            string
	Email            string
	Website          string
	WebsiteURL       string
	Address          string
	Social           []models.SocialLink
}

func newView(b *models.Branding) view {
	if b == nil {
		b = &models.Branding{}
	}
	v := view{
		BusinessName:     strings.TrimSpace(b.BusinessName),
		PhotographerName: strings.TrimSpace(b.PhotographerName),
		LogoURL:          b.LogoURL,
		HeadshotURL:      b.HeadshotURL,
		Headshot:         b.HeadshotURL,
		Primary:          orDefault(b.BrandPrimary, DefaultPrimary),
		Secondary:        orDefault(b.BrandSecondary, DefaultSecondary),
		Phone:            orDefault(b.Phone, FallbackPhone),
		Email:            orDefault(b.Email, FallbackEmail),
		Website:          strings.TrimSpace(b.Website),
		Address:          strings.TrimSpace(b.BusinessAddress),
		Social:           b.SocialLinks.List(),
	}
	if v.Headshot == "" {
		v.Headshot = DefaultHeadshotURL
	}
	v.Name = v.PhotographerName
	if v.Name == "" {
		v.Name = v.BusinessName
	}
	if v.Website != "" {
		v.WebsiteURL = v.Website
		if !strings.Contains(v.Website, "://") {
			v.WebsiteURL = "https://" + v.Website
		}
	}
	return v
}

// RenderHeader renders the branded header for style. "none" and the empty
// style render nothing.
func RenderHeader(style models.HeaderStyle, b *models.Branding) (models.Fragment, error) {
	if style == "" || style == models.HeaderNone {
		return "", nil
	}
	if _, err := ParseHeaderStyle(string(style)); err != nil {
		return "", err
	}
	return execute("header_"+string(style), newView(b))
}

// RenderSignature renders the branded signature for style. "none" and the
// empty style render nothing.
func RenderSignature(style models.SignatureStyle, b *models.Branding) (models.Fragment, error) {
	if style == "" || style == models.SignatureNone {
		return "", nil
	}
	if _, err := ParseSignatureStyle(string(style)); err != nil {
		return "", err
	}
	return execute("signature_"+string(style), newView(b))
}

func execute(name string, v view) (models.Fragment, error) {
	var buf bytes.Buffer
	if err := styles.ExecuteTemplate(&buf, name, v); err != nil {
		return "", fmt.Errorf("execute %s: %w", name, err)
	}
	return models.Fragment(buf.String()), nil
}

func orDefault(s, fallback string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return fallback
}
