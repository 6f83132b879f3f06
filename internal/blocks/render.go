// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package blocks renders email content blocks to HTML fragments. Each block
// type maps to one fixed fragment; block text and custom button links are
// interpolated verbatim so that placeholder tokens like {{first_name}} reach
// the send-time substitution untouched. Unknown block types render nothing.
package blocks

import (
	"fmt"
	"log/slog"
	"strings"

	"shutterflow/internal/branding"
	"shutterflow/internal/models"
	"shutterflow/internal/variables"
)

const (
	// DefaultHeading is shown when a heading block has no text yet.
	DefaultHeading = "Heading"

	// DefaultSpacerHeight applies when a spacer carries no height.
	DefaultSpacerHeight = 40
)

// spacerHeights maps the cosmetic size labels to pixel heights.
var spacerHeights = map[models.SpacerSize]int{
	models.SpacerSmall:  20,
	models.SpacerMedium: 40,
	models.SpacerLarge:  60,
}

// buttonStyles holds the fixed inline style for each button variant.
var buttonStyles = map[models.ButtonVariant]string{
	models.ButtonDefault:   "display: inline-block; padding: 12px 24px; background-color: #1a1a1a; color: #ffffff; text-decoration: none; border-radius: 6px; font-weight: 500;",
	models.ButtonSecondary: "display: inline-block; padding: 12px 24px; background-color: #f4f4f5; color: #1a1a1a; text-decoration: none; border-radius: 6px; font-weight: 500;",
	models.ButtonOutline:   "display: inline-block; padding: 10px 22px; background-color: transparent; color: #1a1a1a; text-decoration: none; border: 2px solid #1a1a1a; border-radius: 6px; font-weight: 500;",
}

// Renderer renders blocks. The branding snapshot is only consulted by
// HEADER and SIGNATURE blocks; a nil snapshot renders them with defaults.
type Renderer struct {
	brand *models.Branding
}

// New creates a Renderer for the given branding snapshot (may be nil).
func New(brand *models.Branding) *Renderer {
	return &Renderer{brand: brand}
}

// Render renders a single block without branding data.
func Render(b models.Block) models.Fragment {
	return New(nil).Render(b)
}

// RenderAll renders blocks without branding data, in order.
func RenderAll(bs []models.Block) models.Fragment {
	return New(nil).RenderAll(bs)
}

// RenderAll renders every block and concatenates the fragments in the
// order given.
func (r *Renderer) RenderAll(bs []models.Block) models.Fragment {
	var sb strings.Builder
	for _, b := range bs {
		sb.WriteString(string(r.Render(b)))
	}
	return models.Fragment(sb.String())
}

// Render renders one block. Blocks of unknown type, or whose content does
// not match their type, produce an empty fragment.
func (r *Renderer) Render(b models.Block) models.Fragment {
	if !b.Type.Known() || !models.ContentMatches(b.Type, b.Content) {
		slog.Debug("skipping block", "id", b.ID, "type", b.Type)
		return ""
	}
	switch c := b.Content.(type) {
	case models.HeadingContent:
		return renderHeading(c)
	case models.TextContent:
		return renderText(c)
	case models.ButtonContent:
		return renderButton(c)
	case models.ImageContent:
		return renderImage(c)
	case models.SpacerContent:
		return renderSpacer(c)
	case models.HeaderContent:
		return r.renderHeader(b.ID, c)
	case models.SignatureContent:
		return r.renderSignature(b.ID, c)
	}
	return ""
}

func renderHeading(c models.HeadingContent) models.Fragment {
	text := c.Text
	if text == "" {
		text = DefaultHeading
	}
	return models.Fragment(`<h2 style="font-size: 24px; font-weight: 600; color: #1a1a1a; margin: 0 0 16px 0;">` + text + `</h2>`)
}

func renderText(c models.TextContent) models.Fragment {
	text := strings.ReplaceAll(c.Text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\n", "<br />")
	return models.Fragment(`<p style="font-size: 16px; line-height: 1.6; color: #4a4a4a; margin: 0 0 16px 0;">` + text + `</p>`)
}

func renderButton(c models.ButtonContent) models.Fragment {
	style, ok := buttonStyles[c.Variant]
	if !ok {
		style = buttonStyles[models.ButtonDefault]
	}
	return models.Fragment(`<div style="text-align: center; margin: 24px 0;"><a href="` + ResolveHref(c) + `" style="` + style + `">` + c.Text + `</a></div>`)
}

func renderImage(c models.ImageContent) models.Fragment {
	if c.URL == "" {
		return `<div style="margin: 16px 0; padding: 40px; background-color: #f4f4f5; border-radius: 8px; text-align: center; color: #a1a1aa; font-size: 14px;">No image selected</div>`
	}
	return models.Fragment(`<div style="margin: 16px 0;"><img src="` + c.URL + `" alt="` + c.Alt + `" style="max-width: 100%; height: auto; border-radius: 8px; display: block;" /></div>`)
}

func renderSpacer(c models.SpacerContent) models.Fragment {
	return models.Fragment(fmt.Sprintf(`<div style="height: %dpx; line-height: %dpx; font-size: 1px;">&nbsp;</div>`, SpacerHeight(c), SpacerHeight(c)))
}

func (r *Renderer) renderHeader(id string, c models.HeaderContent) models.Fragment {
	out, err := branding.RenderHeader(models.HeaderStyle(c.Style), r.brand)
	if err != nil {
		slog.Warn("header block skipped", "id", id, "error", err)
		return ""
	}
	return out
}

func (r *Renderer) renderSignature(id string, c models.SignatureContent) models.Fragment {
	out, err := branding.RenderSignature(models.SignatureStyle(c.Style), r.brand)
	if err != nil {
		slog.Warn("signature block skipped", "id", id, "error", err)
		return ""
	}
	return out
}

// ResolveHref returns the href a button renders with. Managed link types
// always yield their placeholder token, whatever LinkValue holds; custom
// links are returned verbatim, or "#" when empty.
func ResolveHref(c models.ButtonContent) string {
	switch c.LinkType {
	case models.LinkSmartFile:
		return variables.SmartFileLink
	case models.LinkGallery:
		return variables.GalleryLink
	case models.LinkCalendar:
		return variables.CalendarLink
	}
	if c.LinkValue == "" {
		return "#"
	}
	return c.LinkValue
}

// SpacerHeight returns the layout height of a spacer in pixels.
func SpacerHeight(c models.SpacerContent) int {
	if c.Height != nil {
		return *c.Height
	}
	return DefaultSpacerHeight
}

// HeightForSize maps a size label to its height. Unknown labels map to the
// default height.
func HeightForSize(size models.SpacerSize) int {
	if h, ok := spacerHeights[size]; ok {
		return h
	}
	return DefaultSpacerHeight
}

// SizeForHeight returns the label matching height, or "" when the height
// is not one of the preset sizes.
func SizeForHeight(height int) models.SpacerSize {
	for size, h := range spacerHeights {
		if h == height {
			return size
		}
	}
	return ""
}
