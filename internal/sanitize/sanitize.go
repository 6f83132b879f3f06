// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package sanitize applies a per-surface policy to rendered email HTML.
// Outgoing email bodies pass through untouched; in-app previews have active
// content removed before they reach the browser.
package sanitize

import (
	"regexp"

	"shutterflow/internal/models"
)

// Policy transforms a rendered fragment for a particular display surface.
type Policy interface {
	Apply(models.Fragment) models.Fragment
	Name() string
}

// Raw returns fragments unchanged. Used for the outgoing email body.
var Raw Policy = rawPolicy{}

// Preview removes scripts, embedded frames, inline event handlers and
// javascript: URLs. Used wherever rendered content is shown inside the app.
var Preview Policy = previewPolicy{}

type rawPolicy struct{}

func (rawPolicy) Apply(f models.Fragment) models.Fragment { return f }
func (rawPolicy) Name() string                            { return "raw" }

var (
	scriptRe  = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	frameRe   = regexp.MustCompile(`(?is)<(iframe|object|embed)\b[^>]*>(.*?</(iframe|object|embed)\s*>)?`)
	eventRe   = regexp.MustCompile(`(?i)\s+on[a-z]+\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`)
	jsProtoRe = regexp.MustCompile(`(?i)(href|src)\s*=\s*(["']?)\s*javascript\s*:[^"'\s>]*`)
)

type previewPolicy struct{}

func (previewPolicy) Name() string { return "preview" }

func (previewPolicy) Apply(f models.Fragment) models.Fragment {
	s := string(f)
	s = scriptRe.ReplaceAllString(s, "")
	s = frameRe.ReplaceAllString(s, "")
	s = eventRe.ReplaceAllString(s, "")
	s = jsProtoRe.ReplaceAllString(s, `$1=$2#`)
	return models.Fragment(s)
}
