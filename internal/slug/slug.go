// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug generates the short keys used for template slugs and for
// file names written by the development mail sender.
package slug

import (
	"regexp"
	"strconv"
	"strings"
)

// MaxLength bounds generated slugs. Longer results are cut at a hyphen.
const MaxLength = 80

var (
	// separators become hyphens: whitespace, underscores and slashes.
	separators = regexp.MustCompile(`[\s_/]+`)
	// nonAlphanumeric matches anything that isn't a letter, digit or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Gallery Ready: {{first_name}}" → "gallery-ready-first-name"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = separators.ReplaceAllString(result, "-")
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if len(result) > MaxLength {
		result = result[:MaxLength]
		if i := strings.LastIndex(result, "-"); i > 0 {
			result = result[:i]
		}
		result = strings.Trim(result, "-")
	}
	return result
}

// GenerateOr is Generate with a fallback for inputs that produce an empty
// slug.
func GenerateOr(s, fallback string) string {
	if out := Generate(s); out != "" {
		return out
	}
	return fallback
}

// Unique returns base, or base with the smallest numeric suffix ("-2",
// "-3", ...) for which taken reports false.
func Unique(base string, taken func(string) bool) string {
	if !taken(base) {
		return base
	}
	for n := 2; ; n++ {
		candidate := base + "-" + strconv.Itoa(n)
		if !taken(candidate) {
			return candidate
		}
	}
}
