// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package variables defines the {{...}} placeholder tokens used in email
// content and the two operations on them: splicing a token into a text
// buffer at the caret, and substituting tokens with real values at send
// time. Tokens are plain text; nothing here escapes or validates them.
package variables

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Link tokens. Button blocks render these instead of real URLs.
const (
	SmartFileLink = "{{smart_file_link}}"
	GalleryLink   = "{{gallery_link}}"
	CalendarLink  = "{{calendar_link}}"
)

// Profile tokens offered by the variable picker.
const (
	FirstName        = "{{first_name}}"
	LastName         = "{{last_name}}"
	ClientName       = "{{client_name}}"
	BusinessName     = "{{business_name}}"
	PhotographerName = "{{photographer_name}}"
	ProjectName      = "{{project_name}}"
	EventDate        = "{{event_date}}"
)

// Variable describes one insertable token.
type Variable struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Label string `json:"label"`
	Link  bool   `json:"link"`
}

// Catalogue lists every known token in picker order.
var Catalogue = []Variable{
	{Token: FirstName, Name: "first_name", Label: "Client First Name"},
	{Token: LastName, Name: "last_name", Label: "Client Last Name"},
	{Token: ClientName, Name: "client_name", Label: "Client Full Name"},
	{Token: BusinessName, Name: "business_name", Label: "Business Name"},
	{Token: PhotographerName, Name: "photographer_name", Label: "Photographer Name"},
	{Token: ProjectName, Name: "project_name", Label: "Project Name"},
	{Token: EventDate, Name: "event_date", Label: "Event Date"},
	{Token: SmartFileLink, Name: "smart_file_link", Label: "Smart File Link", Link: true},
	{Token: GalleryLink, Name: "gallery_link", Label: "Gallery Link", Link: true},
	{Token: CalendarLink, Name: "calendar_link", Label: "Booking Calendar Link", Link: true},
}

// tokenRe matches a placeholder token and captures its name.
var tokenRe = regexp.MustCompile(`\{\{([a-z0-9_]+)\}\}`)

// Token wraps a variable name in braces: "first_name" → "{{first_name}}".
func Token(name string) string {
	return "{{" + name + "}}"
}

// Known reports whether token is in the catalogue.
func Known(token string) bool {
	for _, v := range Catalogue {
		if v.Token == token {
			return true
		}
	}
	return false
}

// Insert splices token into text at caret, counted in runes. The caret is
// clamped to [0, len(text)]. It returns the new text and the caret position
// just after the inserted token.
func Insert(text string, caret int, token string) (string, int) {
	runes := utf8.RuneCountInString(text)
	if caret < 0 {
		caret = 0
	}
	if caret > runes {
		caret = runes
	}

	offset := len(text)
	if caret < runes {
		i := 0
		for pos := range text {
			if i == caret {
				offset = pos
				break
			}
			i++
		}
	}

	out := text[:offset] + token + text[offset:]
	return out, caret + utf8.RuneCountInString(token)
}

// Buffer is a text value with a caret, the model of a focused text field.
type Buffer struct {
	Text  string
	Caret int
}

// Insert splices token at the caret and moves the caret past it.
func (b *Buffer) Insert(token string) {
	b.Text, b.Caret = Insert(b.Text, b.Caret, token)
}

// Extract returns the distinct tokens found in s, in order of first
// appearance.
func Extract(s string) []string {
	matches := tokenRe.FindAllString(s, -1)
	seen := make(map[string]bool, len(matches))
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		if !seen[m] {
			seen[m] = true
			tokens = append(tokens, m)
		}
	}
	return tokens
}

// Substitute replaces every token whose name is a key of values. Tokens
// without a value are left exactly as written.
func Substitute(s string, values map[string]string) string {
	if len(values) == 0 || !strings.Contains(s, "{{") {
		return s
	}
	return tokenRe.ReplaceAllStringFunc(s, func(tok string) string {
		name := tok[2 : len(tok)-2]
		if v, ok := values[name]; ok {
			return v
		}
		return tok
	})
}

// Missing returns the tokens in s that values does not provide.
func Missing(s string, values map[string]string) []string {
	var missing []string
	for _, tok := range Extract(s) {
		if _, ok := values[tok[2:len(tok)-2]]; !ok {
			missing = append(missing, tok)
		}
	}
	return missing
}
