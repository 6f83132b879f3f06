// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// HeaderStyle selects the branded header variant of an email.
type HeaderStyle string

const (
	HeaderNone         HeaderStyle = "none"
	HeaderMinimal      HeaderStyle = "minimal"
	HeaderProfessional HeaderStyle = "professional"
	HeaderBold         HeaderStyle = "bold"
	HeaderClassic      HeaderStyle = "classic"
)

// SignatureStyle selects the branded signature variant of an email.
type SignatureStyle string

const (
	SignatureNone         SignatureStyle = "none"
	SignatureSimple       SignatureStyle = "simple"
	SignatureProfessional SignatureStyle = "professional"
	SignatureDetailed     SignatureStyle = "detailed"
	SignatureBranded      SignatureStyle = "branded"
)

// SocialLinks holds the photographer's public profile URLs. Empty fields
// are omitted from rendered output.
type SocialLinks struct {
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Pinterest string `json:"pinterest,omitempty"`
	TikTok    string `json:"tiktok,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
}

// SocialLink is one labelled entry of SocialLinks.
type SocialLink struct {
	Label string
	URL   string
}

// List returns the non-empty links in a fixed display order.
func (s SocialLinks) List() []SocialLink {
	all := []SocialLink{
		{Label: "Instagram", URL: s.Instagram},
		{Label: "Facebook", URL: s.Facebook},
		{Label: "Twitter", URL: s.Twitter},
		{Label: "Pinterest", URL: s.Pinterest},
		{Label: "TikTok", URL: s.TikTok},
		{Label: "YouTube", URL: s.YouTube},
		{Label: "LinkedIn", URL: s.LinkedIn},
	}
	links := make([]SocialLink, 0, len(all))
	for _, l := range all {
		if l.URL != "" {
			links = append(links, l)
		}
	}
	return links
}

// Branding is the photographer's visual identity and contact data. The
// rendering pipeline treats it as a read-only snapshot; Version changes on
// every update so rendered output can be cached per snapshot.
type Branding struct {
	ID               uuid.UUID   `json:"id"`
	PhotographerID   uuid.UUID   `json:"photographer_id"`
	BusinessName     string      `json:"businessName"`
	PhotographerName string      `json:"photographerName"`
	LogoURL          string      `json:"logoUrl"`
	HeadshotURL      string      `json:"headshotUrl"`
	BrandPrimary     string      `json:"brandPrimary"`
	BrandSecondary   string      `json:"brandSecondary"`
	Phone            string      `json:"phone"`
	Email            string      `json:"email"`
	Website          string      `json:"website"`
	BusinessAddress  string      `json:"businessAddress"`
	SocialLinks      SocialLinks `json:"socialLinks"`
	Version          int         `json:"version"`
	UpdatedAt        time.Time   `json:"updated_at"`
}
