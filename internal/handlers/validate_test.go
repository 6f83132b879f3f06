package handlers

import (
	"strings"
	"testing"

	"shutterflow/internal/models"
)

func TestValidateTemplate(t *testing.T) {
	block := func(id string) models.Block {
		return models.Block{ID: id, Type: models.BlockText, Content: models.TextContent{}}
	}

	tests := []struct {
		name      string
		tmplName  string
		doc       models.Document
		wantError bool
	}{
		{"valid", "Gallery Delivery", models.Document{Subject: "Hi", Blocks: []models.Block{block("a")}}, false},
		{"empty name", "", models.Document{}, true},
		{"whitespace name", "   ", models.Document{}, true},
		{"name too long", strings.Repeat("a", 201), models.Document{}, true},
		{"subject too long", "ok", models.Document{Subject: strings.Repeat("s", 301)}, true},
		{"missing block id", "ok", models.Document{Blocks: []models.Block{block("")}}, true},
		{"duplicate block id", "ok", models.Document{Blocks: []models.Block{block("a"), block("a")}}, true},
		{"empty document allowed", "ok", models.Document{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateTemplate(tt.tmplName, tt.doc)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}

func TestValidateBranding(t *testing.T) {
	tests := []struct {
		name      string
		brand     models.Branding
		wantError bool
	}{
		{"empty profile", models.Branding{}, false},
		{"short hex", models.Branding{BrandPrimary: "#abc"}, false},
		{"long hex", models.Branding{BrandPrimary: "#1A2B3C", BrandSecondary: "#000000"}, false},
		{"named color", models.Branding{BrandPrimary: "red"}, true},
		{"bad secondary", models.Branding{BrandSecondary: "#12345"}, true},
		{"business name too long", models.Branding{BusinessName: strings.Repeat("b", 201)}, true},
		{"address too long", models.Branding{BusinessAddress: strings.Repeat("x", 501)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateBranding(&tt.brand)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}
