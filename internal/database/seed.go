// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"shutterflow/internal/models"
)

// DemoPhotographerID owns the development seed data.
var DemoPhotographerID = uuid.MustParse("00000000-0000-4000-8000-000000000001")

// Seed populates the database with a demo branding profile and a welcome
// template for DemoPhotographerID. It does nothing if the profile exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow(
		"SELECT COUNT(*) FROM branding_profiles WHERE photographer_id = $1", DemoPhotographerID,
	).Scan(&count); err != nil {
		return fmt.Errorf("seed check branding: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	social, err := json.Marshal(models.SocialLinks{Instagram: "https://instagram.com/goldenhourstudio"})
	if err != nil {
		return fmt.Errorf("seed marshal social links: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO branding_profiles (photographer_id, business_name, photographer_name,
			brand_primary, brand_secondary, email, website, social_links)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, DemoPhotographerID, "Golden Hour Studio", "Jane Doe", "#8b5cf6", "#f59e0b",
		"jane@goldenhour.test", "goldenhour.test", social)
	if err != nil {
		return fmt.Errorf("seed insert branding: %w", err)
	}

	blocks, err := json.Marshal(welcomeBlocks())
	if err != nil {
		return fmt.Errorf("seed marshal blocks: %w", err)
	}
	_, err = tx.Exec(`
		INSERT INTO email_templates (photographer_id, name, slug, subject, blocks,
			include_header, header_style, include_signature, signature_style)
		VALUES ($1, $2, $3, $4, $5, TRUE, 'professional', TRUE, 'professional')
	`, DemoPhotographerID, "Gallery Delivery", "gallery-delivery",
		"Your gallery is ready, {{first_name}}!", blocks)
	if err != nil {
		return fmt.Errorf("seed insert template: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with demo photographer", "photographer_id", DemoPhotographerID)
	return nil
}

func welcomeBlocks() []models.Block {
	spacer := 20
	return []models.Block{
		{ID: uuid.NewString(), Type: models.BlockHeading, Content: models.HeadingContent{Text: "Your photos are here"}},
		{ID: uuid.NewString(), Type: models.BlockText, Content: models.TextContent{
			Text: "Hi {{first_name}},\nThank you for letting us capture {{project_name}}. Your gallery is ready to view and download.",
		}},
		{ID: uuid.NewString(), Type: models.BlockButton, Content: models.ButtonContent{
			Text: "View Gallery", Variant: models.ButtonDefault, LinkType: models.LinkGallery,
		}},
		{ID: uuid.NewString(), Type: models.BlockSpacer, Content: models.SpacerContent{Height: &spacer, Size: models.SpacerSmall}},
		{ID: uuid.NewString(), Type: models.BlockText, Content: models.TextContent{Text: "Warmly,\n{{photographer_name}}"}},
	}
}
