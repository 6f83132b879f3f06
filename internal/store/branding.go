// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"shutterflow/internal/models"
)

// AssetKind names a brand image stored on the profile.
type AssetKind string

const (
	AssetLogo     AssetKind = "logo"
	AssetHeadshot AssetKind = "headshot"
)

// Valid reports whether k is a known asset kind.
func (k AssetKind) Valid() bool {
	return k == AssetLogo || k == AssetHeadshot
}

const brandingColumns = `id, photographer_id, business_name, photographer_name,
	logo_url, headshot_url, brand_primary, brand_secondary, phone, email,
	website, business_address, social_links, version, updated_at`

// BrandingStore handles branding profile database operations. Every write
// increments the profile version, which keys the render caches.
type BrandingStore struct {
	db *sql.DB
}

// NewBrandingStore creates a new BrandingStore.
func NewBrandingStore(db *sql.DB) *BrandingStore {
	return &BrandingStore{db: db}
}

func scanBranding(row rowScanner) (*models.Branding, error) {
	var (
		b      models.Branding
		social []byte
	)
	if err := row.Scan(
		&b.ID, &b.PhotographerID, &b.BusinessName, &b.PhotographerName,
		&b.LogoURL, &b.HeadshotURL, &b.BrandPrimary, &b.BrandSecondary, &b.Phone, &b.Email,
		&b.Website, &b.BusinessAddress, &social, &b.Version, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(social, &b.SocialLinks); err != nil {
		return nil, fmt.Errorf("decode social links: %w", err)
	}
	return &b, nil
}

// FindByPhotographer returns a photographer's branding profile. Returns nil
// if the photographer has none yet.
func (s *BrandingStore) FindByPhotographer(photographerID uuid.UUID) (*models.Branding, error) {
	b, err := scanBranding(s.db.QueryRow(`
		SELECT `+brandingColumns+`
		FROM branding_profiles WHERE photographer_id = $1
	`, photographerID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find branding: %w", err)
	}
	return b, nil
}

// Upsert creates or replaces a photographer's branding profile and returns
// the stored row. The version starts at 1 and increments on every write.
func (s *BrandingStore) Upsert(b *models.Branding) (*models.Branding, error) {
	social, err := json.Marshal(b.SocialLinks)
	if err != nil {
		return nil, fmt.Errorf("upsert branding: encode social links: %w", err)
	}

	saved, err := scanBranding(s.db.QueryRow(`
		INSERT INTO branding_profiles (photographer_id, business_name, photographer_name,
			logo_url, headshot_url, brand_primary, brand_secondary, phone, email,
			website, business_address, social_links)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (photographer_id) DO UPDATE SET
			business_name = EXCLUDED.business_name,
			photographer_name = EXCLUDED.photographer_name,
			logo_url = EXCLUDED.logo_url,
			headshot_url = EXCLUDED.headshot_url,
			brand_primary = EXCLUDED.brand_primary,
			brand_secondary = EXCLUDED.brand_secondary,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			website = EXCLUDED.website,
			business_address = EXCLUDED.business_address,
			social_links = EXCLUDED.social_links,
			version = branding_profiles.version + 1,
			updated_at = NOW()
		RETURNING `+brandingColumns,
		b.PhotographerID, b.BusinessName, b.PhotographerName,
		b.LogoURL, b.HeadshotURL, b.BrandPrimary, b.BrandSecondary, b.Phone, b.Email,
		b.Website, b.BusinessAddress, social,
	))
	if err != nil {
		return nil, fmt.Errorf("upsert branding: %w", err)
	}
	return saved, nil
}

// SetAssetURL points the profile's logo or headshot at url, creating an
// otherwise empty profile if needed.
func (s *BrandingStore) SetAssetURL(photographerID uuid.UUID, kind AssetKind, url string) (*models.Branding, error) {
	var column string
	switch kind {
	case AssetLogo:
		column = "logo_url"
	case AssetHeadshot:
		column = "headshot_url"
	default:
		return nil, fmt.Errorf("set asset url: unknown asset kind %q", kind)
	}

	saved, err := scanBranding(s.db.QueryRow(`
		INSERT INTO branding_profiles (photographer_id, `+column+`)
		VALUES ($1, $2)
		ON CONFLICT (photographer_id) DO UPDATE SET
			`+column+` = EXCLUDED.`+column+`,
			version = branding_profiles.version + 1,
			updated_at = NOW()
		RETURNING `+brandingColumns,
		photographerID, url,
	))
	if err != nil {
		return nil, fmt.Errorf("set %s: %w", column, err)
	}
	return saved, nil
}
