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

const templateColumns = `id, photographer_id, name, slug, subject, blocks,
	include_header, header_style, include_signature, signature_style,
	include_hero_image, hero_image_url, version, created_at, updated_at`

// TemplateStore handles email template database operations. Blocks are
// stored as a JSONB array; array order is display order.
type TemplateStore struct {
	db *sql.DB
}

// NewTemplateStore creates a new TemplateStore with the given database connection.
func NewTemplateStore(db *sql.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (*models.EmailTemplate, error) {
	var (
		t      models.EmailTemplate
		blocks []byte
	)
	if err := row.Scan(
		&t.ID, &t.PhotographerID, &t.Name, &t.Slug, &t.Subject, &blocks,
		&t.IncludeHeader, &t.HeaderStyle, &t.IncludeSignature, &t.SignatureStyle,
		&t.IncludeHeroImage, &t.HeroImageURL, &t.Version, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(blocks, &t.Blocks); err != nil {
		return nil, fmt.Errorf("decode blocks of template %s: %w", t.ID, err)
	}
	return &t, nil
}

func encodeBlocks(bs []models.Block) ([]byte, error) {
	if bs == nil {
		bs = []models.Block{}
	}
	data, err := json.Marshal(bs)
	if err != nil {
		return nil, fmt.Errorf("encode blocks: %w", err)
	}
	return data, nil
}

// List returns a photographer's templates ordered by name.
func (s *TemplateStore) List(photographerID uuid.UUID) ([]models.EmailTemplate, error) {
	rows, err := s.db.Query(`
		SELECT `+templateColumns+`
		FROM email_templates
		WHERE photographer_id = $1
		ORDER BY name
	`, photographerID)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []models.EmailTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// FindByID retrieves a photographer's template by its UUID. Returns nil if
// not found.
func (s *TemplateStore) FindByID(photographerID, id uuid.UUID) (*models.EmailTemplate, error) {
	t, err := scanTemplate(s.db.QueryRow(`
		SELECT `+templateColumns+`
		FROM email_templates WHERE id = $1 AND photographer_id = $2
	`, id, photographerID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find template by id: %w", err)
	}
	return t, nil
}

// FindBySlug retrieves a photographer's template by slug. Returns nil if
// not found.
func (s *TemplateStore) FindBySlug(photographerID uuid.UUID, slug string) (*models.EmailTemplate, error) {
	t, err := scanTemplate(s.db.QueryRow(`
		SELECT `+templateColumns+`
		FROM email_templates WHERE photographer_id = $1 AND slug = $2
	`, photographerID, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find template by slug: %w", err)
	}
	return t, nil
}

// Create inserts a new template at version 1.
func (s *TemplateStore) Create(t *models.EmailTemplate) (*models.EmailTemplate, error) {
	blocks, err := encodeBlocks(t.Blocks)
	if err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}

	created, err := scanTemplate(s.db.QueryRow(`
		INSERT INTO email_templates (photographer_id, name, slug, subject, blocks,
			include_header, header_style, include_signature, signature_style,
			include_hero_image, hero_image_url, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 1)
		RETURNING `+templateColumns,
		t.PhotographerID, t.Name, t.Slug, t.Subject, blocks,
		t.IncludeHeader, t.HeaderStyle, t.IncludeSignature, t.SignatureStyle,
		t.IncludeHeroImage, t.HeroImageURL,
	))
	if err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	return created, nil
}

// Update replaces a template's name and document and increments its
// version. Returns nil if the template does not exist.
func (s *TemplateStore) Update(t *models.EmailTemplate) (*models.EmailTemplate, error) {
	blocks, err := encodeBlocks(t.Blocks)
	if err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}

	updated, err := scanTemplate(s.db.QueryRow(`
		UPDATE email_templates SET
			name = $1, slug = $2, subject = $3, blocks = $4,
			include_header = $5, header_style = $6,
			include_signature = $7, signature_style = $8,
			include_hero_image = $9, hero_image_url = $10,
			version = version + 1, updated_at = NOW()
		WHERE id = $11 AND photographer_id = $12
		RETURNING `+templateColumns,
		t.Name, t.Slug, t.Subject, blocks,
		t.IncludeHeader, t.HeaderStyle, t.IncludeSignature, t.SignatureStyle,
		t.IncludeHeroImage, t.HeroImageURL, t.ID, t.PhotographerID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}
	return updated, nil
}

// Delete removes a template. It reports whether a row was deleted.
func (s *TemplateStore) Delete(photographerID, id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM email_templates WHERE id = $1 AND photographer_id = $2`, id, photographerID)
	if err != nil {
		return false, fmt.Errorf("delete template: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete template: %w", err)
	}
	return n > 0, nil
}
