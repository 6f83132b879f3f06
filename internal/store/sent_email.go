// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"shutterflow/internal/models"
)

// SentEmailStore records send attempts.
type SentEmailStore struct {
	db *sql.DB
}

// NewSentEmailStore creates a new SentEmailStore.
func NewSentEmailStore(db *sql.DB) *SentEmailStore {
	return &SentEmailStore{db: db}
}

// Create records a send attempt and fills in its ID and SentAt.
func (s *SentEmailStore) Create(e *models.SentEmail) error {
	err := s.db.QueryRow(`
		INSERT INTO sent_emails (template_id, photographer_id, recipient, subject, status, error)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, sent_at
	`, e.TemplateID, e.PhotographerID, e.Recipient, e.Subject, e.Status, e.Error).Scan(&e.ID, &e.SentAt)
	if err != nil {
		return fmt.Errorf("create sent email: %w", err)
	}
	return nil
}

// ListByPhotographer returns a photographer's most recent send attempts,
// newest first.
func (s *SentEmailStore) ListByPhotographer(photographerID uuid.UUID, limit int) ([]models.SentEmail, error) {
	rows, err := s.db.Query(`
		SELECT id, template_id, photographer_id, recipient, subject, status, error, sent_at
		FROM sent_emails
		WHERE photographer_id = $1
		ORDER BY sent_at DESC
		LIMIT $2
	`, photographerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list sent emails: %w", err)
	}
	defer rows.Close()

	var out []models.SentEmail
	for rows.Next() {
		var e models.SentEmail
		if err := rows.Scan(&e.ID, &e.TemplateID, &e.PhotographerID, &e.Recipient,
			&e.Subject, &e.Status, &e.Error, &e.SentAt); err != nil {
			return nil, fmt.Errorf("scan sent email: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
