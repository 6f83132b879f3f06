// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// cache_log.go records render cache invalidations in the database for
// audit and debugging. Each entry captures which template or branding
// profile was invalidated, when, and why.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Entity types recorded in the invalidation log.
const (
	EntityTemplate = "template"
	EntityBranding = "branding"
)

// Actions recorded in the invalidation log.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionAsset  = "asset"
)

// CacheLogEntry is a single invalidation event.
type CacheLogEntry struct {
	ID            int64     `json:"id"`
	EntityType    string    `json:"entity_type"`
	EntityID      uuid.UUID `json:"entity_id"`
	Action        string    `json:"action"`
	InvalidatedAt time.Time `json:"invalidated_at"`
}

// CacheLogStore handles invalidation log operations.
type CacheLogStore struct {
	db *sql.DB
}

// NewCacheLogStore creates a new CacheLogStore.
func NewCacheLogStore(db *sql.DB) *CacheLogStore {
	return &CacheLogStore{db: db}
}

// Log records an invalidation. Failures are logged and otherwise ignored.
func (s *CacheLogStore) Log(entityType string, entityID uuid.UUID, action string) {
	_, err := s.db.Exec(`
		INSERT INTO cache_invalidation_log (entity_type, entity_id, action)
		VALUES ($1, $2, $3)
	`, entityType, entityID, action)
	if err != nil {
		slog.Warn("failed to log cache invalidation",
			"entity_type", entityType,
			"entity_id", entityID,
			"action", action,
			"error", err,
		)
		return
	}
	slog.Debug("cache invalidation logged", "entity_type", entityType, "entity_id", entityID, "action", action)
}

// RecentEntries returns the most recent invalidations for one entity,
// newest first.
func (s *CacheLogStore) RecentEntries(entityID uuid.UUID, limit int) ([]CacheLogEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, entity_type, entity_id, action, invalidated_at
		FROM cache_invalidation_log
		WHERE entity_id = $1
		ORDER BY invalidated_at DESC, id DESC
		LIMIT $2
	`, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("query cache log: %w", err)
	}
	defer rows.Close()

	var entries []CacheLogEntry
	for rows.Next() {
		var e CacheLogEntry
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.Action, &e.InvalidatedAt); err != nil {
			return nil, fmt.Errorf("scan cache log: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
