// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"

	"github.com/google/uuid"
)

func TestCacheLogStoreLog(t *testing.T) {
	db := testDB(t)
	s := NewCacheLogStore(db)

	// Log should not error (best-effort).
	entityID := uuid.New()
	s.Log(EntityTemplate, entityID, ActionUpdate)

	t.Cleanup(func() {
		db.Exec("DELETE FROM cache_invalidation_log WHERE entity_id = $1", entityID)
	})

	var count int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM cache_invalidation_log WHERE entity_id = $1", entityID,
	).Scan(&count)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 log entry, got %d", count)
	}
}

func TestCacheLogStoreRecentEntries(t *testing.T) {
	db := testDB(t)
	s := NewCacheLogStore(db)

	id := uuid.New()
	s.Log(EntityBranding, id, ActionUpdate)
	s.Log(EntityBranding, id, ActionAsset)

	t.Cleanup(func() {
		db.Exec("DELETE FROM cache_invalidation_log WHERE entity_id = $1", id)
	})

	entries, err := s.RecentEntries(id, 10)
	if err != nil {
		t.Fatalf("RecentEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Action != ActionAsset {
		t.Errorf("newest entry: got %q, want %q", entries[0].Action, ActionAsset)
	}
	if entries[0].EntityType != EntityBranding {
		t.Errorf("entity type: got %q", entries[0].EntityType)
	}

	limited, err := s.RecentEntries(id, 1)
	if err != nil {
		t.Fatalf("RecentEntries: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit: got %d entries", len(limited))
	}
}
