// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session provides the Valkey-backed store for composer drafts.
// A draft holds an email document while it is being edited; it lives only
// until it is explicitly saved as a template, discarded, or its TTL runs out.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"shutterflow/internal/models"
)

const (
	// DefaultTTL is how long an untouched draft lives in Valkey.
	DefaultTTL = 24 * time.Hour

	// keyPrefix namespaces draft keys in Valkey to avoid collisions.
	keyPrefix = "draft:"

	// idLength is the byte length of the random draft ID (16 bytes = 32 hex chars).
	idLength = 16
)

// ErrConflict is returned by Update when the stored draft changed after it
// was loaded.
var ErrConflict = errors.New("draft modified concurrently")

// Draft is one editing session. Revision increases with every stored
// update and guards against lost writes.
type Draft struct {
	ID             string          `json:"id"`
	PhotographerID uuid.UUID       `json:"photographer_id"`
	TemplateID     *uuid.UUID      `json:"template_id,omitempty"` // nil until first save
	Document       models.Document `json:"document"`
	OpenPickers    []string        `json:"open_pickers,omitempty"`
	Revision       int             `json:"revision"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Store manages draft lifecycle in Valkey.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a draft store backed by the given Valkey client. A zero
// ttl uses DefaultTTL.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Store{client: client, ttl: ttl}
}

// Create assigns the draft a new ID, stores it and returns the ID.
func (s *Store) Create(ctx context.Context, d *Draft) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("draft create: %w", err)
	}
	d.ID = id
	d.Revision = 1
	d.CreatedAt = time.Now().UTC()
	d.UpdatedAt = d.CreatedAt

	if err := s.put(ctx, d); err != nil {
		return "", fmt.Errorf("draft create: %w", err)
	}
	return id, nil
}

// Get loads a draft owned by photographerID. Returns nil if the draft does
// not exist, has expired, or belongs to someone else.
func (s *Store) Get(ctx context.Context, photographerID uuid.UUID, id string) (*Draft, error) {
	payload, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("draft get: %w", err)
	}

	var d Draft
	if err := json.Unmarshal(payload, &d); err != nil {
		return nil, fmt.Errorf("draft unmarshal: %w", err)
	}
	if d.PhotographerID != photographerID {
		return nil, nil
	}
	return &d, nil
}

// Update replaces the stored draft and resets its TTL. The stored revision
// must still equal d.Revision; otherwise, or if the key changes during the
// write, it returns ErrConflict and nothing is stored. On success d carries
// the new revision.
func (s *Store) Update(ctx context.Context, d *Draft) error {
	key := keyPrefix + d.ID
	next := *d
	next.Revision++
	next.UpdatedAt = time.Now().UTC()

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		payload, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return ErrConflict
		}
		if err != nil {
			return err
		}
		var stored struct {
			Revision int `json:"revision"`
		}
		if err := json.Unmarshal(payload, &stored); err != nil {
			return fmt.Errorf("unmarshal: %w", err)
		}
		if stored.Revision != d.Revision {
			return ErrConflict
		}

		payload, err = json.Marshal(&next)
		if err != nil {
			return fmt.Errorf("marshal: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.ttl)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		err = ErrConflict
	}
	if err != nil {
		return fmt.Errorf("draft update: %w", err)
	}
	d.Revision = next.Revision
	d.UpdatedAt = next.UpdatedAt
	return nil
}

// Delete removes a draft. Deleting a missing draft is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("draft delete: %w", err)
	}
	return nil
}

func (s *Store) put(ctx context.Context, d *Draft) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return s.client.Set(ctx, keyPrefix+d.ID, payload, s.ttl).Err()
}

// generateID creates a cryptographically random draft identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
