// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// render.go provides the Valkey-backed cache of rendered template HTML (L2).
// It sits in front of the engine's in-process cache so that every replica
// shares renders. Keys carry the photographer id so a branding change can
// drop all of a photographer's renders with one scan.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	renderKeyPrefix = "render:"

	// DefaultRenderTTL is how long a rendered template stays cached.
	DefaultRenderTTL = 10 * time.Minute
)

// RenderKey identifies one render of a template version against a
// branding version.
type RenderKey struct {
	PhotographerID  uuid.UUID
	TemplateID      uuid.UUID
	Version         int
	BrandingVersion int
}

func (k RenderKey) String() string {
	return fmt.Sprintf("%s%s:%s:%d:%d", renderKeyPrefix, k.PhotographerID, k.TemplateID, k.Version, k.BrandingVersion)
}

// RenderCache stores rendered HTML in Valkey. All methods are best effort:
// errors are logged and reported as a miss.
type RenderCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRenderCache creates a render cache backed by client. A zero ttl uses
// DefaultRenderTTL.
func NewRenderCache(client *redis.Client, ttl time.Duration) *RenderCache {
	if ttl == 0 {
		ttl = DefaultRenderTTL
	}
	return &RenderCache{client: client, ttl: ttl}
}

// Get returns the cached HTML for k.
func (rc *RenderCache) Get(ctx context.Context, k RenderKey) ([]byte, bool) {
	val, err := rc.client.Get(ctx, k.String()).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("render cache get error", "key", k.String(), "error", err)
		return nil, false
	}
	slog.Debug("render cache hit", "key", k.String())
	return val, true
}

// Set stores rendered HTML for k with the configured TTL.
func (rc *RenderCache) Set(ctx context.Context, k RenderKey, html []byte) {
	if err := rc.client.Set(ctx, k.String(), html, rc.ttl).Err(); err != nil {
		slog.Warn("render cache set error", "key", k.String(), "error", err)
	}
}

// InvalidateTemplate removes every cached render of one template.
func (rc *RenderCache) InvalidateTemplate(ctx context.Context, photographerID, templateID uuid.UUID) int {
	return rc.deleteMatching(ctx, fmt.Sprintf("%s%s:%s:*", renderKeyPrefix, photographerID, templateID))
}

// InvalidatePhotographer removes every cached render for a photographer.
func (rc *RenderCache) InvalidatePhotographer(ctx context.Context, photographerID uuid.UUID) int {
	return rc.deleteMatching(ctx, fmt.Sprintf("%s%s:*", renderKeyPrefix, photographerID))
}

// InvalidateAll removes all cached renders.
func (rc *RenderCache) InvalidateAll(ctx context.Context) int {
	n := rc.deleteMatching(ctx, renderKeyPrefix+"*")
	if n > 0 {
		slog.Info("render cache fully cleared", "deleted", n)
	}
	return n
}

// deleteMatching scans for pattern and deletes the keys found. It returns
// the number of keys deleted.
func (rc *RenderCache) deleteMatching(ctx context.Context, pattern string) int {
	var cursor uint64
	var deleted int
	for {
		keys, next, err := rc.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			slog.Warn("render cache scan error", "pattern", pattern, "error", err)
			return deleted
		}
		if len(keys) > 0 {
			if err := rc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("render cache bulk delete error", "error", err)
			} else {
				deleted += len(keys)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	slog.Debug("render cache invalidated", "pattern", pattern, "deleted", deleted)
	return deleted
}
