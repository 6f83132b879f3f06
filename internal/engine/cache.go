// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// cache.go holds the L1 cache of rendered template bodies. Entries are
// keyed by template id and version plus the branding version, so saving
// either the template or the branding profile produces a cache miss.
package engine

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// cacheKey identifies one render of one template version against one
// branding version.
type cacheKey struct {
	photographer uuid.UUID
	template     uuid.UUID
	version      int
	brandVersion int
}

// renderCache is a concurrency-safe in-memory cache of rendered output.
type renderCache struct {
	mu      sync.RWMutex
	entries map[cacheKey]Output
}

func newRenderCache() *renderCache {
	return &renderCache{
		entries: make(map[cacheKey]Output),
	}
}

// get returns the cached output for k and whether it was present.
func (c *renderCache) get(k cacheKey) (Output, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out, ok := c.entries[k]
	return out, ok
}

func (c *renderCache) put(k cacheKey, out Output) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[k] = out
	slog.Debug("render cached", "template", k.template, "version", k.version, "branding_version", k.brandVersion, "size", len(c.entries))
}

// invalidateTemplate drops every cached version of one template.
func (c *renderCache) invalidateTemplate(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.template == id {
			delete(c.entries, k)
		}
	}
	slog.Debug("render cache invalidated", "template", id)
}

// invalidatePhotographer drops every entry rendered for one photographer.
// Called when their branding changes.
func (c *renderCache) invalidatePhotographer(id uuid.UUID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.entries {
		if k.photographer == id {
			delete(c.entries, k)
			n++
		}
	}
	slog.Debug("render cache invalidated", "photographer", id, "removed", n)
	return n
}

func (c *renderCache) invalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]Output)
	slog.Debug("render cache fully cleared")
}

func (c *renderCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
