// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// BrandingChannel is the pub/sub channel carrying branding change events.
// The payload is the photographer id.
const BrandingChannel = "branding:changed"

// BrandingEvents publishes and receives branding change notifications over
// Valkey pub/sub, so every replica drops stale renders.
type BrandingEvents struct {
	client  *redis.Client
	channel string
}

// NewBrandingEvents creates a notifier on BrandingChannel.
func NewBrandingEvents(client *redis.Client) *BrandingEvents {
	return &BrandingEvents{client: client, channel: BrandingChannel}
}

// Publish announces that a photographer's branding changed.
func (b *BrandingEvents) Publish(ctx context.Context, photographerID uuid.UUID) error {
	if err := b.client.Publish(ctx, b.channel, photographerID.String()).Err(); err != nil {
		return fmt.Errorf("publish branding change: %w", err)
	}
	return nil
}

// Subscribe returns a channel of photographer ids whose branding changed.
// The channel is closed when ctx is cancelled. Malformed payloads are
// logged and dropped.
func (b *BrandingEvents) Subscribe(ctx context.Context) (<-chan uuid.UUID, error) {
	ps := b.client.Subscribe(ctx, b.channel)
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", b.channel, err)
	}

	out := make(chan uuid.UUID)
	go func() {
		defer close(out)
		defer ps.Close()

		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				id, err := uuid.Parse(msg.Payload)
				if err != nil {
					slog.Warn("invalid branding event", "payload", msg.Payload, "error", err)
					continue
				}
				select {
				case out <- id:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
