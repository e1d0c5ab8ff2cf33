// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"time"

	"github.com/bitsa/bitsa-web/internal/cache"
	"github.com/bitsa/bitsa-web/internal/model"
)

// Cache keys for the public read endpoints.
const (
	keyEvents     = "api:events"
	keyPosts      = "api:posts"
	keyPhotos     = "api:photos"
	keyLeadership = "api:leadership:"
	keyStats      = "api:stats"
)

// Cached serves the public read endpoints through the cache layer.
// Only anonymous-visible data is cached; per-member calls (my-events,
// profile, admin) always go to the API directly.
type Cached struct {
	client *Client

	events     *cache.TypedCache[[]model.Event]
	posts      *cache.TypedCache[[]model.BlogPost]
	photos     *cache.TypedCache[[]model.Photo]
	leadership *cache.TypedCache[[]model.Leader]
	stats      *cache.TypedCache[model.Stats]
}

// NewCached wraps client with the given cache backend and TTL.
func NewCached(client *Client, backend cache.Cache, ttl time.Duration) *Cached {
	return &Cached{
		client:     client,
		events:     cache.NewTypedCache[[]model.Event](backend, ttl),
		posts:      cache.NewTypedCache[[]model.BlogPost](backend, ttl),
		photos:     cache.NewTypedCache[[]model.Photo](backend, ttl),
		leadership: cache.NewTypedCache[[]model.Leader](backend, ttl),
		stats:      cache.NewTypedCache[model.Stats](backend, ttl),
	}
}

// Client returns the underlying uncached client, for authenticated calls.
func (c *Cached) Client() *Client {
	return c.client
}

// ListEvents returns all events, cached.
func (c *Cached) ListEvents(ctx context.Context) ([]model.Event, error) {
	items, err := c.events.GetOrSet(ctx, keyEvents, func() (*[]model.Event, error) {
		list, err := c.client.ListEvents(ctx)
		if err != nil {
			return nil, err
		}
		return &list, nil
	})
	if err != nil {
		return nil, err
	}
	return *items, nil
}

// ListPosts returns all blog posts, cached.
func (c *Cached) ListPosts(ctx context.Context) ([]model.BlogPost, error) {
	items, err := c.posts.GetOrSet(ctx, keyPosts, func() (*[]model.BlogPost, error) {
		list, err := c.client.ListPosts(ctx)
		if err != nil {
			return nil, err
		}
		return &list, nil
	})
	if err != nil {
		return nil, err
	}
	return *items, nil
}

// ListPhotos returns all gallery photos, cached.
func (c *Cached) ListPhotos(ctx context.Context) ([]model.Photo, error) {
	items, err := c.photos.GetOrSet(ctx, keyPhotos, func() (*[]model.Photo, error) {
		list, err := c.client.ListPhotos(ctx)
		if err != nil {
			return nil, err
		}
		return &list, nil
	})
	if err != nil {
		return nil, err
	}
	return *items, nil
}

// ListLeadership returns leadership profiles of the given type, cached.
func (c *Cached) ListLeadership(ctx context.Context, leadershipType string) ([]model.Leader, error) {
	key := keyLeadership + leadershipType
	items, err := c.leadership.GetOrSet(ctx, key, func() (*[]model.Leader, error) {
		list, err := c.client.ListLeadership(ctx, leadershipType)
		if err != nil {
			return nil, err
		}
		return &list, nil
	})
	if err != nil {
		return nil, err
	}
	return *items, nil
}

// Stats returns the association counters, cached.
func (c *Cached) Stats(ctx context.Context) (*model.Stats, error) {
	return c.stats.GetOrSet(ctx, keyStats, func() (*model.Stats, error) {
		return c.client.Stats(ctx)
	})
}

// Invalidate drops all cached API responses, forcing fresh fetches.
// Called after an RSVP changes attendee counts and from the admin
// dashboard's refresh action.
func (c *Cached) Invalidate(ctx context.Context) {
	_ = c.events.Delete(ctx, keyEvents)
	_ = c.posts.Delete(ctx, keyPosts)
	_ = c.photos.Delete(ctx, keyPhotos)
	_ = c.stats.Delete(ctx, keyStats)
	for _, lt := range []string{"", model.LeadershipTop, model.LeadershipStudent} {
		_ = c.leadership.Delete(ctx, keyLeadership+lt)
	}
}

// InvalidateEvents drops only the cached event list.
func (c *Cached) InvalidateEvents(ctx context.Context) {
	_ = c.events.Delete(ctx, keyEvents)
}

// Warm pre-fetches every cached endpoint. Errors are returned for
// logging but a partial warm is fine.
func (c *Cached) Warm(ctx context.Context) error {
	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	_, err := c.ListEvents(ctx)
	record(err)
	_, err = c.ListPosts(ctx)
	record(err)
	_, err = c.ListPhotos(ctx)
	record(err)
	_, err = c.ListLeadership(ctx, model.LeadershipTop)
	record(err)
	_, err = c.ListLeadership(ctx, model.LeadershipStudent)
	record(err)
	_, err = c.Stats(ctx)
	record(err)

	return firstErr
}
