// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// BlogPost represents a published article as served by GET blogs/posts/.
// The list endpoint omits Content; the detail endpoint includes it.
type BlogPost struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Excerpt      string    `json:"excerpt"`
	Content      string    `json:"content,omitempty"`
	Category     string    `json:"category"`
	Tags         []string  `json:"tags"`
	AuthorName   string    `json:"author_name"`
	AuthorAvatar string    `json:"author_avatar,omitempty"`
	Image        string    `json:"image_url,omitempty"`
	ReadTime     string    `json:"read_time,omitempty"`
	PublishedAt  time.Time `json:"published_at,omitzero"`
	CreatedAt    time.Time `json:"created_at,omitzero"`
}

// Published returns the publication moment, falling back to the creation
// time for posts the API serialized before the published_at field existed.
func (p BlogPost) Published() time.Time {
	if !p.PublishedAt.IsZero() {
		return p.PublishedAt
	}
	return p.CreatedAt
}

// HasTag reports whether the post carries the given tag.
func (p BlogPost) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ImageURL resolves the cover image against the API origin.
func (p BlogPost) ImageURL(apiOrigin string) string {
	return resolveMediaURL(p.Image, apiOrigin)
}
