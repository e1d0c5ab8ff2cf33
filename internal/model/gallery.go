// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Photo represents a gallery entry as served by GET gallery/photos/.
type Photo struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image_url"`
	Category    string    `json:"category,omitempty"`
	UploadedBy  string    `json:"uploaded_by_name"`
	UploadedAt  time.Time `json:"uploaded_at,omitzero"`
}

// ImageURL resolves the photo against the API origin.
func (p Photo) ImageURL(apiOrigin string) string {
	return resolveMediaURL(p.Image, apiOrigin)
}
