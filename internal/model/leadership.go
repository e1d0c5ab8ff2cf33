// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Leadership types used by GET leadership/?type=.
const (
	LeadershipTop     = "top"
	LeadershipStudent = "student"
)

// Leader represents a leadership profile as served by GET leadership/.
type Leader struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Position       string `json:"position"`
	Department     string `json:"department,omitempty"`
	Image          string `json:"image_url,omitempty"`
	LeadershipType string `json:"leadership_type"`
	IsActive       bool   `json:"is_active"`
}

// ImageURL resolves the profile image against the API origin.
func (l Leader) ImageURL(apiOrigin string) string {
	return resolveMediaURL(l.Image, apiOrigin)
}
