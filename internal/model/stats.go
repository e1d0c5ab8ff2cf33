// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Stats is the association-wide counter set from GET auth/stats/,
// shown on the home page hero.
type Stats struct {
	ActiveMembers int `json:"active_members"`
	AnnualEvents  int `json:"annual_events"`
	Projects      int `json:"projects"`
}
