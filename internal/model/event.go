// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// Event statuses used by the association API.
const (
	EventStatusUpcoming = "upcoming"
	EventStatusPast     = "past"
)

// RSVP statuses returned by POST events/{id}/rsvp/. The API historically
// answered "added" and newer deployments answer "confirmed"; both mean the
// attendance now exists.
const (
	RSVPAdded     = "added"
	RSVPConfirmed = "confirmed"
	RSVPRemoved   = "removed"
)

// Event represents an association event as served by GET events/.
type Event struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	Image       string `json:"image,omitempty"`
	Capacity    *int   `json:"capacity,omitempty"`
	Attendees   int    `json:"attendees_count,omitempty"`

	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// RSVPResult is the response body of POST events/{id}/rsvp/.
type RSVPResult struct {
	Status string `json:"status"`
}

// Attending reports whether the toggle left the caller on the attendee list.
func (r RSVPResult) Attending() bool {
	return r.Status == RSVPAdded || r.Status == RSVPConfirmed
}

// ImageURL resolves the event image against the API origin. The API
// serializes relative media paths (e.g. /media/events/x.jpg) for uploads
// and absolute URLs for external images.
func (e Event) ImageURL(apiOrigin string) string {
	return resolveMediaURL(e.Image, apiOrigin)
}

// StartsAt parses the event's date and time fields into a single moment.
// Returns the zero time when either field is missing or malformed.
func (e Event) StartsAt() time.Time {
	if e.Date == "" {
		return time.Time{}
	}
	layout := "2006-01-02"
	value := e.Date
	if e.Time != "" {
		layout = "2006-01-02 15:04"
		value = e.Date + " " + e.Time
		// The API sometimes includes seconds.
		if strings.Count(e.Time, ":") == 2 {
			layout = "2006-01-02 15:04:05"
		}
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// IsUpcoming reports whether the event starts at or after now.
func (e Event) IsUpcoming(now time.Time) bool {
	start := e.StartsAt()
	return !start.IsZero() && !start.Before(now)
}

// resolveMediaURL joins a possibly relative media path with the API origin.
func resolveMediaURL(raw, apiOrigin string) string {
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return strings.TrimRight(apiOrigin, "/") + "/" + strings.TrimLeft(raw, "/")
}
