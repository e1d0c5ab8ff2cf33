// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bitsa/bitsa-web/internal/api"
	"github.com/bitsa/bitsa-web/internal/listing"
	"github.com/bitsa/bitsa-web/internal/middleware"
	"github.com/bitsa/bitsa-web/internal/model"
	"github.com/bitsa/bitsa-web/internal/render"
	"github.com/bitsa/bitsa-web/internal/session"
)

// EventsHandler serves the events listing, detail and RSVP routes.
type EventsHandler struct {
	api      *api.Cached
	sessions *session.Store
	renderer *render.Renderer
	metrics  *middleware.Metrics
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(cached *api.Cached, sessions *session.Store, renderer *render.Renderer, metrics *middleware.Metrics) *EventsHandler {
	return &EventsHandler{api: cached, sessions: sessions, renderer: renderer, metrics: metrics}
}

// EventsData is the template data for the events listing.
type EventsData struct {
	Upcoming   []model.Event
	Past       []model.Event
	Categories []string
	Selected   listing.Selection
	APIOrigin  string
}

// List renders the events page split into upcoming and past sections.
// The category filter applies to both sections at once.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.api.ListEvents(r.Context())
	if err != nil {
		h.metrics.RecordUpstreamError()
		flashError(w, r, h.renderer, redirectHome, api.Message(err, "Events are unavailable right now."))
		return
	}

	sel := listing.ParseSelection(r)
	data := EventsData{
		Categories: listing.Options(events, func(e model.Event) string { return e.Category }),
		Selected:   sel,
		APIOrigin:  h.api.Client().Origin(),
	}

	now := time.Now()
	for _, e := range events {
		if sel.Category != listing.All && e.Category != sel.Category {
			continue
		}
		if e.IsUpcoming(now) {
			data.Upcoming = append(data.Upcoming, e)
		} else {
			data.Past = append(data.Past, e)
		}
	}
	sort.SliceStable(data.Upcoming, func(i, j int) bool {
		return data.Upcoming[i].StartsAt().Before(data.Upcoming[j].StartsAt())
	})
	sort.SliceStable(data.Past, func(i, j int) bool {
		return data.Past[i].StartsAt().After(data.Past[j].StartsAt())
	})

	renderPage(w, r, h.renderer, "events", pageData(r, "Events", data))
}

// EventDetailData is the template data for a single event.
type EventDetailData struct {
	Event     model.Event
	Attending bool
	APIOrigin string
}

// Detail renders a single event. The detail always comes straight from
// the API so the attendee count is current.
func (h *EventsHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := idParam(chi.URLParam(r, "id"))
	if id == 0 {
		h.notFound(w, r)
		return
	}

	event, err := h.api.Client().GetEvent(r.Context(), id)
	if err != nil {
		if api.IsNotFound(err) {
			h.notFound(w, r)
			return
		}
		h.metrics.RecordUpstreamError()
		flashError(w, r, h.renderer, redirectEvents, api.Message(err, "Could not load the event."))
		return
	}

	data := EventDetailData{
		Event:     *event,
		Attending: h.attending(r, id),
		APIOrigin: h.api.Client().Origin(),
	}
	renderPage(w, r, h.renderer, "event_detail", pageData(r, event.Title, data))
}

// RSVP toggles the signed-in member's attendance for an event. The API
// answers with the resulting state, so the flash message follows the
// response rather than guessing.
func (h *EventsHandler) RSVP(w http.ResponseWriter, r *http.Request) {
	id := idParam(chi.URLParam(r, "id"))
	if id == 0 {
		h.notFound(w, r)
		return
	}
	back := fmt.Sprintf(redirectEventsID, id)

	token := middleware.GetToken(r)
	if token == "" {
		flashError(w, r, h.renderer, redirectRegister, "Sign in to RSVP for events.")
		return
	}

	result, err := h.api.Client().WithToken(token).RSVP(r.Context(), id)
	if err != nil {
		// The API refuses some RSVPs outright (admins cannot attend as
		// members); that 403 is a message, not a dead session.
		if api.IsForbidden(err) {
			flashError(w, r, h.renderer, back, api.Message(err, "You cannot RSVP for this event."))
			return
		}
		if api.IsAuth(err) {
			sessionExpired(w, r, h.renderer, h.sessions)
			return
		}
		h.metrics.RecordUpstreamError()
		flashError(w, r, h.renderer, back, api.Message(err, "Could not update your RSVP."))
		return
	}

	// Attendee counts changed, so cached listings are stale.
	h.api.InvalidateEvents(r.Context())

	if result.Attending() {
		flashSuccess(w, r, h.renderer, back, "You are attending this event. See you there!")
		return
	}
	flashSuccess(w, r, h.renderer, back, "Your RSVP has been cancelled.")
}

// attending reports whether the signed-in member is on the attendee
// list. Anonymous visitors and API failures read as not attending.
func (h *EventsHandler) attending(r *http.Request, eventID int64) bool {
	token := middleware.GetToken(r)
	if token == "" {
		return false
	}
	mine, err := h.api.Client().WithToken(token).MyEvents(r.Context())
	if err != nil {
		return false
	}
	for _, e := range mine {
		if e.ID == eventID {
			return true
		}
	}
	return false
}

func (h *EventsHandler) notFound(w http.ResponseWriter, r *http.Request) {
	data := pageData(r, "Event Not Found", nil)
	if err := h.renderer.RenderStatus(w, r, "404", http.StatusNotFound, data); err != nil {
		http.NotFound(w, r)
	}
}
