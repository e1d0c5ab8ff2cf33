// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"sort"

	"github.com/bitsa/bitsa-web/internal/api"
	"github.com/bitsa/bitsa-web/internal/middleware"
	"github.com/bitsa/bitsa-web/internal/model"
	"github.com/bitsa/bitsa-web/internal/render"
	"github.com/bitsa/bitsa-web/internal/session"
	"github.com/bitsa/bitsa-web/internal/validation"
)

// ProfileHandler serves the signed-in member's profile and event list.
type ProfileHandler struct {
	api      *api.Cached
	sessions *session.Store
	renderer *render.Renderer
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(cached *api.Cached, sessions *session.Store, renderer *render.Renderer) *ProfileHandler {
	return &ProfileHandler{api: cached, sessions: sessions, renderer: renderer}
}

// ProfileData is the template data for the profile page.
type ProfileData struct {
	MyEvents  []model.Event
	Errors    map[string]string
	APIOrigin string
}

// Show renders the profile page with the member's RSVPed events.
func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	data := ProfileData{APIOrigin: h.api.Client().Origin()}

	token := middleware.GetToken(r)
	if token != "" {
		events, err := h.api.Client().WithToken(token).MyEvents(r.Context())
		if err != nil {
			slog.Warn("profile: my events unavailable", "error", err, "user_id", middleware.GetUserID(r))
		} else {
			sort.SliceStable(events, func(i, j int) bool {
				return events[i].StartsAt().Before(events[j].StartsAt())
			})
			data.MyEvents = events
		}
	}

	renderPage(w, r, h.renderer, "profile", pageData(r, "My Profile", data))
}

// Update changes the member's display name through the API and keeps
// the session copy in step.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectProfile) {
		return
	}

	form := validation.ProfileForm{Name: r.FormValue("name")}
	if errs := validation.Check(&form); len(errs) > 0 {
		data := ProfileData{Errors: errs, APIOrigin: h.api.Client().Origin()}
		renderPage(w, r, h.renderer, "profile", pageData(r, "My Profile", data))
		return
	}

	token := middleware.GetToken(r)
	if token == "" {
		sessionExpired(w, r, h.renderer, h.sessions)
		return
	}

	updated, err := h.api.Client().WithToken(token).UpdateProfile(r.Context(), map[string]string{"name": form.Name})
	if err != nil {
		if api.IsAuth(err) {
			sessionExpired(w, r, h.renderer, h.sessions)
			return
		}
		flashError(w, r, h.renderer, redirectProfile, api.Message(err, "Could not update your profile."))
		return
	}

	if user := middleware.GetUser(r); user != nil {
		user.Name = updated.Name
		if err := h.sessions.Update(r.Context(), *user); err != nil {
			slog.Error("failed to update session profile", "error", err, "user_id", user.ID)
		}
	}

	flashSuccess(w, r, h.renderer, redirectProfile, "Your profile has been updated.")
}
