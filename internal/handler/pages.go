// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/bitsa/bitsa-web/internal/api"
	"github.com/bitsa/bitsa-web/internal/model"
	"github.com/bitsa/bitsa-web/internal/render"
	"github.com/bitsa/bitsa-web/internal/validation"
)

// PagesHandler serves the marketing pages: home, about and contact.
type PagesHandler struct {
	api      *api.Cached
	renderer *render.Renderer
}

// NewPagesHandler creates a new PagesHandler.
func NewPagesHandler(cached *api.Cached, renderer *render.Renderer) *PagesHandler {
	return &PagesHandler{api: cached, renderer: renderer}
}

// HomeData is the template data for the home page.
type HomeData struct {
	Stats          *model.Stats
	UpcomingEvents []model.Event
	LatestPosts    []model.BlogPost
	APIOrigin      string
}

// Home renders the landing page. Each section degrades independently:
// a failed stats fetch leaves the counters hidden, it does not take the
// page down.
func (h *PagesHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := HomeData{APIOrigin: h.api.Client().Origin()}

	stats, err := h.api.Stats(ctx)
	if err != nil {
		slog.Warn("home: stats unavailable", "error", err)
	} else {
		data.Stats = stats
	}

	events, err := h.api.ListEvents(ctx)
	if err != nil {
		slog.Warn("home: events unavailable", "error", err)
	} else {
		data.UpcomingEvents = nextEvents(events, time.Now(), 3)
	}

	posts, err := h.api.ListPosts(ctx)
	if err != nil {
		slog.Warn("home: posts unavailable", "error", err)
	} else {
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].Published().After(posts[j].Published())
		})
		if len(posts) > 3 {
			posts = posts[:3]
		}
		data.LatestPosts = posts
	}

	renderPage(w, r, h.renderer, "home", pageData(r, "BITSA - Bugema University IT Students Association", data))
}

// AboutData is the template data for the about page.
type AboutData struct {
	TopLeaders     []model.Leader
	StudentLeaders []model.Leader
	APIOrigin      string
}

// About renders the about page with both leadership tiers.
func (h *PagesHandler) About(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := AboutData{APIOrigin: h.api.Client().Origin()}

	top, err := h.api.ListLeadership(ctx, model.LeadershipTop)
	if err != nil {
		slog.Warn("about: top leadership unavailable", "error", err)
	} else {
		data.TopLeaders = activeLeaders(top)
	}

	student, err := h.api.ListLeadership(ctx, model.LeadershipStudent)
	if err != nil {
		slog.Warn("about: student leadership unavailable", "error", err)
	} else {
		data.StudentLeaders = activeLeaders(student)
	}

	renderPage(w, r, h.renderer, "about", pageData(r, "About Us", data))
}

// ContactForm renders the contact page.
func (h *PagesHandler) ContactForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, "contact", pageData(r, "Contact Us", ContactData{}))
}

// ContactData is the template data for the contact page.
type ContactData struct {
	Form   validation.ContactForm
	Errors map[string]string
}

// Contact handles the contact form submission. There is no inbox
// integration; the message is logged for the committee to pick up.
func (h *PagesHandler) Contact(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectContact) {
		return
	}

	form := validation.ContactForm{
		Name:    r.FormValue("name"),
		Email:   r.FormValue("email"),
		Message: r.FormValue("message"),
	}
	if errs := validation.Check(&form); len(errs) > 0 {
		data := pageData(r, "Contact Us", ContactData{Form: form, Errors: errs})
		renderPage(w, r, h.renderer, "contact", data)
		return
	}

	slog.Info("contact message received",
		"name", form.Name,
		"email", form.Email,
		"length", len(form.Message),
	)

	flashSuccess(w, r, h.renderer, redirectContact, "Thanks for reaching out. We will get back to you soon.")
}

// nextEvents returns up to limit upcoming events, soonest first.
func nextEvents(events []model.Event, now time.Time, limit int) []model.Event {
	upcoming := make([]model.Event, 0, len(events))
	for _, e := range events {
		if e.IsUpcoming(now) {
			upcoming = append(upcoming, e)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].StartsAt().Before(upcoming[j].StartsAt())
	})
	if len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return upcoming
}

// activeLeaders filters out leaders the API marked inactive.
func activeLeaders(leaders []model.Leader) []model.Leader {
	active := make([]model.Leader, 0, len(leaders))
	for _, l := range leaders {
		if l.IsActive {
			active = append(active, l)
		}
	}
	return active
}
