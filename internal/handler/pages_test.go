// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/bitsa/bitsa-web/internal/model"
)

func TestHome(t *testing.T) {
	env := newTestEnv(t)
	env.stub.JSON("/api/auth/stats/", `{"active_members": 120, "annual_events": 12, "projects": 8}`)
	future := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	env.stub.JSON("/api/events/", fmt.Sprintf(
		`[{"id": 1, "title": "Tech Summit", "date": %q, "time": "14:00", "category": "workshop"}]`, future))
	env.stub.JSON("/api/blogs/posts/", `[]`)

	h := NewPagesHandler(env.cached, env.renderer)
	w := env.do(t, http.HandlerFunc(h.Home), httptest.NewRequest("GET", "/", nil), nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `<span id="members">120</span>`) {
		t.Errorf("stats not rendered: %s", body)
	}
	if !strings.Contains(body, "Tech Summit") {
		t.Errorf("upcoming event not rendered: %s", body)
	}
}

func TestHomeSurvivesAPIOutage(t *testing.T) {
	env := newTestEnv(t)
	// No stub routes registered: every fetch 404s.

	h := NewPagesHandler(env.cached, env.renderer)
	w := env.do(t, http.HandlerFunc(h.Home), httptest.NewRequest("GET", "/", nil), nil)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 despite API failures", w.Code)
	}
	if strings.Contains(w.Body.String(), `id="members"`) {
		t.Error("stats section rendered without data")
	}
}

func TestAbout(t *testing.T) {
	env := newTestEnv(t)
	env.stub.Handle("/api/leadership/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("type") {
		case model.LeadershipTop:
			fmt.Fprint(w, `[{"id": 1, "name": "Dr. Okello", "position": "Patron", "leadership_type": "top", "is_active": true}]`)
		default:
			fmt.Fprint(w, `[{"id": 2, "name": "Mary A.", "position": "President", "leadership_type": "student", "is_active": true},
				{"id": 3, "name": "Gone B.", "position": "Ex", "leadership_type": "student", "is_active": false}]`)
		}
	})

	h := NewPagesHandler(env.cached, env.renderer)
	w := env.do(t, http.HandlerFunc(h.About), httptest.NewRequest("GET", "/about", nil), nil)

	body := w.Body.String()
	if !strings.Contains(body, `<div class="top">Dr. Okello</div>`) {
		t.Errorf("top leader not rendered: %s", body)
	}
	if !strings.Contains(body, `<div class="student">Mary A.</div>`) {
		t.Errorf("student leader not rendered: %s", body)
	}
	if strings.Contains(body, "Gone B.") {
		t.Error("inactive leader rendered")
	}
}

func TestContactValidation(t *testing.T) {
	env := newTestEnv(t)
	h := NewPagesHandler(env.cached, env.renderer)

	r := formRequest("/contact", url.Values{
		"name":    {"Jane"},
		"email":   {"not-an-email"},
		"message": {"Hello, I want to join the association."},
	})
	w := env.do(t, http.HandlerFunc(h.Contact), r, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (re-rendered form)", w.Code)
	}
	if !strings.Contains(w.Body.String(), `<p class="err">email</p>`) {
		t.Errorf("email error not rendered: %s", w.Body.String())
	}
}

func TestContactSuccess(t *testing.T) {
	env := newTestEnv(t)
	h := NewPagesHandler(env.cached, env.renderer)

	r := formRequest("/contact", url.Values{
		"name":    {"Jane Doe"},
		"email":   {"jane@bitsa.org"},
		"message": {"Hello, I want to join the association."},
	})
	w := env.do(t, http.HandlerFunc(h.Contact), r, nil)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != RouteContact {
		t.Errorf("Location = %q, want %q", loc, RouteContact)
	}
}

func TestNextEvents(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	events := []model.Event{
		{ID: 1, Title: "past", Date: "2026-02-20"},
		{ID: 2, Title: "later", Date: "2026-04-10"},
		{ID: 3, Title: "soon", Date: "2026-03-05"},
		{ID: 4, Title: "soonest", Date: "2026-03-02"},
		{ID: 5, Title: "last", Date: "2026-05-01"},
	}

	got := nextEvents(events, now, 3)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	want := []string{"soonest", "soon", "later"}
	for i, title := range want {
		if got[i].Title != title {
			t.Errorf("got[%d] = %q, want %q", i, got[i].Title, title)
		}
	}
}
