// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/bitsa/bitsa-web/internal/session"
	"github.com/bitsa/bitsa-web/internal/version"
)

func adminRouter(h *AdminHandler) chi.Router {
	r := chi.NewRouter()
	r.Get("/admin", h.Dashboard)
	r.Get("/admin/users", h.Users)
	r.Post("/admin/users", h.AddUser)
	r.Post("/admin/users/{id}/toggle-block", h.ToggleUserBlock)
	r.Post("/admin/cache/clear", h.ClearCache)
	return r
}

func newAdminHandler(env *testEnv) *AdminHandler {
	return NewAdminHandler(env.cached, env.sessions, env.renderer, env.backend, nil, version.Info{Version: "test"})
}

func adminCookies(t *testing.T, env *testEnv) []*http.Cookie {
	t.Helper()
	return env.signInCookies(t, session.User{ID: 1, Name: "Admin", Role: "admin"}, "admin-tok")
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	env.stub.JSON("/api/auth/stats/", `{"active_members": 50, "annual_events": 6, "projects": 3}`)
	env.stub.JSON("/api/auth/users/", `[{"id": 1, "name": "Admin", "email": "admin@bitsa.org", "role": "admin", "is_active": true}]`)

	h := newAdminHandler(env)
	w := env.do(t, adminRouter(h), httptest.NewRequest("GET", "/admin", nil), adminCookies(t, env))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `id="hits"`) {
		t.Errorf("cache stats not rendered: %s", w.Body.String())
	}
}

func TestAdminUsersList(t *testing.T) {
	env := newTestEnv(t)
	env.stub.JSON("/api/auth/users/", `[
		{"id": 1, "name": "Admin", "email": "admin@bitsa.org", "role": "admin", "is_active": true},
		{"id": 2, "name": "Jane", "email": "jane@bitsa.org", "role": "student", "is_active": true}
	]`)

	h := newAdminHandler(env)
	w := env.do(t, adminRouter(h), httptest.NewRequest("GET", "/admin/users", nil), adminCookies(t, env))

	body := w.Body.String()
	if !strings.Contains(body, "jane@bitsa.org") {
		t.Errorf("member row missing: %s", body)
	}
}

func TestAdminAddUser(t *testing.T) {
	env := newTestEnv(t)

	var gotAuth string
	env.stub.Handle("/api/auth/users/add/", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 3, "name": "Paul", "email": "paul@bitsa.org", "role": "student", "is_active": true}`)
	})

	h := newAdminHandler(env)
	r := formRequest("/admin/users", url.Values{
		"name":     {"Paul Okii"},
		"email":    {"paul@bitsa.org"},
		"password": {"longenough"},
		"role":     {"student"},
	})
	w := env.do(t, adminRouter(h), r, adminCookies(t, env))

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != redirectAdminUsers {
		t.Errorf("Location = %q, want %q", loc, redirectAdminUsers)
	}
	if gotAuth != "Bearer admin-tok" {
		t.Errorf("Authorization = %q, want Bearer admin-tok", gotAuth)
	}
}

func TestAdminAddUserInvalidRole(t *testing.T) {
	env := newTestEnv(t)
	env.stub.JSON("/api/auth/users/", `[]`)

	h := newAdminHandler(env)
	r := formRequest("/admin/users", url.Values{
		"name":     {"Paul Okii"},
		"email":    {"paul@bitsa.org"},
		"password": {"longenough"},
		"role":     {"superuser"},
	})
	w := env.do(t, adminRouter(h), r, adminCookies(t, env))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (form re-rendered)", w.Code)
	}
}

func TestToggleUserBlockSelf(t *testing.T) {
	env := newTestEnv(t)
	h := newAdminHandler(env)

	// Admin ID 1 tries to block themselves.
	w := env.do(t, adminRouter(h), httptest.NewRequest("POST", "/admin/users/1/toggle-block", nil), adminCookies(t, env))

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != redirectAdminUsers {
		t.Errorf("Location = %q, want %q", loc, redirectAdminUsers)
	}
}

func TestToggleUserBlock(t *testing.T) {
	env := newTestEnv(t)
	env.stub.JSON("/api/auth/users/2/toggle-block/", `{"id": 2, "name": "Jane", "email": "jane@bitsa.org", "role": "student", "is_active": false}`)

	h := newAdminHandler(env)
	w := env.do(t, adminRouter(h), httptest.NewRequest("POST", "/admin/users/2/toggle-block", nil), adminCookies(t, env))

	if w.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", w.Code)
	}
}

func TestClearCache(t *testing.T) {
	env := newTestEnv(t)

	hits := 0
	env.stub.Handle("/api/blogs/posts/", func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[]`)
	})

	if _, err := env.cached.ListPosts(context.Background()); err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if _, err := env.cached.ListPosts(context.Background()); err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if hits != 1 {
		t.Fatalf("hits = %d before clear, want 1", hits)
	}

	h := newAdminHandler(env)
	env.do(t, adminRouter(h), httptest.NewRequest("POST", "/admin/cache/clear", nil), adminCookies(t, env))

	if _, err := env.cached.ListPosts(context.Background()); err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if hits != 2 {
		t.Errorf("hits = %d after clear, want 2", hits)
	}
}
