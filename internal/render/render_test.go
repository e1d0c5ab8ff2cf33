// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": {Data: []byte(
			`{{define "base"}}<html><body>{{template "navbar" .}}{{block "content" .}}{{end}}<footer>{{.CurrentYear}}</footer></body></html>{{end}}`,
		)},
		"layouts/admin.html": {Data: []byte(
			`{{define "admin_nav"}}<nav class="admin">Admin</nav>{{end}}`,
		)},
		"partials/navbar.html": {Data: []byte(
			`{{define "navbar"}}<nav>{{if .User}}{{.User.Name}}{{else}}Sign in{{end}}</nav>{{end}}`,
		)},
		"pages/home.html": {Data: []byte(
			`{{define "content"}}<h1>{{.Title}}</h1>{{if .Flash}}<div class="{{.FlashType}}">{{.Flash}}</div>{{end}}{{end}}`,
		)},
		"admin/dashboard.html": {Data: []byte(
			`{{define "content"}}{{template "admin_nav" .}}<h1>{{.Title}}</h1>{{end}}`,
		)},
	}
}

func TestNewParsesPagesAndAdmin(t *testing.T) {
	r, err := New(Config{TemplatesFS: testFS()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	for _, name := range []string{"home", "admin/dashboard"} {
		if !r.Has(name) {
			t.Errorf("template %q not parsed", name)
		}
	}
	if r.Has("missing") {
		t.Error("Has() true for unknown template")
	}
}

func TestRenderPage(t *testing.T) {
	r, err := New(Config{TemplatesFS: testFS()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	if err := r.Render(w, req, "home", TemplateData{Title: "BITSA"}); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	body := w.Body.String()
	if !strings.Contains(body, "<h1>BITSA</h1>") {
		t.Errorf("body missing title: %s", body)
	}
	if !strings.Contains(body, "Sign in") {
		t.Errorf("navbar partial not rendered: %s", body)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	r, err := New(Config{TemplatesFS: testFS()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	if err := r.Render(w, req, "nope", TemplateData{}); err == nil {
		t.Error("Render() did not error for unknown template")
	}
	if w.Body.Len() != 0 {
		t.Error("partial output written for unknown template")
	}
}

func TestRenderStatus(t *testing.T) {
	r, err := New(Config{TemplatesFS: testFS()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	if err := r.RenderStatus(w, req, "home", 404, TemplateData{Title: "Not Found"}); err != nil {
		t.Fatalf("RenderStatus() error: %v", err)
	}
	if w.Code != 404 {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
