// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestMetricsMiddleware(t *testing.T) {
	m := NewMetrics()

	r := chi.NewRouter()
	r.Use(m.Middleware())
	r.Get("/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/events/12")
	if err != nil {
		t.Fatalf("GET /events/12: %v", err)
	}
	resp.Body.Close()

	m.RecordUpstreamError()

	mw := httptest.NewRecorder()
	m.Handler().ServeHTTP(mw, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(mw.Body)
	out := string(body)

	// Route pattern, not the concrete path, becomes the label.
	if !strings.Contains(out, `path="/events/{id}"`) {
		t.Errorf("metrics output missing route pattern label:\n%s", out)
	}
	if !strings.Contains(out, "http_requests_total") {
		t.Error("metrics output missing http_requests_total")
	}
	if !strings.Contains(out, "upstream_api_errors_total 1") {
		t.Error("metrics output missing upstream error count")
	}
	if !strings.Contains(out, "goroutines_total") {
		t.Error("metrics output missing goroutines gauge")
	}
}
