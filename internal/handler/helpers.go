// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"filippo.io/csrf/gorilla"

	"github.com/bitsa/bitsa-web/internal/middleware"
	"github.com/bitsa/bitsa-web/internal/render"
	"github.com/bitsa/bitsa-web/internal/session"
)

// pageData assembles the template envelope shared by every page: the
// signed-in member (if any) and the CSRF token for forms.
func pageData(r *http.Request, title string, data any) render.TemplateData {
	return render.TemplateData{
		Title:     title,
		User:      middleware.GetUser(r),
		Data:      data,
		CSRFToken: csrf.Token(r),
	}
}

// renderPage executes a template and falls back to a plain 500 when
// rendering itself fails.
func renderPage(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, name string, data render.TemplateData) {
	if err := renderer.Render(w, r, name, data); err != nil {
		logAndInternalError(w, "failed to render page", "error", err, "template", name)
	}
}

// sessionExpired destroys the local session and sends the visitor to
// the login page. Used when the API rejects the stored token: keeping
// the session would just bounce every authenticated action back here.
func sessionExpired(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, sessions *session.Store) {
	if err := sessions.SignOut(r.Context()); err != nil {
		slog.Error("failed to clear expired session", "error", err)
	}
	flashError(w, r, renderer, redirectLogin, "Your session has expired. Please sign in again.")
}

// idParam parses the {id} route parameter. Returns 0 when missing or
// not a number.
func idParam(raw string) int64 {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// idFromSlug extracts the numeric ID prefix from an ID-slug path
// segment such as "7-welcome-week". A bare "7" also works, so stale
// links survive title changes.
func idFromSlug(raw string) int64 {
	seg := raw
	if i := strings.IndexByte(seg, '-'); i > 0 {
		seg = seg[:i]
	}
	return idParam(seg)
}
