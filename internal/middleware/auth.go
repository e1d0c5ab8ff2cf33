// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, security headers and request handling.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/bitsa/bitsa-web/internal/model"
	"github.com/bitsa/bitsa-web/internal/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request data.
const (
	ContextKeyUser  ContextKey = "user"
	ContextKeyToken ContextKey = "token"
)

// LoadUser loads the signed-in member and API token from the session
// into the request context. Anonymous requests pass through untouched,
// so public pages can still render a personalized navbar when a
// session exists.
func LoadUser(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := store.Current(r.Context())
			if user == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			if tok := store.Token(r.Context()); tok != "" {
				ctx = context.WithValue(ctx, ContextKeyToken, tok)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser guards member-only actions (RSVP, profile). Anonymous
// visitors are sent to the registration page, which doubles as the
// membership call-to-action.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUser(r) == nil {
			http.Redirect(w, r, "/register", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin guards the admin dashboard. Anonymous visitors go to
// the login page; signed-in non-admins get 403. The role comes from
// the session, and the API re-checks it on every admin call, so a
// tampered session cannot reach member data.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r)
		if user == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if user.Role != model.RoleAdmin {
			slog.Warn("admin access denied",
				"status", http.StatusForbidden,
				"method", r.Method,
				"path", r.URL.Path,
				"user_id", user.ID,
				"user_role", user.Role,
			)
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUser retrieves the signed-in member from the request context.
// Returns nil for anonymous requests.
func GetUser(r *http.Request) *session.User {
	user, ok := r.Context().Value(ContextKeyUser).(*session.User)
	if !ok {
		return nil
	}
	return user
}

// GetUserID returns the signed-in member's ID, or 0 for anonymous
// requests. Safe to use in logging.
func GetUserID(r *http.Request) int64 {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return 0
}

// GetToken returns the API bearer token for the request, or "".
func GetToken(r *http.Request) string {
	tok, ok := r.Context().Value(ContextKeyToken).(string)
	if !ok {
		return ""
	}
	return tok
}
