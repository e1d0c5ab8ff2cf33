// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session manages signed-in member state. Sessions are stored
// in SQLite so sign-ins survive server restarts; the session carries
// the member's profile and the API bearer token.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Session keys.
const (
	keyUser  = "auth_user"
	keyToken = "auth_token"
)

// New creates a session manager backed by the SQLite sessions table.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)

	sm.Lifetime = 24 * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev // Secure cookies in production only

	return sm
}

// User is the member profile kept in the session.
type User struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}

// Store reads and writes the signed-in member's session state.
type Store struct {
	sm *scs.SessionManager
}

// NewStore wraps a session manager.
func NewStore(sm *scs.SessionManager) *Store {
	return &Store{sm: sm}
}

// Manager returns the underlying session manager, for middleware wiring.
func (s *Store) Manager() *scs.SessionManager {
	return s.sm
}

// SignIn records the member and API token in the session. The session
// token is regenerated first to prevent session fixation.
func (s *Store) SignIn(ctx context.Context, user User, apiToken string) error {
	if err := s.sm.RenewToken(ctx); err != nil {
		return err
	}
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	s.sm.Put(ctx, keyUser, string(data))
	s.sm.Put(ctx, keyToken, apiToken)
	return nil
}

// SignOut destroys the session.
func (s *Store) SignOut(ctx context.Context) error {
	return s.sm.Destroy(ctx)
}

// Update replaces the stored member profile, keeping the token. Used
// after a profile edit.
func (s *Store) Update(ctx context.Context, user User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	s.sm.Put(ctx, keyUser, string(data))
	return nil
}

// Current returns the signed-in member, or nil for anonymous visitors.
// A malformed session record is cleared rather than erroring, so a
// corrupt cookie can never lock a visitor out.
func (s *Store) Current(ctx context.Context) *User {
	raw := s.sm.GetString(ctx, keyUser)
	if raw == "" {
		return nil
	}
	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.ID == 0 {
		s.sm.Remove(ctx, keyUser)
		s.sm.Remove(ctx, keyToken)
		return nil
	}
	return &user
}

// Token returns the API bearer token for the signed-in member, or ""
// when there is none or the token has expired. Expired tokens are
// cleared along with the profile so the member is asked to sign in
// again instead of hitting API 401s.
func (s *Store) Token(ctx context.Context) string {
	tok := s.sm.GetString(ctx, keyToken)
	if tok == "" {
		return ""
	}
	if tokenExpired(tok, time.Now()) {
		s.sm.Remove(ctx, keyUser)
		s.sm.Remove(ctx, keyToken)
		return ""
	}
	return tok
}

// tokenExpired inspects the exp claim of a JWT without verifying the
// signature (the API verifies; we only avoid sending dead tokens).
// Opaque non-JWT tokens are treated as non-expiring.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
