// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// Sessions table required by sqlite3store.
	_, err = db.Exec(`
		CREATE TABLE sessions (
			token TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			expiry REAL NOT NULL
		);
		CREATE INDEX sessions_expiry_idx ON sessions(expiry);
	`)
	if err != nil {
		t.Fatalf("failed to create sessions table: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNew(t *testing.T) {
	db := setupTestDB(t)

	sm := New(db, true)
	if sm.Lifetime != 24*time.Hour {
		t.Errorf("Lifetime = %v, want 24h", sm.Lifetime)
	}
	if !sm.Cookie.HttpOnly {
		t.Error("Cookie.HttpOnly = false")
	}
	if sm.Cookie.Secure {
		t.Error("Cookie.Secure = true in dev mode")
	}
	if sm.Cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("Cookie.SameSite = %v, want Lax", sm.Cookie.SameSite)
	}

	sm = New(db, false)
	if !sm.Cookie.Secure {
		t.Error("Cookie.Secure = false in production mode")
	}
}

func TestStoreSignInAndCurrent(t *testing.T) {
	db := setupTestDB(t)
	sm := New(db, true)
	store := NewStore(sm)

	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	user := User{ID: 7, Name: "Asha", Email: "asha@bitsa.org", Role: "student"}
	if err := store.SignIn(ctx, user, "tok-123"); err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}

	got := store.Current(ctx)
	if got == nil {
		t.Fatal("Current() = nil after SignIn")
	}
	if got.ID != 7 || got.Email != "asha@bitsa.org" {
		t.Errorf("Current() = %+v", got)
	}
	if tok := store.Token(ctx); tok != "tok-123" {
		t.Errorf("Token() = %q, want tok-123", tok)
	}
}

func TestStoreSignOut(t *testing.T) {
	db := setupTestDB(t)
	sm := New(db, true)
	store := NewStore(sm)

	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := store.SignIn(ctx, User{ID: 1, Email: "a@b.c"}, "tok"); err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	if err := store.SignOut(ctx); err != nil {
		t.Fatalf("SignOut() error = %v", err)
	}
	if got := store.Current(ctx); got != nil {
		t.Errorf("Current() = %+v after SignOut, want nil", got)
	}
}

func TestStoreCurrentClearsMalformedRecord(t *testing.T) {
	db := setupTestDB(t)
	sm := New(db, true)
	store := NewStore(sm)

	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	sm.Put(ctx, "auth_user", "{not json")
	sm.Put(ctx, "auth_token", "tok")

	if got := store.Current(ctx); got != nil {
		t.Errorf("Current() = %+v for malformed record, want nil", got)
	}
	if tok := sm.GetString(ctx, "auth_token"); tok != "" {
		t.Errorf("token survived malformed user record: %q", tok)
	}
}

func TestTokenExpired(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	makeToken := func(exp time.Time) string {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"exp": exp.Unix(),
		})
		s, err := tok.SignedString([]byte("test-secret"))
		if err != nil {
			t.Fatalf("sign token: %v", err)
		}
		return s
	}

	if tokenExpired(makeToken(now.Add(time.Hour)), now) {
		t.Error("tokenExpired() = true for a live token")
	}
	if !tokenExpired(makeToken(now.Add(-time.Hour)), now) {
		t.Error("tokenExpired() = false for an expired token")
	}
	if tokenExpired("opaque-session-token", now) {
		t.Error("tokenExpired() = true for a non-JWT token")
	}
}

func TestStoreTokenClearsExpired(t *testing.T) {
	db := setupTestDB(t)
	sm := New(db, true)
	store := NewStore(sm)

	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	s, err := expired.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if err := store.SignIn(ctx, User{ID: 1, Email: "a@b.c"}, s); err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}

	if tok := store.Token(ctx); tok != "" {
		t.Errorf("Token() = %q for expired token, want empty", tok)
	}
	if got := store.Current(ctx); got != nil {
		t.Errorf("Current() = %+v after token expiry, want nil", got)
	}
}
