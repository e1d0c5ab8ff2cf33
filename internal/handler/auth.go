// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bitsa/bitsa-web/internal/api"
	"github.com/bitsa/bitsa-web/internal/middleware"
	"github.com/bitsa/bitsa-web/internal/model"
	"github.com/bitsa/bitsa-web/internal/render"
	"github.com/bitsa/bitsa-web/internal/session"
	"github.com/bitsa/bitsa-web/internal/validation"
)

// AuthHandler handles sign-in, registration and sign-out.
type AuthHandler struct {
	api             *api.Client
	sessions        *session.Store
	renderer        *render.Renderer
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(client *api.Client, sessions *session.Store, renderer *render.Renderer, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		api:             client,
		sessions:        sessions,
		renderer:        renderer,
		loginProtection: lp,
	}
}

// AuthFormData is the template data for the login and register pages.
type AuthFormData struct {
	Email  string
	Name   string
	Errors map[string]string
}

// LoginForm renders the login page. Signed-in members are redirected
// away: admins to the dashboard, everyone else to their profile.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if user := middleware.GetUser(r); user != nil {
		if user.Role == model.RoleAdmin {
			http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, redirectProfile, http.StatusSeeOther)
		return
	}
	renderPage(w, r, h.renderer, "login", pageData(r, "Sign In", AuthFormData{}))
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectLogin) {
		return
	}

	form := validation.LoginForm{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}
	if errs := validation.Check(&form); len(errs) > 0 {
		data := pageData(r, "Sign In", AuthFormData{Email: form.Email, Errors: errs})
		renderPage(w, r, h.renderer, "login", data)
		return
	}

	if locked, remaining := h.loginProtection.IsAccountLocked(form.Email); locked {
		flashError(w, r, h.renderer, redirectLogin, lockedMessage(remaining))
		return
	}

	auth, err := h.api.Login(r.Context(), model.Credentials{Email: form.Email, Password: form.Password})
	if err != nil {
		if api.IsAuth(err) || api.IsValidation(err) {
			if locked, duration := h.loginProtection.RecordFailedAttempt(form.Email); locked {
				flashError(w, r, h.renderer, redirectLogin, lockedMessage(duration))
				return
			}
			flashError(w, r, h.renderer, redirectLogin, api.Message(err, "Invalid email or password."))
			return
		}
		flashError(w, r, h.renderer, redirectLogin, api.Message(err, "Sign-in is unavailable right now."))
		return
	}

	h.loginProtection.RecordSuccessfulLogin(form.Email)

	if err := h.signIn(r, auth); err != nil {
		logAndInternalError(w, "failed to establish session", "error", err)
		return
	}

	slog.Info("member signed in", "user_id", auth.User.ID, "role", auth.User.Role)

	if auth.User.IsAdmin() {
		flashSuccess(w, r, h.renderer, redirectAdmin, "Welcome back, "+auth.User.DisplayName()+"!")
		return
	}
	flashSuccess(w, r, h.renderer, redirectHome, "Welcome back, "+auth.User.DisplayName()+"!")
}

// RegisterForm renders the membership registration page.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r) != nil {
		http.Redirect(w, r, redirectProfile, http.StatusSeeOther)
		return
	}
	renderPage(w, r, h.renderer, "register", pageData(r, "Join BITSA", AuthFormData{}))
}

// Register handles the registration form submission and signs the new
// member in right away.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectRegister) {
		return
	}

	form := validation.RegisterForm{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}
	if errs := validation.Check(&form); len(errs) > 0 {
		data := pageData(r, "Join BITSA", AuthFormData{Name: form.Name, Email: form.Email, Errors: errs})
		renderPage(w, r, h.renderer, "register", data)
		return
	}

	auth, err := h.api.Register(r.Context(), model.Registration{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		if api.IsValidation(err) {
			errs := map[string]string{"form": api.Message(err, "Registration failed.")}
			data := pageData(r, "Join BITSA", AuthFormData{Name: form.Name, Email: form.Email, Errors: errs})
			renderPage(w, r, h.renderer, "register", data)
			return
		}
		flashError(w, r, h.renderer, redirectRegister, api.Message(err, "Registration is unavailable right now."))
		return
	}

	if err := h.signIn(r, auth); err != nil {
		// The account exists; let the member sign in manually.
		slog.Error("failed to establish session after registration", "error", err)
		flashSuccess(w, r, h.renderer, redirectLogin, "Your account was created. Please sign in.")
		return
	}

	slog.Info("member registered", "user_id", auth.User.ID)
	flashSuccess(w, r, h.renderer, redirectHome, "Welcome to BITSA, "+auth.User.DisplayName()+"!")
}

// Logout destroys the session and returns to the home page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.SignOut(r.Context()); err != nil {
		slog.Error("failed to destroy session", "error", err)
	}
	flashSuccess(w, r, h.renderer, redirectHome, "You have been signed out.")
}

// signIn stores the authenticated member and API token in the session.
func (h *AuthHandler) signIn(r *http.Request, auth *model.AuthResponse) error {
	return h.sessions.SignIn(r.Context(), session.User{
		ID:     auth.User.ID,
		Name:   auth.User.Name,
		Email:  auth.User.Email,
		Role:   auth.User.Role,
		Avatar: auth.User.Avatar,
	}, auth.BearerToken())
}

// lockedMessage formats the account-lockout flash message.
func lockedMessage(remaining time.Duration) string {
	minutes := int(remaining.Round(time.Minute).Minutes())
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("Too many failed attempts. Try again in %d minutes.", minutes)
}
