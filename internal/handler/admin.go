// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bitsa/bitsa-web/internal/api"
	"github.com/bitsa/bitsa-web/internal/cache"
	"github.com/bitsa/bitsa-web/internal/logging"
	"github.com/bitsa/bitsa-web/internal/middleware"
	"github.com/bitsa/bitsa-web/internal/model"
	"github.com/bitsa/bitsa-web/internal/render"
	"github.com/bitsa/bitsa-web/internal/session"
	"github.com/bitsa/bitsa-web/internal/validation"
	"github.com/bitsa/bitsa-web/internal/version"
)

// AdminHandler serves the association dashboard and member management.
// Every mutation goes through the API with the admin's own token; the
// site itself holds no member records.
type AdminHandler struct {
	api       *api.Cached
	sessions  *session.Store
	renderer  *render.Renderer
	backend   cache.Cache
	logbuf    *logging.RingHandler
	version   version.Info
	startTime time.Time
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(cached *api.Cached, sessions *session.Store, renderer *render.Renderer, backend cache.Cache, logbuf *logging.RingHandler, info version.Info) *AdminHandler {
	return &AdminHandler{
		api:       cached,
		sessions:  sessions,
		renderer:  renderer,
		backend:   backend,
		logbuf:    logbuf,
		version:   info,
		startTime: time.Now(),
	}
}

// DashboardData is the template data for the admin dashboard.
type DashboardData struct {
	Stats      *model.Stats
	MemberRows []model.User
	CacheStats *cache.Stats
	RecentLogs []logging.Record
	Version    string
	Uptime     string
	Goroutines int
}

// Dashboard renders the admin overview: association stats, the newest
// members, cache effectiveness and recent warnings.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := DashboardData{
		Version:    h.version.Version,
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
		Goroutines: runtime.NumGoroutine(),
	}

	stats, err := h.api.Stats(ctx)
	if err != nil {
		slog.Warn("dashboard: stats unavailable", "error", err)
	} else {
		data.Stats = stats
	}

	token := middleware.GetToken(r)
	users, err := h.api.Client().WithToken(token).ListUsers(ctx)
	if err != nil {
		slog.Warn("dashboard: member list unavailable", "error", err)
	} else {
		if len(users) > 5 {
			users = users[:5]
		}
		data.MemberRows = users
	}

	if sp, ok := h.backend.(cache.StatsProvider); ok {
		stats := sp.Stats()
		data.CacheStats = &stats
	}
	if h.logbuf != nil {
		records := h.logbuf.Recent()
		if len(records) > 20 {
			records = records[:20]
		}
		data.RecentLogs = records
	}

	renderPage(w, r, h.renderer, "admin/dashboard", pageData(r, "Dashboard", data))
}

// UsersData is the template data for the member management page.
type UsersData struct {
	Users  []model.User
	Errors map[string]string
	Form   validation.AdminUserForm
}

// Users renders the member management page.
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.api.Client().WithToken(middleware.GetToken(r)).ListUsers(r.Context())
	if err != nil {
		if api.IsAuth(err) {
			sessionExpired(w, r, h.renderer, h.sessions)
			return
		}
		flashError(w, r, h.renderer, redirectAdmin, api.Message(err, "Could not load members."))
		return
	}
	renderPage(w, r, h.renderer, "admin/users", pageData(r, "Members", UsersData{Users: users}))
}

// AddUser creates a member account on behalf of an administrator.
func (h *AdminHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminUsers) {
		return
	}

	form := validation.AdminUserForm{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Role:     r.FormValue("role"),
	}
	if errs := validation.Check(&form); len(errs) > 0 {
		users, err := h.api.Client().WithToken(middleware.GetToken(r)).ListUsers(r.Context())
		if err != nil {
			users = nil
		}
		data := UsersData{Users: users, Errors: errs, Form: form}
		renderPage(w, r, h.renderer, "admin/users", pageData(r, "Members", data))
		return
	}

	reg := model.Registration{Name: form.Name, Email: form.Email, Password: form.Password}
	user, err := h.api.Client().WithToken(middleware.GetToken(r)).AddUser(r.Context(), reg, form.Role)
	if err != nil {
		if api.IsAuth(err) {
			sessionExpired(w, r, h.renderer, h.sessions)
			return
		}
		flashError(w, r, h.renderer, redirectAdminUsers, api.Message(err, "Could not create the member."))
		return
	}

	slog.Info("member created by admin",
		"user_id", user.ID,
		"role", user.Role,
		"admin_id", middleware.GetUserID(r),
	)
	flashSuccess(w, r, h.renderer, redirectAdminUsers, user.DisplayName()+" has been added.")
}

// ToggleUserBlock flips a member's active flag.
func (h *AdminHandler) ToggleUserBlock(w http.ResponseWriter, r *http.Request) {
	id := idParam(chi.URLParam(r, "id"))
	if id == 0 {
		flashError(w, r, h.renderer, redirectAdminUsers, "Member not found")
		return
	}

	// Admins cannot lock themselves out.
	if id == middleware.GetUserID(r) {
		flashError(w, r, h.renderer, redirectAdminUsers, "You cannot block your own account.")
		return
	}

	user, err := h.api.Client().WithToken(middleware.GetToken(r)).ToggleUserBlock(r.Context(), id)
	if err != nil {
		if api.IsNotFound(err) {
			flashError(w, r, h.renderer, redirectAdminUsers, "Member not found")
			return
		}
		if api.IsAuth(err) {
			sessionExpired(w, r, h.renderer, h.sessions)
			return
		}
		flashError(w, r, h.renderer, redirectAdminUsers, api.Message(err, "Could not update the member."))
		return
	}

	slog.Info("member block toggled",
		"user_id", user.ID,
		"is_active", user.IsActive,
		"admin_id", middleware.GetUserID(r),
	)
	if user.IsActive {
		flashSuccess(w, r, h.renderer, redirectAdminUsers, user.DisplayName()+" has been unblocked.")
		return
	}
	flashSuccess(w, r, h.renderer, redirectAdminUsers, user.DisplayName()+" has been blocked.")
}

// ClearCache drops every cached API response. The next page view
// fetches fresh data.
func (h *AdminHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.api.Invalidate(r.Context())
	slog.Info("api cache cleared", "admin_id", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdmin, "The content cache has been cleared.")
}
