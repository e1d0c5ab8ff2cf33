// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/bitsa/bitsa-web/internal/api"
	"github.com/bitsa/bitsa-web/internal/cache"
	"github.com/bitsa/bitsa-web/internal/middleware"
	"github.com/bitsa/bitsa-web/internal/render"
	"github.com/bitsa/bitsa-web/internal/session"
	"github.com/bitsa/bitsa-web/internal/testutil"
)

// testEnv bundles the pieces handler tests need: a stub API, a
// memory-backed session manager and a renderer with skeleton templates.
type testEnv struct {
	stub     *testutil.APIStub
	client   *api.Client
	cached   *api.Cached
	sessions *session.Store
	sm       *scs.SessionManager
	renderer *render.Renderer
	metrics  *middleware.Metrics
	backend  *cache.MemoryCache
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	stub := testutil.NewAPIStub(t)
	client := api.New(stub.BaseURL(), 2*time.Second, testutil.TestLoggerSilent())

	backend := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute, MaxSize: 100})
	t.Cleanup(func() { _ = backend.Close() })
	cached := api.NewCached(client, backend, time.Minute)

	sm := scs.New()
	sm.Lifetime = time.Hour

	renderer, err := render.New(render.Config{
		TemplatesFS:    testTemplates(),
		SessionManager: sm,
	})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	return &testEnv{
		stub:     stub,
		client:   client,
		cached:   cached,
		sessions: session.NewStore(sm),
		sm:       sm,
		renderer: renderer,
		metrics:  middleware.NewMetrics(),
		backend:  backend,
	}
}

// testTemplates returns a skeleton template set: every page renders its
// title plus the markers the tests assert on.
func testTemplates() fstest.MapFS {
	page := func(extra string) *fstest.MapFile {
		return &fstest.MapFile{Data: []byte(`{{define "content"}}<h1>{{.Title}}</h1>` + extra + `{{end}}`)}
	}
	return fstest.MapFS{
		"layouts/base.html": {Data: []byte(
			`{{define "base"}}<html><body>{{if .Flash}}<div class="flash {{.FlashType}}">{{.Flash}}</div>{{end}}{{block "content" .}}{{end}}</body></html>{{end}}`,
		)},
		"layouts/admin.html": {Data: []byte(`{{define "admin_nav"}}{{end}}`)},
		"pages/home.html": page(
			`{{with .Data.Stats}}<span id="members">{{.ActiveMembers}}</span>{{end}}` +
				`{{range .Data.UpcomingEvents}}<div class="event">{{.Title}}</div>{{end}}`,
		),
		"pages/about.html": page(
			`{{range .Data.TopLeaders}}<div class="top">{{.Name}}</div>{{end}}` +
				`{{range .Data.StudentLeaders}}<div class="student">{{.Name}}</div>{{end}}`,
		),
		"pages/contact.html": page(`{{range $k, $v := .Data.Errors}}<p class="err">{{$k}}</p>{{end}}`),
		"pages/events.html": page(
			`{{range .Data.Upcoming}}<div class="upcoming">{{.Title}}</div>{{end}}` +
				`{{range .Data.Past}}<div class="past">{{.Title}}</div>{{end}}`,
		),
		"pages/event_detail.html": page(`{{if .Data.Attending}}<span id="attending"></span>{{end}}`),
		"pages/blog.html": page(
			`{{$sel := .Data.Selected}}` +
				`{{range .Data.Tags}}<a class="tag-filter" href="{{($sel.WithTag .).URL "/blog"}}">{{.}}</a>{{end}}` +
				`{{range .Data.Authors}}<a class="author-filter" href="{{($sel.WithAuthor .).URL "/blog"}}">{{.}}</a>{{end}}` +
				`{{if $sel.Active}}<a class="filter-clear" href="/blog">clear</a>{{end}}` +
				`{{range .Data.Posts}}<article>{{.Title}}</article>{{end}}<nav>page {{.Data.Pagination.CurrentPage}} of {{.Data.Pagination.TotalPages}}</nav>`,
		),
		"pages/blog_post.html": page(`<div class="body">{{.Data.Content}}</div>`),
		"pages/gallery.html":   page(`{{range .Data.Photos}}<figure>{{.Title}}</figure>{{end}}`),
		"pages/login.html":     page(`{{range $k, $v := .Data.Errors}}<p class="err">{{$k}}</p>{{end}}`),
		"pages/register.html":  page(`{{range $k, $v := .Data.Errors}}<p class="err">{{$k}}</p>{{end}}`),
		"pages/profile.html":   page(`{{range .Data.MyEvents}}<div class="mine">{{.Title}}</div>{{end}}`),
		"pages/404.html":       page(``),
		"admin/dashboard.html": page(`{{with .Data.CacheStats}}<span id="hits">{{.Hits}}</span>{{end}}`),
		"admin/users.html":     page(`{{range .Data.Users}}<tr>{{.Email}}</tr>{{end}}`),
	}
}

// signInCookies signs the user in through a throwaway request and
// returns the resulting session cookies.
func (e *testEnv) signInCookies(t *testing.T, user session.User, token string) []*http.Cookie {
	t.Helper()

	h := e.sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := e.sessions.SignIn(r.Context(), user, token); err != nil {
			t.Fatalf("SignIn: %v", err)
		}
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w.Result().Cookies()
}

// do runs a request through the session and user-loading middleware the
// way the real router does.
func (e *testEnv) do(t *testing.T, h http.Handler, r *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	for _, c := range cookies {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.sm.LoadAndSave(middleware.LoadUser(e.sessions)(h)).ServeHTTP(w, r)
	return w
}

// formRequest builds a POST request with an urlencoded body.
func formRequest(target string, form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}
