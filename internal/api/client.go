// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api is the typed client for the BITSA association API. All
// domain data (members, events, posts, photos, leadership) lives behind
// that API; this package is the only place that talks to it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bitsa/bitsa-web/internal/model"
)

const (
	userAgent = "bitsa-web/1.0"

	// maxErrorBodyLen caps how much of an error response body is read
	// when extracting a message.
	maxErrorBodyLen = 10 * 1024
)

// Client talks to the association API.
type Client struct {
	baseURL string
	origin  string
	http    *http.Client
	logger  *slog.Logger

	// token is the bearer token attached to requests. Empty for
	// anonymous calls.
	token string
}

// New creates a Client for the API rooted at baseURL (e.g.
// "http://localhost:8000/api"). The timeout applies to each request.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		origin:  originOf(baseURL),
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: logger,
	}
}

// WithToken returns a copy of the client that authenticates with token.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

// Origin returns the scheme://host of the API, used to resolve
// relative media URLs in responses.
func (c *Client) Origin() string {
	return c.origin
}

// Login exchanges credentials for the member's profile and tokens.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login/", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a new member account and signs it in.
func (c *Client) Register(ctx context.Context, reg model.Registration) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register/", reg, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateProfile changes fields of the signed-in member's profile.
// Only the keys present in fields are sent.
func (c *Client) UpdateProfile(ctx context.Context, fields map[string]string) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPatch, "/auth/profile/", fields, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Stats fetches the association-wide counters for the home page.
func (c *Client) Stats(ctx context.Context) (*model.Stats, error) {
	var stats model.Stats
	if err := c.do(ctx, http.MethodGet, "/auth/stats/", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ListEvents fetches all events.
func (c *Client) ListEvents(ctx context.Context) ([]model.Event, error) {
	return doList[model.Event](ctx, c, "/events/")
}

// GetEvent fetches a single event by ID.
func (c *Client) GetEvent(ctx context.Context, id int64) (*model.Event, error) {
	var ev model.Event
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/events/%d/", id), nil, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// RSVP toggles the signed-in member's attendance for an event.
func (c *Client) RSVP(ctx context.Context, eventID int64) (*model.RSVPResult, error) {
	var res model.RSVPResult
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/events/%d/rsvp/", eventID), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// MyEvents fetches the events the signed-in member is attending.
func (c *Client) MyEvents(ctx context.Context) ([]model.Event, error) {
	return doList[model.Event](ctx, c, "/events/my-events/")
}

// ListPosts fetches all published blog posts.
func (c *Client) ListPosts(ctx context.Context) ([]model.BlogPost, error) {
	return doList[model.BlogPost](ctx, c, "/blogs/posts/")
}

// GetPost fetches a single blog post by ID.
func (c *Client) GetPost(ctx context.Context, id int64) (*model.BlogPost, error) {
	var post model.BlogPost
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/blogs/posts/%d/", id), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPhotos fetches all gallery photos.
func (c *Client) ListPhotos(ctx context.Context) ([]model.Photo, error) {
	return doList[model.Photo](ctx, c, "/gallery/photos/")
}

// ListLeadership fetches leadership profiles of the given type
// (model.LeadershipTop or model.LeadershipStudent). An empty type
// fetches all.
func (c *Client) ListLeadership(ctx context.Context, leadershipType string) ([]model.Leader, error) {
	path := "/leadership/"
	if leadershipType != "" {
		path += "?type=" + url.QueryEscape(leadershipType)
	}
	return doList[model.Leader](ctx, c, path)
}

// ListUsers fetches all member accounts. Admin only.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	return doList[model.User](ctx, c, "/auth/users/")
}

// AddUser creates a member account with the given role. Admin only.
func (c *Client) AddUser(ctx context.Context, reg model.Registration, role string) (*model.User, error) {
	payload := map[string]string{
		"name":     reg.Name,
		"email":    reg.Email,
		"password": reg.Password,
		"role":     role,
	}
	var user model.User
	if err := c.do(ctx, http.MethodPost, "/auth/users/add/", payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ToggleUserBlock flips the active flag of a member account. Admin only.
func (c *Client) ToggleUserBlock(ctx context.Context, userID int64) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/auth/users/%d/toggle-block/", userID), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// do performs a request against the API and decodes the JSON response
// into out (which may be nil for endpoints with no useful body).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("api request failed",
			"method", method,
			"path", path,
			"error", err)
		return &Error{Message: "the service is temporarily unavailable"}
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode >= 400 {
		return &Error{Status: resp.StatusCode, Message: extractMessage(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// doList fetches a JSON list, accepting either a bare array or a
// paginated {"results": [...]} envelope.
func doList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope struct {
			Results []T `json:"results"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return envelope.Results, nil
	}

	var items []T
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return items, nil
}

// extractMessage pulls a human-readable message out of an error
// response body. The API answers with {"error": ...}, {"detail": ...}
// or {"message": ...} depending on the endpoint.
func extractMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBodyLen))
	if err != nil {
		return ""
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return ""
	}
	for _, key := range []string{"error", "detail", "message"} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	// Field-level validation errors: {"email": ["already exists"]}.
	for _, raw := range fields {
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 && list[0] != "" {
			return list[0]
		}
	}
	return ""
}

// originOf reduces a base URL to its scheme://host part.
func originOf(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
