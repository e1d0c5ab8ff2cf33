// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

// Package listing implements the shared filter-and-paginate pipeline used
// by the blog and gallery pages: pick a category (and optionally tag or
// author), then slice the filtered items into pages.
package listing

import (
	"net/http"
	"net/url"

	"github.com/bitsa/bitsa-web/internal/uikit"
)

// All is the selection value that matches every item.
const All = "all"

// Selection captures the active filter and page from a request.
type Selection struct {
	Category string
	Tag      string
	Author   string
	Page     int
}

// ParseSelection reads the filter and page parameters from a request.
// Missing filter parameters default to All.
func ParseSelection(r *http.Request) Selection {
	q := r.URL.Query()
	return Selection{
		Category: valueOrAll(q.Get("category")),
		Tag:      valueOrAll(q.Get("tag")),
		Author:   valueOrAll(q.Get("author")),
		Page:     uikit.ParsePageParam(r),
	}
}

// QueryValues returns the selection's non-default filters as URL values,
// used to build page links that keep the filter active.
func (s Selection) QueryValues() url.Values {
	v := url.Values{}
	if s.Category != All && s.Category != "" {
		v.Set("category", s.Category)
	}
	if s.Tag != All && s.Tag != "" {
		v.Set("tag", s.Tag)
	}
	if s.Author != All && s.Author != "" {
		v.Set("author", s.Author)
	}
	return v
}

// WithCategory returns a copy of the selection with the category
// replaced and the page dropped, so the link lands on page 1 while the
// other filters stay active.
func (s Selection) WithCategory(v string) Selection {
	s.Category = v
	s.Page = 1
	return s
}

// WithTag returns a copy of the selection with the tag replaced and the
// page dropped.
func (s Selection) WithTag(v string) Selection {
	s.Tag = v
	s.Page = 1
	return s
}

// WithAuthor returns a copy of the selection with the author replaced
// and the page dropped.
func (s Selection) WithAuthor(v string) Selection {
	s.Author = v
	s.Page = 1
	return s
}

// Active reports whether any filter dimension is narrowed, which is
// when a clear-filters control makes sense.
func (s Selection) Active() bool {
	return len(s.QueryValues()) > 0
}

// URL renders the selection as a link to base carrying every active
// filter. The page is left out on purpose: filter links start over
// from page 1.
func (s Selection) URL(base string) string {
	q := s.QueryValues()
	if len(q) == 0 {
		return base
	}
	return base + "?" + q.Encode()
}

// Fields exposes the filterable attributes of a list item. Zero-value
// strings mean the item does not carry that attribute.
type Fields struct {
	Category string
	Tags     []string
	Author   string
}

// Result is the outcome of applying a selection to a list.
type Result[T any] struct {
	Visible       []T
	FilteredCount int
	Page          int
	TotalPages    int
}

// Apply filters items by the selection and returns the requested page.
// A filter value of All (or empty) matches everything. Out-of-range
// pages are clamped, so a filter change that shrinks the list still
// renders the nearest valid page.
func Apply[T any](items []T, fields func(T) Fields, sel Selection, perPage int) Result[T] {
	filtered := make([]T, 0, len(items))
	for _, it := range items {
		f := fields(it)
		if !matches(sel.Category, f.Category) {
			continue
		}
		if !matchesAny(sel.Tag, f.Tags) {
			continue
		}
		if !matches(sel.Author, f.Author) {
			continue
		}
		filtered = append(filtered, it)
	}

	page, totalPages := uikit.NormalizePagination(sel.Page, len(filtered), perPage)

	start := (page - 1) * perPage
	end := start + perPage
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return Result[T]{
		Visible:       filtered[start:end],
		FilteredCount: len(filtered),
		Page:          page,
		TotalPages:    totalPages,
	}
}

// Options collects the distinct non-empty values of a string attribute
// in first-appearance order, prefixed with All.
func Options[T any](items []T, value func(T) string) []string {
	opts := []string{All}
	seen := make(map[string]bool)
	for _, it := range items {
		v := value(it)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		opts = append(opts, v)
	}
	return opts
}

// TagOptions collects the distinct tags across all items in
// first-appearance order, prefixed with All.
func TagOptions[T any](items []T, tags func(T) []string) []string {
	opts := []string{All}
	seen := make(map[string]bool)
	for _, it := range items {
		for _, v := range tags(it) {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			opts = append(opts, v)
		}
	}
	return opts
}

func valueOrAll(v string) string {
	if v == "" {
		return All
	}
	return v
}

func matches(want, have string) bool {
	return want == All || want == "" || want == have
}

func matchesAny(want string, have []string) bool {
	if want == All || want == "" {
		return true
	}
	for _, h := range have {
		if h == want {
			return true
		}
	}
	return false
}
