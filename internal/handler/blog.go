// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"html/template"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/bitsa/bitsa-web/internal/api"
	"github.com/bitsa/bitsa-web/internal/listing"
	"github.com/bitsa/bitsa-web/internal/middleware"
	"github.com/bitsa/bitsa-web/internal/model"
	"github.com/bitsa/bitsa-web/internal/render"
	"github.com/bitsa/bitsa-web/internal/uikit"
	"github.com/bitsa/bitsa-web/internal/util"
)

// postsPerPage is the blog listing page size.
const postsPerPage = 8

// BlogHandler serves the blog listing and post detail routes.
type BlogHandler struct {
	api      *api.Cached
	renderer *render.Renderer
	metrics  *middleware.Metrics
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(cached *api.Cached, renderer *render.Renderer, metrics *middleware.Metrics) *BlogHandler {
	return &BlogHandler{api: cached, renderer: renderer, metrics: metrics}
}

// BlogData is the template data for the blog listing.
type BlogData struct {
	Posts      []model.BlogPost
	Categories []string
	Tags       []string
	Authors    []string
	Selected   listing.Selection
	Pagination uikit.Pagination
	APIOrigin  string
}

// List renders the blog listing with category, tag and author filters.
// Filters combine, and page links keep the active filter.
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.api.ListPosts(r.Context())
	if err != nil {
		h.metrics.RecordUpstreamError()
		flashError(w, r, h.renderer, redirectHome, api.Message(err, "The blog is unavailable right now."))
		return
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Published().After(posts[j].Published())
	})

	sel := listing.ParseSelection(r)
	result := listing.Apply(posts, func(p model.BlogPost) listing.Fields {
		return listing.Fields{Category: p.Category, Tags: p.Tags, Author: p.AuthorName}
	}, sel, postsPerPage)

	data := BlogData{
		Posts:      result.Visible,
		Categories: listing.Options(posts, func(p model.BlogPost) string { return p.Category }),
		Tags:       listing.TagOptions(posts, func(p model.BlogPost) []string { return p.Tags }),
		Authors:    listing.Options(posts, func(p model.BlogPost) string { return p.AuthorName }),
		Selected:   sel,
		Pagination: uikit.BuildPagination(result.Page, result.FilteredCount, postsPerPage, RouteBlog, sel.QueryValues()),
		APIOrigin:  h.api.Client().Origin(),
	}
	renderPage(w, r, h.renderer, "blog", pageData(r, "Blog", data))
}

// BlogPostData is the template data for a single post.
type BlogPostData struct {
	Post      model.BlogPost
	Content   template.HTML
	Related   []model.BlogPost
	APIOrigin string
}

// Detail renders a single post. The URL carries an ID-slug segment;
// only the numeric prefix is authoritative.
func (h *BlogHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := idFromSlug(chi.URLParam(r, "idslug"))
	if id == 0 {
		h.notFound(w, r)
		return
	}

	post, err := h.api.Client().GetPost(r.Context(), id)
	if err != nil {
		if api.IsNotFound(err) {
			h.notFound(w, r)
			return
		}
		h.metrics.RecordUpstreamError()
		flashError(w, r, h.renderer, redirectBlog, api.Message(err, "Could not load the post."))
		return
	}

	// Stale slugs (the post was renamed) redirect to the canonical URL.
	if canonical := util.Slugify(post.Title); canonical != "" {
		if want := fmt.Sprintf("%d-%s", post.ID, canonical); chi.URLParam(r, "idslug") != want {
			http.Redirect(w, r, RouteBlog+"/"+want, http.StatusMovedPermanently)
			return
		}
	}

	content, err := util.RenderMarkdown(post.Content)
	if err != nil {
		logAndInternalError(w, "failed to render post content", "error", err, "post_id", id)
		return
	}

	data := BlogPostData{
		Post:      *post,
		Content:   content,
		Related:   h.related(r, *post),
		APIOrigin: h.api.Client().Origin(),
	}
	renderPage(w, r, h.renderer, "blog_post", pageData(r, post.Title, data))
}

// related picks up to three other posts from the same category.
func (h *BlogHandler) related(r *http.Request, post model.BlogPost) []model.BlogPost {
	posts, err := h.api.ListPosts(r.Context())
	if err != nil {
		return nil
	}
	var related []model.BlogPost
	for _, p := range posts {
		if p.ID != post.ID && p.Category == post.Category {
			related = append(related, p)
			if len(related) == 3 {
				break
			}
		}
	}
	return related
}

func (h *BlogHandler) notFound(w http.ResponseWriter, r *http.Request) {
	data := pageData(r, "Post Not Found", nil)
	if err := h.renderer.RenderStatus(w, r, "404", http.StatusNotFound, data); err != nil {
		http.NotFound(w, r)
	}
}
