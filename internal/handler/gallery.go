// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"sort"

	"github.com/bitsa/bitsa-web/internal/api"
	"github.com/bitsa/bitsa-web/internal/listing"
	"github.com/bitsa/bitsa-web/internal/middleware"
	"github.com/bitsa/bitsa-web/internal/model"
	"github.com/bitsa/bitsa-web/internal/render"
	"github.com/bitsa/bitsa-web/internal/uikit"
)

// photosPerPage is the gallery page size.
const photosPerPage = 12

// GalleryHandler serves the photo gallery.
type GalleryHandler struct {
	api      *api.Cached
	renderer *render.Renderer
	metrics  *middleware.Metrics
}

// NewGalleryHandler creates a new GalleryHandler.
func NewGalleryHandler(cached *api.Cached, renderer *render.Renderer, metrics *middleware.Metrics) *GalleryHandler {
	return &GalleryHandler{api: cached, renderer: renderer, metrics: metrics}
}

// GalleryData is the template data for the gallery page.
type GalleryData struct {
	Photos     []model.Photo
	Categories []string
	Uploaders  []string
	Selected   listing.Selection
	Pagination uikit.Pagination
	APIOrigin  string
}

// List renders the gallery grid, newest uploads first, with the same
// filter and pagination behavior as the blog. Photos filter by category
// and by who uploaded them.
func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	photos, err := h.api.ListPhotos(r.Context())
	if err != nil {
		h.metrics.RecordUpstreamError()
		flashError(w, r, h.renderer, redirectHome, api.Message(err, "The gallery is unavailable right now."))
		return
	}

	sort.SliceStable(photos, func(i, j int) bool {
		return photos[i].UploadedAt.After(photos[j].UploadedAt)
	})

	sel := listing.ParseSelection(r)
	result := listing.Apply(photos, func(p model.Photo) listing.Fields {
		return listing.Fields{Category: p.Category, Author: p.UploadedBy}
	}, sel, photosPerPage)

	data := GalleryData{
		Photos:     result.Visible,
		Categories: listing.Options(photos, func(p model.Photo) string { return p.Category }),
		Uploaders:  listing.Options(photos, func(p model.Photo) string { return p.UploadedBy }),
		Selected:   sel,
		Pagination: uikit.BuildPagination(result.Page, result.FilteredCount, photosPerPage, RouteGallery, sel.QueryValues()),
		APIOrigin:  h.api.Client().Origin(),
	}
	renderPage(w, r, h.renderer, "gallery", pageData(r, "Gallery", data))
}
