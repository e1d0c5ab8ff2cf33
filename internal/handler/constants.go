// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteAbout is the about page route.
	RouteAbout = "/about"
	// RouteContact is the contact page route.
	RouteContact = "/contact"
	// RouteEvents is the events listing route.
	RouteEvents = "/events"
	// RouteBlog is the blog listing route.
	RouteBlog = "/blog"
	// RouteGallery is the gallery route.
	RouteGallery = "/gallery"
	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteRegister is the registration route.
	RouteRegister = "/register"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteProfile is the member profile route.
	RouteProfile = "/profile"
	// RouteAdmin is the admin dashboard route.
	RouteAdmin = "/admin"
	// RouteUsers is the admin members route.
	RouteUsers = "/users"

	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"
	// RouteEventRSVP is the RSVP route pattern.
	RouteEventRSVP = RouteParamID + "/rsvp"
	// RouteBlogPost is the blog detail route pattern. The slug segment
	// starts with the post's numeric ID, e.g. /blog/7-welcome-week.
	RouteBlogPost = "/{idslug}"
)

const (
	redirectHome       = RouteRoot
	redirectLogin      = RouteLogin
	redirectRegister   = RouteRegister
	redirectEvents     = RouteEvents
	redirectBlog       = RouteBlog
	redirectContact    = RouteContact
	redirectProfile    = RouteProfile
	redirectAdmin      = RouteAdmin
	redirectAdminUsers = redirectAdmin + RouteUsers
	redirectEventsID   = RouteEvents + "/%d"
)
