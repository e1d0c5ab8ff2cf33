// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Credentials carries a login form submission.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration carries a new-member signup submission.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the envelope returned by auth/login/ and
// auth/register/. Older API builds used "token" where current
// ones use "access"; BearerToken hides the difference.
type AuthResponse struct {
	User    User   `json:"user"`
	Access  string `json:"access,omitempty"`
	Refresh string `json:"refresh,omitempty"`
	Token   string `json:"token,omitempty"`
}

// BearerToken returns the access token regardless of which field
// the API populated.
func (a AuthResponse) BearerToken() string {
	if a.Access != "" {
		return a.Access
	}
	return a.Token
}
