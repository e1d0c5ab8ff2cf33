// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

// Package uikit provides reusable template helpers and pagination logic
// shared by the public pages and the admin dashboard.
package uikit

import (
	"html/template"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TemplateFuncs returns a template.FuncMap with pure helper functions.
//
// Callers can merge project-specific functions on top:
//
//	funcs := uikit.TemplateFuncs()
//	funcs["myFunc"] = myProjectFunc
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		// String functions
		"lower":     strings.ToLower,
		"upper":     strings.ToUpper,
		"title":     titleCase,
		"hasPrefix": strings.HasPrefix,
		"truncate": func(s string, length int) string {
			if len(s) <= length {
				return s
			}
			return s[:length] + "..."
		},
		"contains": func(slice []string, elem string) bool {
			for _, s := range slice {
				if s == elem {
					return true
				}
			}
			return false
		},

		// HTML/URL safety
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
		"safeURL": func(s string) template.URL {
			return template.URL(s)
		},

		// Math
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"seq": func(start, end int) []int {
			var result []int
			for i := start; i <= end; i++ {
				result = append(result, i)
			}
			return result
		},

		// Time
		"now": time.Now,
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"formatDateTime": func(t time.Time) string {
			return t.Format("Jan 2, 2006 3:04 PM")
		},
		"formatEventDate": FormatEventDate,
		"formatEventTime": FormatEventTime,

		// Formatting
		"formatNumber": func(n int) string {
			if n < 1000 {
				return strconv.Itoa(n)
			}
			s := strconv.Itoa(n)
			var result strings.Builder
			for i, c := range s {
				if i > 0 && (len(s)-i)%3 == 0 {
					result.WriteRune(',')
				}
				result.WriteRune(c)
			}
			return result.String()
		},

		// Type conversion
		"deref": func(p *int) int {
			if p == nil {
				return 0
			}
			return *p
		},

		// Data structures
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			dict := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				dict[key] = values[i+1]
			}
			return dict
		},
	}
}

// FormatEventDate renders an API date string (2006-01-02) as a readable
// date. Unparseable input is returned as-is.
func FormatEventDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("Mon, Jan 2, 2006")
}

// FormatEventTime renders an API time string (15:04 or 15:04:05) in
// 12-hour format. Unparseable input is returned as-is.
func FormatEventTime(tm string) string {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, tm); err == nil {
			return t.Format("3:04 PM")
		}
	}
	return tm
}

// titleCase turns lowercase category labels from the API into display
// form. A fresh Caser per call: Caser carries state and is not safe for
// concurrent use, and templates render concurrently.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}
