// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// htmlSanitizer strips dangerous markup (scripts, event handlers) from
// rendered post bodies while keeping the usual article tags. Post content
// comes from the association API, which admins write through the Django
// admin, so it is treated as user-generated content.
var htmlSanitizer = bluemonday.UGCPolicy()

// markdown is the shared converter. GFM gives tables and strikethrough,
// which post authors use. WithUnsafe lets raw HTML through to the
// sanitizer; without it goldmark replaces inline HTML with a comment
// and bluemonday never sees it.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// RenderMarkdown converts Markdown to sanitized HTML suitable for
// direct template embedding.
func RenderMarkdown(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return template.HTML(htmlSanitizer.SanitizeBytes(buf.Bytes())), nil //nolint:gosec // sanitized above
}
