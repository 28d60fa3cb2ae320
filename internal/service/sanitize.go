// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicy = bluemonday.StrictPolicy()
	bodyPolicy = newBodyPolicy()
)

func newBodyPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("srcset", "sizes", "loading").OnElements("img")
	return p
}

// CleanHTML strips all markup from s and returns plain text.
func CleanHTML(s string) string {
	if s == "" {
		return s
	}
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

// SanitizeBody removes scripts, event handlers and other unsafe markup
// from user supplied HTML.
func SanitizeBody(s string) string {
	if s == "" {
		return s
	}
	return bodyPolicy.Sanitize(s)
}

// Excerpt returns the first words of the plain text of body. A trailing
// ellipsis marks truncation.
func Excerpt(body string, words int) string {
	fields := strings.Fields(CleanHTML(body))
	if len(fields) <= words {
		return strings.Join(fields, " ")
	}
	return strings.Join(fields[:words], " ") + "..."
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
