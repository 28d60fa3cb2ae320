// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Taxonomy titles and slugs share one length limit.
const TaxonomyTitleMaxLen = 24

// Category groups blog posts. Exactly one category is the default and cannot be deleted.
type Category struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Count       int64  `json:"count"`
	IsDefault   bool   `json:"is_default"`
}

// Tag is a free-form label attached to blog posts.
type Tag struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	Count       int64  `json:"count"`
}
