// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// BlogSettings are runtime blog options persisted in the settings table.
type BlogSettings struct {
	DefaultCategoryID int64 `json:"default_category_id"`
	PostPerPage       int   `json:"post_per_page"`
}
