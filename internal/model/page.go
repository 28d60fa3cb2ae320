// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Page layouts
const (
	PageLayoutDefault = "default"
	PageLayoutWide    = "wide"
	PageLayoutFull    = "full"
)

// ValidPageLayout reports whether layout is known.
func ValidPageLayout(layout string) bool {
	switch layout {
	case PageLayoutDefault, PageLayoutWide, PageLayoutFull:
		return true
	default:
		return false
	}
}

// Page is a standalone document. Pages form a two-level tree: parents at the
// top and children namespaced under them.
type Page struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	ParentID   int64      `json:"parent_id"`
	Title      string     `json:"title"`
	Slug       string     `json:"slug,omitempty"`
	Body       string     `json:"body"`
	Excerpt    string     `json:"excerpt"`
	Status     PostStatus `json:"status"`
	PageLayout string     `json:"page_layout"`
	Nav        string     `json:"nav,omitempty"`
	NavHTML    string     `json:"nav_html,omitempty"`
	CreatedOn  time.Time  `json:"created_on"`
	UpdatedOn  *time.Time `json:"updated_on,omitempty"`
	Parent     *PageRef   `json:"parent,omitempty"`
	Children   []PageRef  `json:"children,omitempty"`
}

// PageRef is a lightweight link to a related page.
type PageRef struct {
	ID     int64      `json:"id"`
	Title  string     `json:"title"`
	Slug   string     `json:"slug"`
	Status PostStatus `json:"status"`
}

// IsParent returns true for top-level pages.
func (p *Page) IsParent() bool {
	return p.ParentID == 0
}

// IsPublished returns true if the page is published.
func (p *Page) IsPublished() bool {
	return p.Status == StatusPublished
}

// RelativeLink is the public path, /parent or /parent/child.
func (p *Page) RelativeLink() string {
	if p.Slug == "" {
		return ""
	}
	if p.Parent != nil {
		return "/" + p.Parent.Slug + "/" + p.Slug
	}
	return "/" + p.Slug
}
