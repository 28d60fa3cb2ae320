// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain types returned by services and
// serialized by the API: blog posts, pages, taxonomy, media and settings.
package model

import (
	"fmt"
	"time"
)

// PostStatus is the publication state shared by blog posts and pages.
type PostStatus string

// Post statuses
const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
)

// Valid reports whether s is a known status.
func (s PostStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// Comment statuses
const (
	CommentsOpen   = "open"
	CommentsClosed = "closed"
)

// Title and slug limits for posts and pages.
const (
	PostTitleMaxLen = 250
	ExcerptWords    = 55
)

// BlogPost is a dated article with an optional category and any number of tags.
type BlogPost struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug,omitempty"`
	Body          string     `json:"body"`
	Excerpt       string     `json:"excerpt"`
	Status        PostStatus `json:"status"`
	CommentStatus string     `json:"comment_status"`
	Category      *Category  `json:"category,omitempty"`
	Tags          []Tag      `json:"tags"`
	CreatedOn     time.Time  `json:"created_on"`
	UpdatedOn     *time.Time `json:"updated_on,omitempty"`
	ViewCount     int64      `json:"view_count"`
}

// IsPublished returns true if the post is published.
func (p *BlogPost) IsPublished() bool {
	return p.Status == StatusPublished
}

// IsDraft returns true if the post is a draft.
func (p *BlogPost) IsDraft() bool {
	return p.Status == StatusDraft
}

// RelativeLink is the public path of the post, e.g. /post/2024/03/07/hello-world.
// Drafts without a slug have no link.
func (p *BlogPost) RelativeLink() string {
	if p.Slug == "" {
		return ""
	}
	return fmt.Sprintf("/post/%04d/%02d/%02d/%s", p.CreatedOn.Year(), p.CreatedOn.Month(), p.CreatedOn.Day(), p.Slug)
}

// PostList is one page of blog posts.
type PostList struct {
	Posts      []BlogPost `json:"posts"`
	TotalCount int64      `json:"total_count"`
	PageIndex  int        `json:"page"`
	PageSize   int        `json:"per_page"`
}

// TotalPages returns the number of pages for TotalCount at PageSize.
func (l PostList) TotalPages() int {
	if l.PageSize <= 0 {
		return 0
	}
	return int((l.TotalCount + int64(l.PageSize) - 1) / int64(l.PageSize))
}

// ArchiveItem is the number of published posts in one month.
type ArchiveItem struct {
	Year  int   `json:"year"`
	Month int   `json:"month"`
	Count int64 `json:"count"`
}
