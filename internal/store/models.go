// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

// Post types stored in posts.type.
const (
	PostTypeBlogPost = "blog_post"
	PostTypePage     = "page"
)

// Post is a row of the posts table. Blog posts and pages share it.
type Post struct {
	ID            int64
	Type          string
	UserID        int64
	ParentID      int64
	CategoryID    sql.NullInt64
	Title         string
	Slug          sql.NullString
	Body          string
	Excerpt       string
	Nav           string
	Status        string
	CommentStatus string
	PageLayout    string
	CreatedOn     time.Time
	CreatedDay    string
	UpdatedOn     sql.NullTime
	ViewCount     int64
}

type Category struct {
	ID          int64
	Title       string
	Slug        string
	Description string
	CreatedAt   time.Time
}

// CategoryWithCount is a category plus its number of published blog posts.
type CategoryWithCount struct {
	Category
	PostCount int64
}

type Tag struct {
	ID          int64
	Title       string
	Slug        string
	Description string
	Color       string
	CreatedAt   time.Time
}

// TagWithCount is a tag plus its number of published blog posts.
type TagWithCount struct {
	Tag
	PostCount int64
}

type Medium struct {
	ID            int64
	Uuid          string
	AppType       string
	FileName      string
	Title         string
	Description   string
	Caption       string
	ContentType   string
	Length        int64
	Width         int64
	Height        int64
	ResizeCount   int64
	UploadedOn    time.Time
	UploadedYear  int64
	UploadedMonth int64
	UserID        int64
	UploadedFrom  string
}

type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	UserID    sql.NullInt64
	Metadata  string
	IpAddress string
	CreatedAt time.Time
}

// ArchiveMonth is one row of the monthly archive listing.
type ArchiveMonth struct {
	Month     string // YYYY-MM
	PostCount int64
}
