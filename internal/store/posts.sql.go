// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (Post, error) {
	var i Post
	err := row.Scan(
		&i.ID,
		&i.Type,
		&i.UserID,
		&i.ParentID,
		&i.CategoryID,
		&i.Title,
		&i.Slug,
		&i.Body,
		&i.Excerpt,
		&i.Nav,
		&i.Status,
		&i.CommentStatus,
		&i.PageLayout,
		&i.CreatedOn,
		&i.CreatedDay,
		&i.UpdatedOn,
		&i.ViewCount,
	)
	return i, err
}

func (q *Queries) listPosts(ctx context.Context, query string, args ...any) ([]Post, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []Post{}
	for rows.Next() {
		i, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (q *Queries) countRows(ctx context.Context, query string, args ...any) (int64, error) {
	row := q.db.QueryRowContext(ctx, query, args...)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createPost = `-- name: CreatePost :one
INSERT INTO posts (
    type, user_id, parent_id, category_id, title, slug, body, excerpt,
    status, comment_status, page_layout, created_on, created_day, updated_on
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, type, user_id, parent_id, category_id, title, slug, body, excerpt, nav, status, comment_status, page_layout, created_on, created_day, updated_on, view_count
`

type CreatePostParams struct {
	Type          string
	UserID        int64
	ParentID      int64
	CategoryID    sql.NullInt64
	Title         string
	Slug          sql.NullString
	Body          string
	Excerpt       string
	Status        string
	CommentStatus string
	PageLayout    string
	CreatedOn     time.Time
	CreatedDay    string
	UpdatedOn     sql.NullTime
}

func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (Post, error) {
	row := q.db.QueryRowContext(ctx, createPost,
		arg.Type,
		arg.UserID,
		arg.ParentID,
		arg.CategoryID,
		arg.Title,
		arg.Slug,
		arg.Body,
		arg.Excerpt,
		arg.Status,
		arg.CommentStatus,
		arg.PageLayout,
		arg.CreatedOn,
		arg.CreatedDay,
		arg.UpdatedOn,
	)
	i, err := scanPost(row)
	return i, translateError(err)
}

const updatePost = `-- name: UpdatePost :one
UPDATE posts SET
    parent_id = ?,
    category_id = ?,
    title = ?,
    slug = ?,
    body = ?,
    excerpt = ?,
    status = ?,
    comment_status = ?,
    page_layout = ?,
    created_on = ?,
    created_day = ?,
    updated_on = ?
WHERE id = ?
RETURNING id, type, user_id, parent_id, category_id, title, slug, body, excerpt, nav, status, comment_status, page_layout, created_on, created_day, updated_on, view_count
`

type UpdatePostParams struct {
	ParentID      int64
	CategoryID    sql.NullInt64
	Title         string
	Slug          sql.NullString
	Body          string
	Excerpt       string
	Status        string
	CommentStatus string
	PageLayout    string
	CreatedOn     time.Time
	CreatedDay    string
	UpdatedOn     sql.NullTime
	ID            int64
}

func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) (Post, error) {
	row := q.db.QueryRowContext(ctx, updatePost,
		arg.ParentID,
		arg.CategoryID,
		arg.Title,
		arg.Slug,
		arg.Body,
		arg.Excerpt,
		arg.Status,
		arg.CommentStatus,
		arg.PageLayout,
		arg.CreatedOn,
		arg.CreatedDay,
		arg.UpdatedOn,
		arg.ID,
	)
	i, err := scanPost(row)
	return i, translateError(err)
}

const deletePost = `-- name: DeletePost :exec
DELETE FROM posts WHERE id = ?
`

func (q *Queries) DeletePost(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deletePost, id)
	return err
}

const getPostByID = `-- name: GetPostByID :one
SELECT id, type, user_id, parent_id, category_id, title, slug, body, excerpt, nav, status, comment_status, page_layout, created_on, created_day, updated_on, view_count
FROM posts
WHERE id = ? AND type = ?
`

// GetBlogPostByID returns a blog post row; pages with the same id are not matched.
func (q *Queries) GetBlogPostByID(ctx context.Context, id int64) (Post, error) {
	return scanPost(q.db.QueryRowContext(ctx, getPostByID, id, PostTypeBlogPost))
}

// GetPageByID returns a page row; blog posts with the same id are not matched.
func (q *Queries) GetPageByID(ctx context.Context, id int64) (Post, error) {
	return scanPost(q.db.QueryRowContext(ctx, getPostByID, id, PostTypePage))
}

const getBlogPostBySlug = `-- name: GetBlogPostBySlug :one
SELECT id, type, user_id, parent_id, category_id, title, slug, body, excerpt, nav, status, comment_status, page_layout, created_on, created_day, updated_on, view_count
FROM posts
WHERE type = 'blog_post' AND slug = ? AND created_day = ?
`

func (q *Queries) GetBlogPostBySlug(ctx context.Context, slug, createdDay string) (Post, error) {
	return scanPost(q.db.QueryRowContext(ctx, getBlogPostBySlug, slug, createdDay))
}

const getBlogPostIDBySlug = `-- name: GetBlogPostIDBySlug :one
SELECT id FROM posts
WHERE type = 'blog_post' AND slug = ? AND created_day = ?
`

func (q *Queries) GetBlogPostIDBySlug(ctx context.Context, slug, createdDay string) (int64, error) {
	row := q.db.QueryRowContext(ctx, getBlogPostIDBySlug, slug, createdDay)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const listPublishedBlogPosts = `-- name: ListPublishedBlogPosts :many
SELECT id, type, user_id, parent_id, category_id, title, slug, body, excerpt, nav, status, comment_status, page_layout, created_on, created_day, updated_on, view_count
FROM posts
WHERE type = 'blog_post' AND status = 'published'
ORDER BY created_on DESC, id DESC
LIMIT ? OFFSET ?
`

func (q *Queries) ListPublishedBlogPosts(ctx context.Context, limit, offset int64) ([]Post, error) {
	return q.listPosts(ctx, listPublishedBlogPosts, limit, offset)
}

const countPublishedBlogPosts = `-- name: CountPublishedBlogPosts :one
SELECT COUNT(*) FROM posts WHERE type = 'blog_post' AND status = 'published'
`

func (q *Queries) CountPublishedBlogPosts(ctx context.Context) (int64, error) {
	return q.countRows(ctx, countPublishedBlogPosts)
}

const listDraftBlogPosts = `-- name: ListDraftBlogPosts :many
SELECT id, type, user_id, parent_id, category_id, title, slug, body, excerpt, nav, status, comment_status, page_layout, created_on, created_day, updated_on, view_count
FROM posts
WHERE type = 'blog_post' AND status = 'draft'
ORDER BY created_on DESC, id DESC
LIMIT ? OFFSET ?
`

func (q *Queries) ListDraftBlogPosts(ctx context.Context, limit, offset int64) ([]Post, error) {
	return q.listPosts(ctx, listDraftBlogPosts, limit, offset)
}

const countDraftBlogPosts = `-- name: CountDraftBlogPosts :one
SELECT COUNT(*) FROM posts WHERE type = 'blog_post' AND status = 'draft'
`

func (q *Queries) CountDraftBlogPosts(ctx context.Context) (int64, error) {
	return q.countRows(ctx, countDraftBlogPosts)
}

const listPublishedBlogPostsByCategory = `-- name: ListPublishedBlogPostsByCategory :many
SELECT id, type, user_id, parent_id, category_id, title, slug, body, excerpt, nav, status, comment_status, page_layout, created_on, created_day, updated_on, view_count
FROM posts
WHERE type = 'blog_post' AND status = 'published' AND category_id = ?
ORDER BY created_on DESC, id DESC
LIMIT ? OFFSET ?
`

func (q *Queries) ListPublishedBlogPostsByCategory(ctx context.Context, categoryID, limit, offset int64) ([]Post, error) {
	return q.listPosts(ctx, listPublishedBlogPostsByCategory, categoryID, limit, offset)
}

const countPublishedBlogPostsByCategory = `-- name: CountPublishedBlogPostsByCategory :one
SELECT COUNT(*) FROM posts
WHERE type = 'blog_post' AND status = 'published' AND category_id = ?
`

func (q *Queries) CountPublishedBlogPostsByCategory(ctx context.Context, categoryID int64) (int64, error) {
	return q.countRows(ctx, countPublishedBlogPostsByCategory, categoryID)
}

const listPublishedBlogPostsByTag = `-- name: ListPublishedBlogPostsByTag :many
SELECT p.id, p.type, p.user_id, p.parent_id, p.category_id, p.title, p.slug, p.body, p.excerpt, p.nav, p.status, p.comment_status, p.page_layout, p.created_on, p.created_day, p.updated_on, p.view_count
FROM posts p
INNER JOIN post_tags pt ON pt.post_id = p.id
WHERE p.type = 'blog_post' AND p.status = 'published' AND pt.tag_id = ?
ORDER BY p.created_on DESC, p.id DESC
LIMIT ? OFFSET ?
`

func (q *Queries) ListPublishedBlogPostsByTag(ctx context.Context, tagID, limit, offset int64) ([]Post, error) {
	return q.listPosts(ctx, listPublishedBlogPostsByTag, tagID, limit, offset)
}

const countPublishedBlogPostsByTag = `-- name: CountPublishedBlogPostsByTag :one
SELECT COUNT(*) FROM posts p
INNER JOIN post_tags pt ON pt.post_id = p.id
WHERE p.type = 'blog_post' AND p.status = 'published' AND pt.tag_id = ?
`

func (q *Queries) CountPublishedBlogPostsByTag(ctx context.Context, tagID int64) (int64, error) {
	return q.countRows(ctx, countPublishedBlogPostsByTag, tagID)
}

const listPublishedBlogPostsByDayPrefix = `-- name: ListPublishedBlogPostsByDayPrefix :many
SELECT id, type, user_id, parent_id, category_id, title, slug, body, excerpt, nav, status, comment_status, page_layout, created_on, created_day, updated_on, view_count
FROM posts
WHERE type = 'blog_post' AND status = 'published' AND created_day LIKE ? || '%'
ORDER BY created_on DESC, id DESC
LIMIT ? OFFSET ?
`

// ListPublishedBlogPostsByDayPrefix lists posts whose creation day starts
// with prefix, e.g. "2024" for a year or "2024-03" for a month.
func (q *Queries) ListPublishedBlogPostsByDayPrefix(ctx context.Context, prefix string, limit, offset int64) ([]Post, error) {
	return q.listPosts(ctx, listPublishedBlogPostsByDayPrefix, prefix, limit, offset)
}

const countPublishedBlogPostsByDayPrefix = `-- name: CountPublishedBlogPostsByDayPrefix :one
SELECT COUNT(*) FROM posts
WHERE type = 'blog_post' AND status = 'published' AND created_day LIKE ? || '%'
`

func (q *Queries) CountPublishedBlogPostsByDayPrefix(ctx context.Context, prefix string) (int64, error) {
	return q.countRows(ctx, countPublishedBlogPostsByDayPrefix, prefix)
}

const listArchiveMonths = `-- name: ListArchiveMonths :many
SELECT substr(created_day, 1, 7) AS month, COUNT(*) AS post_count
FROM posts
WHERE type = 'blog_post' AND status = 'published'
GROUP BY month
ORDER BY month DESC
`

func (q *Queries) ListArchiveMonths(ctx context.Context) ([]ArchiveMonth, error) {
	rows, err := q.db.QueryContext(ctx, listArchiveMonths)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []ArchiveMonth{}
	for rows.Next() {
		var i ArchiveMonth
		if err := rows.Scan(&i.Month, &i.PostCount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const reassignPostsCategory = `-- name: ReassignPostsCategory :execrows
UPDATE posts SET category_id = ? WHERE category_id = ?
`

func (q *Queries) ReassignPostsCategory(ctx context.Context, toCategoryID, fromCategoryID int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, reassignPostsCategory, toCategoryID, fromCategoryID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getPageBySlug = `-- name: GetPageBySlug :one
SELECT id, type, user_id, parent_id, category_id, title, slug, body, excerpt, nav, status, comment_status, page_layout, created_on, created_day, updated_on, view_count
FROM posts
WHERE type = 'page' AND parent_id = ? AND slug = ?
`

func (q *Queries) GetPageBySlug(ctx context.Context, parentID int64, slug string) (Post, error) {
	return scanPost(q.db.QueryRowContext(ctx, getPageBySlug, parentID, slug))
}

const getPageIDBySlug = `-- name: GetPageIDBySlug :one
SELECT id FROM posts WHERE type = 'page' AND parent_id = ? AND slug = ?
`

func (q *Queries) GetPageIDBySlug(ctx context.Context, parentID int64, slug string) (int64, error) {
	row := q.db.QueryRowContext(ctx, getPageIDBySlug, parentID, slug)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const listPageIDsByTitle = `-- name: ListPageIDsByTitle :many
SELECT id FROM posts
WHERE type = 'page' AND parent_id = ? AND title = ? COLLATE NOCASE
`

// ListPageIDsByTitle returns ids of sibling pages whose title matches case-insensitively.
func (q *Queries) ListPageIDsByTitle(ctx context.Context, parentID int64, title string) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx, listPageIDsByTitle, parentID, title)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		items = append(items, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listPagesByParent = `-- name: ListPagesByParent :many
SELECT id, type, user_id, parent_id, category_id, title, slug, body, excerpt, nav, status, comment_status, page_layout, created_on, created_day, updated_on, view_count
FROM posts
WHERE type = 'page' AND parent_id = ?
ORDER BY created_on, id
`

func (q *Queries) ListPagesByParent(ctx context.Context, parentID int64) ([]Post, error) {
	return q.listPosts(ctx, listPagesByParent, parentID)
}

const countChildPages = `-- name: CountChildPages :one
SELECT COUNT(*) FROM posts WHERE type = 'page' AND parent_id = ?
`

func (q *Queries) CountChildPages(ctx context.Context, parentID int64) (int64, error) {
	return q.countRows(ctx, countChildPages, parentID)
}

const updatePageNav = `-- name: UpdatePageNav :exec
UPDATE posts SET nav = ?, updated_on = ? WHERE id = ? AND type = 'page'
`

func (q *Queries) UpdatePageNav(ctx context.Context, id int64, nav string, updatedOn time.Time) error {
	_, err := q.db.ExecContext(ctx, updatePageNav, nav, updatedOn, id)
	return err
}
