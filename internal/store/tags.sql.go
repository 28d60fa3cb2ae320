// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

func scanTag(row rowScanner) (Tag, error) {
	var i Tag
	err := row.Scan(&i.ID, &i.Title, &i.Slug, &i.Description, &i.Color, &i.CreatedAt)
	return i, err
}

const createTag = `-- name: CreateTag :one
INSERT INTO tags (title, slug, description, color, created_at)
VALUES (?, ?, ?, ?, ?)
RETURNING id, title, slug, description, color, created_at
`

type CreateTagParams struct {
	Title       string
	Slug        string
	Description string
	Color       string
	CreatedAt   time.Time
}

func (q *Queries) CreateTag(ctx context.Context, arg CreateTagParams) (Tag, error) {
	row := q.db.QueryRowContext(ctx, createTag, arg.Title, arg.Slug, arg.Description, arg.Color, arg.CreatedAt)
	i, err := scanTag(row)
	return i, translateError(err)
}

const updateTag = `-- name: UpdateTag :one
UPDATE tags SET title = ?, slug = ?, description = ?, color = ?
WHERE id = ?
RETURNING id, title, slug, description, color, created_at
`

type UpdateTagParams struct {
	Title       string
	Slug        string
	Description string
	Color       string
	ID          int64
}

func (q *Queries) UpdateTag(ctx context.Context, arg UpdateTagParams) (Tag, error) {
	row := q.db.QueryRowContext(ctx, updateTag, arg.Title, arg.Slug, arg.Description, arg.Color, arg.ID)
	i, err := scanTag(row)
	return i, translateError(err)
}

const deleteTag = `-- name: DeleteTag :exec
DELETE FROM tags WHERE id = ?
`

func (q *Queries) DeleteTag(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteTag, id)
	return err
}

const getTagByID = `-- name: GetTagByID :one
SELECT id, title, slug, description, color, created_at FROM tags WHERE id = ?
`

func (q *Queries) GetTagByID(ctx context.Context, id int64) (Tag, error) {
	return scanTag(q.db.QueryRowContext(ctx, getTagByID, id))
}

const getTagBySlug = `-- name: GetTagBySlug :one
SELECT id, title, slug, description, color, created_at FROM tags WHERE slug = ? COLLATE NOCASE
`

func (q *Queries) GetTagBySlug(ctx context.Context, slug string) (Tag, error) {
	return scanTag(q.db.QueryRowContext(ctx, getTagBySlug, slug))
}

const getTagByTitle = `-- name: GetTagByTitle :one
SELECT id, title, slug, description, color, created_at FROM tags WHERE title = ? COLLATE NOCASE
`

func (q *Queries) GetTagByTitle(ctx context.Context, title string) (Tag, error) {
	return scanTag(q.db.QueryRowContext(ctx, getTagByTitle, title))
}

const listTagsWithCount = `-- name: ListTagsWithCount :many
SELECT t.id, t.title, t.slug, t.description, t.color, t.created_at,
       COUNT(p.id) AS post_count
FROM tags t
LEFT JOIN post_tags pt ON pt.tag_id = t.id
LEFT JOIN posts p ON p.id = pt.post_id AND p.type = 'blog_post' AND p.status = 'published'
GROUP BY t.id
ORDER BY t.title COLLATE NOCASE
`

func (q *Queries) ListTagsWithCount(ctx context.Context) ([]TagWithCount, error) {
	rows, err := q.db.QueryContext(ctx, listTagsWithCount)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []TagWithCount{}
	for rows.Next() {
		var i TagWithCount
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.Slug,
			&i.Description,
			&i.Color,
			&i.CreatedAt,
			&i.PostCount,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const addPostTag = `-- name: AddPostTag :exec
INSERT OR IGNORE INTO post_tags (post_id, tag_id) VALUES (?, ?)
`

func (q *Queries) AddPostTag(ctx context.Context, postID, tagID int64) error {
	_, err := q.db.ExecContext(ctx, addPostTag, postID, tagID)
	return err
}

const deletePostTags = `-- name: DeletePostTags :exec
DELETE FROM post_tags WHERE post_id = ?
`

func (q *Queries) DeletePostTags(ctx context.Context, postID int64) error {
	_, err := q.db.ExecContext(ctx, deletePostTags, postID)
	return err
}

const listTagsForPost = `-- name: ListTagsForPost :many
SELECT t.id, t.title, t.slug, t.description, t.color, t.created_at
FROM tags t
INNER JOIN post_tags pt ON pt.tag_id = t.id
WHERE pt.post_id = ?
ORDER BY t.title COLLATE NOCASE
`

func (q *Queries) ListTagsForPost(ctx context.Context, postID int64) ([]Tag, error) {
	rows, err := q.db.QueryContext(ctx, listTagsForPost, postID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []Tag{}
	for rows.Next() {
		i, err := scanTag(rows)
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
