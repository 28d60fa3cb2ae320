// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const createCategory = `-- name: CreateCategory :one
INSERT INTO categories (title, slug, description, created_at)
VALUES (?, ?, ?, ?)
RETURNING id, title, slug, description, created_at
`

type CreateCategoryParams struct {
	Title       string
	Slug        string
	Description string
	CreatedAt   time.Time
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error) {
	row := q.db.QueryRowContext(ctx, createCategory, arg.Title, arg.Slug, arg.Description, arg.CreatedAt)
	var i Category
	err := row.Scan(&i.ID, &i.Title, &i.Slug, &i.Description, &i.CreatedAt)
	return i, translateError(err)
}

const updateCategory = `-- name: UpdateCategory :one
UPDATE categories SET title = ?, slug = ?, description = ?
WHERE id = ?
RETURNING id, title, slug, description, created_at
`

type UpdateCategoryParams struct {
	Title       string
	Slug        string
	Description string
	ID          int64
}

func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (Category, error) {
	row := q.db.QueryRowContext(ctx, updateCategory, arg.Title, arg.Slug, arg.Description, arg.ID)
	var i Category
	err := row.Scan(&i.ID, &i.Title, &i.Slug, &i.Description, &i.CreatedAt)
	return i, translateError(err)
}

const deleteCategory = `-- name: DeleteCategory :exec
DELETE FROM categories WHERE id = ?
`

func (q *Queries) DeleteCategory(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteCategory, id)
	return err
}

const getCategoryByID = `-- name: GetCategoryByID :one
SELECT id, title, slug, description, created_at FROM categories WHERE id = ?
`

func (q *Queries) GetCategoryByID(ctx context.Context, id int64) (Category, error) {
	row := q.db.QueryRowContext(ctx, getCategoryByID, id)
	var i Category
	err := row.Scan(&i.ID, &i.Title, &i.Slug, &i.Description, &i.CreatedAt)
	return i, err
}

const getCategoryBySlug = `-- name: GetCategoryBySlug :one
SELECT id, title, slug, description, created_at FROM categories WHERE slug = ? COLLATE NOCASE
`

func (q *Queries) GetCategoryBySlug(ctx context.Context, slug string) (Category, error) {
	row := q.db.QueryRowContext(ctx, getCategoryBySlug, slug)
	var i Category
	err := row.Scan(&i.ID, &i.Title, &i.Slug, &i.Description, &i.CreatedAt)
	return i, err
}

const getCategoryByTitle = `-- name: GetCategoryByTitle :one
SELECT id, title, slug, description, created_at FROM categories WHERE title = ? COLLATE NOCASE
`

func (q *Queries) GetCategoryByTitle(ctx context.Context, title string) (Category, error) {
	row := q.db.QueryRowContext(ctx, getCategoryByTitle, title)
	var i Category
	err := row.Scan(&i.ID, &i.Title, &i.Slug, &i.Description, &i.CreatedAt)
	return i, err
}

const listCategoriesWithCount = `-- name: ListCategoriesWithCount :many
SELECT c.id, c.title, c.slug, c.description, c.created_at,
       COUNT(p.id) AS post_count
FROM categories c
LEFT JOIN posts p ON p.category_id = c.id AND p.type = 'blog_post' AND p.status = 'published'
GROUP BY c.id
ORDER BY c.title COLLATE NOCASE
`

func (q *Queries) ListCategoriesWithCount(ctx context.Context) ([]CategoryWithCount, error) {
	rows, err := q.db.QueryContext(ctx, listCategoriesWithCount)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []CategoryWithCount{}
	for rows.Next() {
		var i CategoryWithCount
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.Slug,
			&i.Description,
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

const countCategories = `-- name: CountCategories :one
SELECT COUNT(*) FROM categories
`

func (q *Queries) CountCategories(ctx context.Context) (int64, error) {
	return q.countRows(ctx, countCategories)
}
