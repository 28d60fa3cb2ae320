// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

func scanMedium(row rowScanner) (Medium, error) {
	var i Medium
	err := row.Scan(
		&i.ID,
		&i.Uuid,
		&i.AppType,
		&i.FileName,
		&i.Title,
		&i.Description,
		&i.Caption,
		&i.ContentType,
		&i.Length,
		&i.Width,
		&i.Height,
		&i.ResizeCount,
		&i.UploadedOn,
		&i.UploadedYear,
		&i.UploadedMonth,
		&i.UserID,
		&i.UploadedFrom,
	)
	return i, err
}

const createMedia = `-- name: CreateMedia :one
INSERT INTO media (
    uuid, app_type, file_name, title, description, caption, content_type, length,
    width, height, resize_count, uploaded_on, uploaded_year, uploaded_month, user_id, uploaded_from
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, uuid, app_type, file_name, title, description, caption, content_type, length, width, height, resize_count, uploaded_on, uploaded_year, uploaded_month, user_id, uploaded_from
`

type CreateMediaParams struct {
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

func (q *Queries) CreateMedia(ctx context.Context, arg CreateMediaParams) (Medium, error) {
	row := q.db.QueryRowContext(ctx, createMedia,
		arg.Uuid,
		arg.AppType,
		arg.FileName,
		arg.Title,
		arg.Description,
		arg.Caption,
		arg.ContentType,
		arg.Length,
		arg.Width,
		arg.Height,
		arg.ResizeCount,
		arg.UploadedOn,
		arg.UploadedYear,
		arg.UploadedMonth,
		arg.UserID,
		arg.UploadedFrom,
	)
	i, err := scanMedium(row)
	return i, translateError(err)
}

const getMediaByID = `-- name: GetMediaByID :one
SELECT id, uuid, app_type, file_name, title, description, caption, content_type, length, width, height, resize_count, uploaded_on, uploaded_year, uploaded_month, user_id, uploaded_from
FROM media WHERE id = ?
`

func (q *Queries) GetMediaByID(ctx context.Context, id int64) (Medium, error) {
	return scanMedium(q.db.QueryRowContext(ctx, getMediaByID, id))
}

const getMediaByFileName = `-- name: GetMediaByFileName :one
SELECT id, uuid, app_type, file_name, title, description, caption, content_type, length, width, height, resize_count, uploaded_on, uploaded_year, uploaded_month, user_id, uploaded_from
FROM media
WHERE app_type = ? AND file_name = ? COLLATE NOCASE AND uploaded_year = ? AND uploaded_month = ?
`

type GetMediaByFileNameParams struct {
	AppType       string
	FileName      string
	UploadedYear  int64
	UploadedMonth int64
}

func (q *Queries) GetMediaByFileName(ctx context.Context, arg GetMediaByFileNameParams) (Medium, error) {
	return scanMedium(q.db.QueryRowContext(ctx, getMediaByFileName,
		arg.AppType, arg.FileName, arg.UploadedYear, arg.UploadedMonth))
}

const listMedia = `-- name: ListMedia :many
SELECT id, uuid, app_type, file_name, title, description, caption, content_type, length, width, height, resize_count, uploaded_on, uploaded_year, uploaded_month, user_id, uploaded_from
FROM media
WHERE app_type = ?
ORDER BY uploaded_on DESC, id DESC
LIMIT ? OFFSET ?
`

func (q *Queries) ListMedia(ctx context.Context, appType string, limit, offset int64) ([]Medium, error) {
	rows, err := q.db.QueryContext(ctx, listMedia, appType, limit, offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []Medium{}
	for rows.Next() {
		i, err := scanMedium(rows)
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

const countMedia = `-- name: CountMedia :one
SELECT COUNT(*) FROM media WHERE app_type = ?
`

func (q *Queries) CountMedia(ctx context.Context, appType string) (int64, error) {
	return q.countRows(ctx, countMedia, appType)
}

const deleteMedia = `-- name: DeleteMedia :exec
DELETE FROM media WHERE id = ?
`

func (q *Queries) DeleteMedia(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteMedia, id)
	return err
}
