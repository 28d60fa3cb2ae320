// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"html"
	"log/slog"

	"github.com/olegiv/oblog/internal/cache"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/util"
)

func categoryFromRow(row store.Category, count int64, defaultID int64) model.Category {
	return model.Category{
		ID:          row.ID,
		Title:       row.Title,
		Slug:        row.Slug,
		Description: row.Description,
		Count:       count,
		IsDefault:   row.ID == defaultID,
	}
}

func tagFromRow(row store.Tag, count int64) model.Tag {
	return model.Tag{
		ID:          row.ID,
		Title:       row.Title,
		Slug:        row.Slug,
		Description: row.Description,
		Color:       row.Color,
		Count:       count,
	}
}

func blogPostFromRow(row store.Post) model.BlogPost {
	p := model.BlogPost{
		ID:            row.ID,
		UserID:        row.UserID,
		Title:         html.UnescapeString(row.Title),
		Slug:          row.Slug.String,
		Body:          row.Body,
		Excerpt:       row.Excerpt,
		Status:        model.PostStatus(row.Status),
		CommentStatus: row.CommentStatus,
		CreatedOn:     row.CreatedOn.UTC(),
		UpdatedOn:     util.TimePtrFromNull(row.UpdatedOn),
		ViewCount:     row.ViewCount,
		Tags:          []model.Tag{},
	}
	if p.Excerpt == "" {
		p.Excerpt = Excerpt(row.Body, model.ExcerptWords)
	}
	return p
}

func pageFromRow(row store.Post) model.Page {
	return model.Page{
		ID:         row.ID,
		UserID:     row.UserID,
		ParentID:   row.ParentID,
		Title:      html.UnescapeString(row.Title),
		Slug:       row.Slug.String,
		Body:       row.Body,
		Excerpt:    row.Excerpt,
		Status:     model.PostStatus(row.Status),
		PageLayout: row.PageLayout,
		Nav:        row.Nav,
		CreatedOn:  row.CreatedOn.UTC(),
		UpdatedOn:  util.TimePtrFromNull(row.UpdatedOn),
	}
}

func pageRefFromRow(row store.Post) model.PageRef {
	return model.PageRef{
		ID:     row.ID,
		Title:  html.UnescapeString(row.Title),
		Slug:   row.Slug.String,
		Status: model.PostStatus(row.Status),
	}
}

func mediaFromRow(row store.Medium) model.Media {
	return model.Media{
		ID:           row.ID,
		UUID:         row.Uuid,
		AppType:      row.AppType,
		FileName:     row.FileName,
		Title:        row.Title,
		Description:  row.Description,
		Caption:      row.Caption,
		ContentType:  row.ContentType,
		Length:       row.Length,
		Width:        int(row.Width),
		Height:       int(row.Height),
		ResizeCount:  int(row.ResizeCount),
		UploadedOn:   row.UploadedOn.UTC(),
		UserID:       row.UserID,
		UploadedFrom: row.UploadedFrom,
	}
}

// idLookup adapts a store query returning an owner id into a util.SlugLookup.
func idLookup(fn func(ctx context.Context, slug string) (int64, error)) util.SlugLookup {
	return func(ctx context.Context, slug string) (int64, bool, error) {
		id, err := fn(ctx, slug)
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		if err != nil {
			return 0, false, err
		}
		return id, true, nil
	}
}

// invalidateAggregates purges the invalidation set. Failures are logged only:
// the write has already been committed.
func invalidateAggregates(ctx context.Context, c cache.Cache, logger *slog.Logger) {
	if err := cache.InvalidateAggregates(ctx, c); err != nil {
		logger.Warn("failed to invalidate blog cache", "error", err)
	}
}

func invalidateKey(ctx context.Context, c cache.Cache, logger *slog.Logger, key string) {
	if err := c.Delete(ctx, key); err != nil {
		logger.Warn("failed to invalidate cache key", "key", key, "error", err)
	}
}

func invalidatePostDetails(ctx context.Context, c cache.Cache, logger *slog.Logger) {
	if err := cache.InvalidatePostDetails(ctx, c); err != nil {
		logger.Warn("failed to invalidate post cache", "error", err)
	}
}
