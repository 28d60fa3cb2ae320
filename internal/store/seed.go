// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

// Setting keys of the blog configuration.
const (
	SettingDefaultCategoryID = "blog.default_category_id"
	SettingPostPerPage       = "blog.post_per_page"
)

// Seed defaults.
const (
	DefaultCategoryTitle = "Uncategorized"
	DefaultCategorySlug  = "uncategorized"
	DefaultPostPerPage   = 10
)

// Seed creates the default category and blog settings on an empty database.
// It is idempotent.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	_, err := queries.GetSetting(ctx, SettingDefaultCategoryID)
	if err == nil {
		slog.Info("blog settings already exist, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking blog settings: %w", err)
	}

	return InTx(ctx, db, func(q *Queries) error {
		now := time.Now().UTC()

		category, err := q.GetCategoryBySlug(ctx, DefaultCategorySlug)
		if errors.Is(err, sql.ErrNoRows) {
			category, err = q.CreateCategory(ctx, CreateCategoryParams{
				Title:     DefaultCategoryTitle,
				Slug:      DefaultCategorySlug,
				CreatedAt: now,
			})
		}
		if err != nil {
			return fmt.Errorf("creating default category: %w", err)
		}

		if err := q.UpsertSetting(ctx, SettingDefaultCategoryID, strconv.FormatInt(category.ID, 10), now); err != nil {
			return fmt.Errorf("saving default category setting: %w", err)
		}
		if err := q.UpsertSetting(ctx, SettingPostPerPage, strconv.Itoa(DefaultPostPerPage), now); err != nil {
			return fmt.Errorf("saving page size setting: %w", err)
		}

		slog.Info("seeded blog defaults", "default_category_id", category.ID)
		return nil
	})
}
