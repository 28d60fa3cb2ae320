// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/olegiv/oblog/internal/cache"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/store"
)

// Limits for the number of posts on a list page.
const (
	MinPostPerPage = 1
	MaxPostPerPage = 100
)

// SettingService reads and writes blog settings through the cache.
type SettingService struct {
	db      *sql.DB
	queries *store.Queries
	cache   cache.Cache
	blog    *cache.TypedCache[model.BlogSettings]
	logger  *slog.Logger
}

// NewSettingService creates a new SettingService.
func NewSettingService(db *sql.DB, c cache.Cache, logger *slog.Logger) *SettingService {
	return &SettingService{
		db:      db,
		queries: store.New(db),
		cache:   c,
		blog:    cache.NewTypedCache[model.BlogSettings](c, cache.TTLBlogSettings),
		logger:  logger,
	}
}

// GetBlogSettings returns the blog settings, falling back to defaults for
// missing or malformed values.
func (s *SettingService) GetBlogSettings(ctx context.Context) (model.BlogSettings, error) {
	return s.blog.GetOrSet(ctx, cache.KeyBlogSettings, s.loadBlogSettings)
}

func (s *SettingService) loadBlogSettings(ctx context.Context) (model.BlogSettings, error) {
	rows, err := s.queries.ListSettings(ctx)
	if err != nil {
		return model.BlogSettings{}, fmt.Errorf("loading settings: %w", err)
	}

	settings := model.BlogSettings{PostPerPage: store.DefaultPostPerPage}
	for _, row := range rows {
		switch row.Key {
		case store.SettingDefaultCategoryID:
			if id, err := strconv.ParseInt(row.Value, 10, 64); err == nil {
				settings.DefaultCategoryID = id
			}
		case store.SettingPostPerPage:
			if n, err := strconv.Atoi(row.Value); err == nil && n >= MinPostPerPage {
				settings.PostPerPage = n
			}
		}
	}
	return settings, nil
}

// UpsertBlogSettings validates and saves settings. Zero fields are left unchanged.
func (s *SettingService) UpsertBlogSettings(ctx context.Context, in model.BlogSettings) (model.BlogSettings, error) {
	details := map[string]string{}
	if in.PostPerPage != 0 && (in.PostPerPage < MinPostPerPage || in.PostPerPage > MaxPostPerPage) {
		details["post_per_page"] = fmt.Sprintf("must be between %d and %d", MinPostPerPage, MaxPostPerPage)
	}
	if in.DefaultCategoryID < 0 {
		details["default_category_id"] = "must be a category id"
	}
	if len(details) > 0 {
		return model.BlogSettings{}, validationError("Invalid blog settings.", details)
	}

	if in.DefaultCategoryID > 0 {
		if _, err := s.queries.GetCategoryByID(ctx, in.DefaultCategoryID); err != nil {
			return model.BlogSettings{}, translateStoreError(err, "Category")
		}
	}

	err := store.InTx(ctx, s.db, func(q *store.Queries) error {
		now := time.Now().UTC()
		if in.DefaultCategoryID > 0 {
			if err := q.UpsertSetting(ctx, store.SettingDefaultCategoryID, strconv.FormatInt(in.DefaultCategoryID, 10), now); err != nil {
				return err
			}
		}
		if in.PostPerPage > 0 {
			if err := q.UpsertSetting(ctx, store.SettingPostPerPage, strconv.Itoa(in.PostPerPage), now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return model.BlogSettings{}, fmt.Errorf("saving blog settings: %w", err)
	}

	// The first page of posts is cached at the configured size, and every
	// cached post embeds its category's default flag.
	invalidateAggregates(ctx, s.cache, s.logger)
	invalidatePostDetails(ctx, s.cache, s.logger)

	settings, err := s.loadBlogSettings(ctx)
	if err != nil {
		if derr := s.blog.Delete(ctx, cache.KeyBlogSettings); derr != nil {
			s.logger.Warn("failed to invalidate settings cache", "error", derr)
		}
		return model.BlogSettings{}, err
	}
	if err := s.blog.Set(ctx, cache.KeyBlogSettings, &settings); err != nil {
		s.logger.Warn("failed to cache settings", "error", err)
		if derr := s.blog.Delete(ctx, cache.KeyBlogSettings); derr != nil {
			s.logger.Warn("failed to invalidate settings cache", "error", derr)
		}
	}

	s.logger.Debug("updated blog settings", "default_category_id", settings.DefaultCategoryID, "post_per_page", settings.PostPerPage)
	return settings, nil
}
