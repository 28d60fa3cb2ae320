// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/oblog/internal/cache"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/util"
)

// CategoryService manages blog categories.
type CategoryService struct {
	db       *sql.DB
	queries  *store.Queries
	cache    cache.Cache
	settings *SettingService
	bus      *EventBus
	logger   *slog.Logger
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(db *sql.DB, c cache.Cache, settings *SettingService, bus *EventBus, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		db:       db,
		queries:  store.New(db),
		cache:    c,
		settings: settings,
		bus:      bus,
		logger:   logger,
	}
}

// GetAll returns every category with its published post count, ordered by title.
func (s *CategoryService) GetAll(ctx context.Context) ([]model.Category, error) {
	return cache.GetOrPopulate(ctx, s.cache, cache.KeyAllCategories, cache.TTLAllCategories,
		func(ctx context.Context) ([]model.Category, error) {
			settings, err := s.settings.GetBlogSettings(ctx)
			if err != nil {
				return nil, err
			}
			rows, err := s.queries.ListCategoriesWithCount(ctx)
			if err != nil {
				return nil, fmt.Errorf("listing categories: %w", err)
			}
			cats := make([]model.Category, 0, len(rows))
			for _, row := range rows {
				cats = append(cats, categoryFromRow(row.Category, row.PostCount, settings.DefaultCategoryID))
			}
			return cats, nil
		})
}

// Get returns the category with id.
func (s *CategoryService) Get(ctx context.Context, id int64) (*model.Category, error) {
	cats, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range cats {
		if cats[i].ID == id {
			return &cats[i], nil
		}
	}
	return nil, notFoundError("Category with id %d is not found.", id)
}

// GetBySlug returns the category whose slug matches case-insensitively.
func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	if slug == "" {
		return nil, notFoundError("Category does not exist.")
	}
	cats, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range cats {
		if strings.EqualFold(cats[i].Slug, slug) {
			return &cats[i], nil
		}
	}
	return nil, notFoundError("Category '%s' does not exist.", slug)
}

// GetByTitle returns the category whose title matches case-insensitively.
func (s *CategoryService) GetByTitle(ctx context.Context, title string) (*model.Category, error) {
	cats, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range cats {
		if strings.EqualFold(cats[i].Title, title) {
			return &cats[i], nil
		}
	}
	return nil, notFoundError("Category '%s' does not exist.", title)
}

// Create adds a category. Titles are stripped of markup, cut to
// model.TaxonomyTitleMaxLen and must be unique ignoring case.
func (s *CategoryService) Create(ctx context.Context, title, description string) (*model.Category, error) {
	if strings.TrimSpace(title) == "" {
		return nil, validationError("Category title cannot be empty.", map[string]string{"title": "required"})
	}
	title = prepareTaxonomyTitle(title)
	if title == "" {
		return nil, validationError("Category title cannot be empty.", map[string]string{"title": "required"})
	}

	cats, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkTaxonomyTitle(title, 0, categoryTitles(cats)); err != nil {
		return nil, err
	}

	slug, err := util.ResolveUniqueSlug(ctx, util.Slugify(title, util.TaxonomySlugMaxLen), util.TaxonomySlugMaxLen, 0, util.SlugSetLookup(categorySlugs(cats)))
	if err != nil {
		return nil, translateStoreError(err, "category")
	}

	row, err := s.queries.CreateCategory(ctx, store.CreateCategoryParams{
		Title:       title,
		Slug:        slug,
		Description: CleanHTML(description),
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			return nil, duplicateError(fmt.Sprintf("'%s' already exists.", title), err)
		}
		return nil, fmt.Errorf("creating category: %w", err)
	}

	invalidateAggregates(ctx, s.cache, s.logger)

	s.logger.Debug("created category", "id", row.ID, "slug", row.Slug)
	cat := categoryFromRow(row, 0, 0)
	return &cat, nil
}

// Update changes the title and description of a category. The slug is
// regenerated from the title, excluding the category's own slug from the
// collision check.
func (s *CategoryService) Update(ctx context.Context, in model.Category) (*model.Category, error) {
	if in.ID <= 0 || strings.TrimSpace(in.Title) == "" {
		return nil, validationError("Invalid category to update.", nil)
	}
	title := prepareTaxonomyTitle(in.Title)
	if title == "" {
		return nil, validationError("Invalid category to update.", nil)
	}

	if _, err := s.queries.GetCategoryByID(ctx, in.ID); err != nil {
		return nil, translateStoreError(err, "Category")
	}

	cats, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkTaxonomyTitle(title, in.ID, categoryTitles(cats)); err != nil {
		return nil, err
	}

	slug, err := util.ResolveUniqueSlug(ctx, util.Slugify(title, util.TaxonomySlugMaxLen), util.TaxonomySlugMaxLen, in.ID, util.SlugSetLookup(categorySlugs(cats)))
	if err != nil {
		return nil, translateStoreError(err, "category")
	}

	row, err := s.queries.UpdateCategory(ctx, store.UpdateCategoryParams{
		Title:       title,
		Slug:        slug,
		Description: CleanHTML(in.Description),
		ID:          in.ID,
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			return nil, duplicateError(fmt.Sprintf("'%s' already exists.", title), err)
		}
		return nil, fmt.Errorf("updating category: %w", err)
	}

	invalidateAggregates(ctx, s.cache, s.logger)
	invalidatePostDetails(ctx, s.cache, s.logger)

	s.logger.Debug("updated category", "id", row.ID, "slug", row.Slug)
	return s.Get(ctx, row.ID)
}

// Delete removes a category and moves its posts to the default category.
// The default category itself cannot be deleted.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	settings, err := s.settings.GetBlogSettings(ctx)
	if err != nil {
		return err
	}
	if id == settings.DefaultCategoryID {
		return conflictError("Default category cannot be deleted.")
	}

	if _, err := s.queries.GetCategoryByID(ctx, id); err != nil {
		return translateStoreError(err, "Category")
	}

	var moved int64
	err = store.InTx(ctx, s.db, func(q *store.Queries) error {
		if settings.DefaultCategoryID > 0 {
			n, err := q.ReassignPostsCategory(ctx, settings.DefaultCategoryID, id)
			if err != nil {
				return fmt.Errorf("reassigning posts: %w", err)
			}
			moved = n
		}
		return q.DeleteCategory(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	invalidateAggregates(ctx, s.cache, s.logger)
	invalidatePostDetails(ctx, s.cache, s.logger)

	_ = s.bus.Publish(ctx, Event{Kind: CategoryDeleted, ID: id})

	s.logger.Debug("deleted category", "id", id, "posts_moved", moved)
	return nil
}

// SetDefault makes id the default category.
func (s *CategoryService) SetDefault(ctx context.Context, id int64) error {
	_, err := s.settings.UpsertBlogSettings(ctx, model.BlogSettings{DefaultCategoryID: id})
	return err
}

// RegisterHandlers subscribes the service to post events so that a
// category named on a post is created before the post is saved.
func (s *CategoryService) RegisterHandlers(bus *EventBus) {
	ensure := func(ctx context.Context, ev Event) error {
		return s.ensureCategory(ctx, ev.CategoryTitle)
	}
	bus.Register(BlogPostBeforeCreate, "category.ensure", ensure)
	bus.Register(BlogPostBeforeUpdate, "category.ensure", ensure)
}

func (s *CategoryService) ensureCategory(ctx context.Context, title string) error {
	if strings.TrimSpace(title) == "" {
		return nil
	}
	_, err := s.GetByTitle(ctx, prepareTaxonomyTitle(title))
	if err == nil {
		return nil
	}
	if KindOf(err) != KindNotFound {
		return err
	}
	_, err = s.Create(ctx, title, "")
	return err
}

func prepareTaxonomyTitle(title string) string {
	return strings.TrimSpace(truncateRunes(CleanHTML(title), model.TaxonomyTitleMaxLen))
}

// checkTaxonomyTitle fails when another entity (by id) already uses title, ignoring case.
func checkTaxonomyTitle(title string, selfID int64, titles map[int64]string) error {
	for id, existing := range titles {
		if id != selfID && strings.EqualFold(existing, title) {
			return duplicateError(fmt.Sprintf("'%s' already exists.", title), nil)
		}
	}
	return nil
}

func categoryTitles(cats []model.Category) map[int64]string {
	m := make(map[int64]string, len(cats))
	for _, c := range cats {
		m[c.ID] = c.Title
	}
	return m
}

func categorySlugs(cats []model.Category) map[string]int64 {
	m := make(map[string]int64, len(cats))
	for _, c := range cats {
		m[c.Slug] = c.ID
	}
	return m
}
