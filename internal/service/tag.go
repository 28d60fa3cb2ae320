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

// TagService manages blog tags.
type TagService struct {
	queries *store.Queries
	cache   cache.Cache
	bus     *EventBus
	logger  *slog.Logger
}

// NewTagService creates a new TagService.
func NewTagService(db *sql.DB, c cache.Cache, bus *EventBus, logger *slog.Logger) *TagService {
	return &TagService{
		queries: store.New(db),
		cache:   c,
		bus:     bus,
		logger:  logger,
	}
}

// GetAll returns every tag with its published post count, ordered by title.
func (s *TagService) GetAll(ctx context.Context) ([]model.Tag, error) {
	return cache.GetOrPopulate(ctx, s.cache, cache.KeyAllTags, cache.TTLAllTags,
		func(ctx context.Context) ([]model.Tag, error) {
			rows, err := s.queries.ListTagsWithCount(ctx)
			if err != nil {
				return nil, fmt.Errorf("listing tags: %w", err)
			}
			tags := make([]model.Tag, 0, len(rows))
			for _, row := range rows {
				tags = append(tags, tagFromRow(row.Tag, row.PostCount))
			}
			return tags, nil
		})
}

// Get returns the tag with id.
func (s *TagService) Get(ctx context.Context, id int64) (*model.Tag, error) {
	tags, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tags {
		if tags[i].ID == id {
			return &tags[i], nil
		}
	}
	return nil, notFoundError("Tag with id %d is not found.", id)
}

// GetBySlug returns the tag whose slug matches case-insensitively.
func (s *TagService) GetBySlug(ctx context.Context, slug string) (*model.Tag, error) {
	if slug == "" {
		return nil, notFoundError("Tag does not exist.")
	}
	tags, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tags {
		if strings.EqualFold(tags[i].Slug, slug) {
			return &tags[i], nil
		}
	}
	return nil, notFoundError("Tag '%s' does not exist.", slug)
}

// GetByTitle returns the tag whose title matches case-insensitively.
func (s *TagService) GetByTitle(ctx context.Context, title string) (*model.Tag, error) {
	if title == "" {
		return nil, notFoundError("Tag does not exist.")
	}
	tags, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tags {
		if strings.EqualFold(tags[i].Title, title) {
			return &tags[i], nil
		}
	}
	return nil, notFoundError("Tag with title '%s' does not exist.", title)
}

// Create adds a tag. Titles follow the same rules as category titles.
func (s *TagService) Create(ctx context.Context, in model.Tag) (*model.Tag, error) {
	title := prepareTaxonomyTitle(in.Title)
	if title == "" {
		return nil, validationError("Invalid tag to create.", map[string]string{"title": "required"})
	}

	tags, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkTaxonomyTitle(title, 0, tagTitles(tags)); err != nil {
		return nil, err
	}

	slug, err := util.ResolveUniqueSlug(ctx, util.Slugify(title, util.TaxonomySlugMaxLen), util.TaxonomySlugMaxLen, 0, util.SlugSetLookup(tagSlugs(tags)))
	if err != nil {
		return nil, translateStoreError(err, "tag")
	}

	row, err := s.queries.CreateTag(ctx, store.CreateTagParams{
		Title:       title,
		Slug:        slug,
		Description: CleanHTML(in.Description),
		Color:       CleanHTML(in.Color),
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			return nil, duplicateError(fmt.Sprintf("'%s' already exists.", title), err)
		}
		return nil, fmt.Errorf("creating tag: %w", err)
	}

	invalidateAggregates(ctx, s.cache, s.logger)

	s.logger.Debug("created tag", "id", row.ID, "slug", row.Slug)
	tag := tagFromRow(row, 0)
	return &tag, nil
}

// Update changes a tag's title, description and color.
func (s *TagService) Update(ctx context.Context, in model.Tag) (*model.Tag, error) {
	if in.ID <= 0 {
		return nil, validationError("Invalid tag to update.", nil)
	}
	title := prepareTaxonomyTitle(in.Title)
	if title == "" {
		return nil, validationError("Invalid tag to update.", map[string]string{"title": "required"})
	}

	if _, err := s.queries.GetTagByID(ctx, in.ID); err != nil {
		return nil, translateStoreError(err, "Tag")
	}

	tags, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkTaxonomyTitle(title, in.ID, tagTitles(tags)); err != nil {
		return nil, err
	}

	slug, err := util.ResolveUniqueSlug(ctx, util.Slugify(title, util.TaxonomySlugMaxLen), util.TaxonomySlugMaxLen, in.ID, util.SlugSetLookup(tagSlugs(tags)))
	if err != nil {
		return nil, translateStoreError(err, "tag")
	}

	row, err := s.queries.UpdateTag(ctx, store.UpdateTagParams{
		Title:       title,
		Slug:        slug,
		Description: CleanHTML(in.Description),
		Color:       CleanHTML(in.Color),
		ID:          in.ID,
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			return nil, duplicateError(fmt.Sprintf("'%s' already exists.", title), err)
		}
		return nil, fmt.Errorf("updating tag: %w", err)
	}

	invalidateAggregates(ctx, s.cache, s.logger)
	invalidatePostDetails(ctx, s.cache, s.logger)

	s.logger.Debug("updated tag", "id", row.ID, "slug", row.Slug)
	return s.Get(ctx, row.ID)
}

// Delete removes a tag; its post associations are removed by cascade.
func (s *TagService) Delete(ctx context.Context, id int64) error {
	if _, err := s.queries.GetTagByID(ctx, id); err != nil {
		return translateStoreError(err, "Tag")
	}
	if err := s.queries.DeleteTag(ctx, id); err != nil {
		return fmt.Errorf("deleting tag: %w", err)
	}

	invalidateAggregates(ctx, s.cache, s.logger)
	invalidatePostDetails(ctx, s.cache, s.logger)

	_ = s.bus.Publish(ctx, Event{Kind: TagDeleted, ID: id})

	s.logger.Debug("deleted tag", "id", id)
	return nil
}

// RegisterHandlers subscribes the service to post events so that tags
// named on a post exist before the post is saved.
func (s *TagService) RegisterHandlers(bus *EventBus) {
	bus.Register(BlogPostBeforeCreate, "tag.ensure", func(ctx context.Context, ev Event) error {
		return s.ensureTags(ctx, ev.TagTitles, nil)
	})
	bus.Register(BlogPostBeforeUpdate, "tag.ensure", func(ctx context.Context, ev Event) error {
		return s.ensureTags(ctx, ev.TagTitles, ev.CurrentTags)
	})
}

// ensureTags creates the tags in titles that do not exist yet. Titles of
// tags already attached to the post are skipped without a lookup.
func (s *TagService) ensureTags(ctx context.Context, titles []string, attached []model.Tag) error {
	for _, title := range distinctTitles(titles) {
		if containsTagTitle(attached, title) {
			continue
		}
		tags, err := s.GetAll(ctx)
		if err != nil {
			return err
		}
		if containsTagTitle(tags, title) {
			continue
		}
		if _, err := s.Create(ctx, model.Tag{Title: title}); err != nil {
			return err
		}
	}
	return nil
}

// distinctTitles prepares titles and drops blanks and case-insensitive repeats.
func distinctTitles(titles []string) []string {
	seen := make(map[string]bool, len(titles))
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		t = prepareTaxonomyTitle(t)
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}

func containsTagTitle(tags []model.Tag, title string) bool {
	for _, t := range tags {
		if strings.EqualFold(t.Title, title) {
			return true
		}
	}
	return false
}

func tagTitles(tags []model.Tag) map[int64]string {
	m := make(map[int64]string, len(tags))
	for _, t := range tags {
		m[t.ID] = t.Title
	}
	return m
}

func tagSlugs(tags []model.Tag) map[string]int64 {
	m := make(map[string]int64, len(tags))
	for _, t := range tags {
		m[t.Slug] = t.ID
	}
	return m
}
