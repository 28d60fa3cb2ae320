// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/olegiv/oblog/internal/cache"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/util"
)

// Post list limits.
const (
	// MaxRecentPosts is how many recent posts are cached; requests for more are capped.
	MaxRecentPosts = 20
	// DetailCacheWindow limits single-post caching to recently created posts.
	DetailCacheWindow = 100 * 24 * time.Hour
	// MaxDraftsPerPage bounds the drafts list.
	MaxDraftsPerPage = 100
)

const dayLayout = "2006-01-02"

// ResponsiveImageProcessor rewrites <img> tags in rendered bodies.
type ResponsiveImageProcessor interface {
	ProcessResponsiveImages(ctx context.Context, body string) string
}

// BlogPostInput carries the editable fields of a blog post.
type BlogPostInput struct {
	UserID        int64            `json:"user_id"`
	Title         string           `json:"title"`
	Slug          string           `json:"slug"`
	Body          string           `json:"body"`
	Excerpt       string           `json:"excerpt"`
	Status        model.PostStatus `json:"status"`
	CommentStatus string           `json:"comment_status"`
	// CategoryTitle wins over CategoryID; a missing category is created.
	// With neither set the default category is used.
	CategoryID    int64      `json:"category_id"`
	CategoryTitle string     `json:"category_title"`
	TagTitles     []string   `json:"tag_titles"`
	CreatedOn     *time.Time `json:"created_on"`
}

// BlogPostService manages blog posts.
type BlogPostService struct {
	db         *sql.DB
	queries    *store.Queries
	cache      cache.Cache
	settings   *SettingService
	categories *CategoryService
	tags       *TagService
	images     ResponsiveImageProcessor
	bus        *EventBus
	logger     *slog.Logger
	now        func() time.Time
}

// NewBlogPostService creates a new BlogPostService. images may be nil.
func NewBlogPostService(db *sql.DB, c cache.Cache, settings *SettingService, categories *CategoryService,
	tags *TagService, images ResponsiveImageProcessor, bus *EventBus, logger *slog.Logger) *BlogPostService {
	return &BlogPostService{
		db:         db,
		queries:    store.New(db),
		cache:      c,
		settings:   settings,
		categories: categories,
		tags:       tags,
		images:     images,
		bus:        bus,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// ValidatePostTitle checks the title rules shared by posts and pages: a
// title is required unless the entity is a draft, and is never longer than
// model.PostTitleMaxLen characters.
func ValidatePostTitle(title string, status model.PostStatus) error {
	if n := utf8.RuneCountInString(title); n > model.PostTitleMaxLen {
		msg := fmt.Sprintf("The length of 'Title' must be %d characters or fewer. You entered %d characters.", model.PostTitleMaxLen, n)
		return validationError(msg, map[string]string{"title": msg})
	}
	if status != model.StatusDraft && strings.TrimSpace(title) == "" {
		msg := "'Title' must not be empty."
		return validationError(msg, map[string]string{"title": msg})
	}
	return nil
}

func (in *BlogPostInput) normalize() error {
	if in.Status == "" {
		in.Status = model.StatusDraft
	}
	if !in.Status.Valid() {
		return validationError("Invalid post status.", map[string]string{"status": "must be draft or published"})
	}
	if in.CommentStatus == "" {
		in.CommentStatus = model.CommentsOpen
	}
	if in.CommentStatus != model.CommentsOpen && in.CommentStatus != model.CommentsClosed {
		return validationError("Invalid comment status.", map[string]string{"comment_status": "must be open or closed"})
	}
	in.Title = CleanHTML(in.Title)
	return ValidatePostTitle(in.Title, in.Status)
}

// Create validates and stores a new blog post and returns it as stored.
func (s *BlogPostService) Create(ctx context.Context, in BlogPostInput) (*model.BlogPost, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	createdOn := s.now()
	if in.CreatedOn != nil && !in.CreatedOn.IsZero() {
		createdOn = in.CreatedOn.UTC()
	}

	slug, err := s.resolveSlug(ctx, in, createdOn, 0)
	if err != nil {
		return nil, err
	}

	if err := s.bus.Publish(ctx, Event{
		Kind:          BlogPostBeforeCreate,
		CategoryTitle: in.CategoryTitle,
		TagTitles:     in.TagTitles,
		UserID:        in.UserID,
	}); err != nil {
		return nil, err
	}

	categoryID, tagIDs, err := s.resolveTaxonomy(ctx, in)
	if err != nil {
		return nil, err
	}

	var id int64
	err = store.InTx(ctx, s.db, func(q *store.Queries) error {
		row, err := q.CreatePost(ctx, store.CreatePostParams{
			Type:          store.PostTypeBlogPost,
			UserID:        in.UserID,
			CategoryID:    util.NullInt64FromPositive(categoryID),
			Title:         in.Title,
			Slug:          util.NullStringFromValue(slug),
			Body:          SanitizeBody(in.Body),
			Excerpt:       CleanHTML(in.Excerpt),
			Status:        string(in.Status),
			CommentStatus: in.CommentStatus,
			PageLayout:    model.PageLayoutDefault,
			CreatedOn:     createdOn,
			CreatedDay:    createdOn.Format(dayLayout),
		})
		if err != nil {
			return err
		}
		id = row.ID
		return attachTags(ctx, q, id, tagIDs)
	})
	if err != nil {
		return nil, translateStoreError(err, "blog post")
	}

	invalidateAggregates(ctx, s.cache, s.logger)

	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = s.bus.Publish(ctx, Event{Kind: BlogPostCreated, ID: id, Post: post, UserID: in.UserID})

	s.logger.Debug("created blog post", "id", id, "slug", slug, "status", in.Status)
	return post, nil
}

// Update replaces the editable fields of post id. The slug is re-resolved
// only when the title, the requested slug or the creation day changed.
func (s *BlogPostService) Update(ctx context.Context, id int64, in BlogPostInput) (*model.BlogPost, error) {
	if id <= 0 {
		return nil, validationError("Invalid blog post to update.", nil)
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}

	existing, err := s.queries.GetBlogPostByID(ctx, id)
	if err != nil {
		return nil, translateStoreError(err, "Blog post")
	}

	createdOn := existing.CreatedOn.UTC()
	if in.CreatedOn != nil && !in.CreatedOn.IsZero() && in.CreatedOn.UTC().Format(dayLayout) != existing.CreatedDay {
		createdOn = in.CreatedOn.UTC()
	}

	var slug string
	switch {
	case in.Status == model.StatusDraft && strings.TrimSpace(in.Title) == "":
		slug = ""
	case existing.Slug.Valid && html.UnescapeString(existing.Title) == in.Title &&
		(in.Slug == "" || in.Slug == existing.Slug.String) &&
		createdOn.Format(dayLayout) == existing.CreatedDay:
		slug = existing.Slug.String
	default:
		slug, err = s.resolveSlug(ctx, in, createdOn, id)
		if err != nil {
			return nil, err
		}
	}

	currentTags, err := s.queries.ListTagsForPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading post tags: %w", err)
	}
	attached := make([]model.Tag, 0, len(currentTags))
	for _, t := range currentTags {
		attached = append(attached, tagFromRow(t, 0))
	}

	if err := s.bus.Publish(ctx, Event{
		Kind:          BlogPostBeforeUpdate,
		ID:            id,
		CategoryTitle: in.CategoryTitle,
		TagTitles:     in.TagTitles,
		CurrentTags:   attached,
		UserID:        in.UserID,
	}); err != nil {
		return nil, err
	}

	categoryID, tagIDs, err := s.resolveTaxonomy(ctx, in)
	if err != nil {
		return nil, err
	}

	updatedOn := s.now()
	err = store.InTx(ctx, s.db, func(q *store.Queries) error {
		_, err := q.UpdatePost(ctx, store.UpdatePostParams{
			CategoryID:    util.NullInt64FromPositive(categoryID),
			Title:         in.Title,
			Slug:          util.NullStringFromValue(slug),
			Body:          SanitizeBody(in.Body),
			Excerpt:       CleanHTML(in.Excerpt),
			Status:        string(in.Status),
			CommentStatus: in.CommentStatus,
			PageLayout:    existing.PageLayout,
			CreatedOn:     createdOn,
			CreatedDay:    createdOn.Format(dayLayout),
			UpdatedOn:     util.NullTimeFromPtr(&updatedOn),
			ID:            id,
		})
		if err != nil {
			return err
		}
		if err := q.DeletePostTags(ctx, id); err != nil {
			return err
		}
		return attachTags(ctx, q, id, tagIDs)
	})
	if err != nil {
		return nil, translateStoreError(err, "blog post")
	}

	invalidateAggregates(ctx, s.cache, s.logger)
	if existing.Slug.Valid {
		invalidateKey(ctx, s.cache, s.logger, cache.PostKey(existing.Slug.String, existing.CreatedOn.UTC()))
	}

	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = s.bus.Publish(ctx, Event{Kind: BlogPostUpdated, ID: id, Post: post, UserID: in.UserID})

	s.logger.Debug("updated blog post", "id", id, "slug", slug, "status", in.Status)
	return post, nil
}

// Delete removes post id and its tag associations.
func (s *BlogPostService) Delete(ctx context.Context, id int64) error {
	existing, err := s.queries.GetBlogPostByID(ctx, id)
	if err != nil {
		return translateStoreError(err, "Blog post")
	}

	err = store.InTx(ctx, s.db, func(q *store.Queries) error {
		if err := q.DeletePostTags(ctx, id); err != nil {
			return err
		}
		return q.DeletePost(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("deleting blog post: %w", err)
	}

	invalidateAggregates(ctx, s.cache, s.logger)
	if existing.Slug.Valid {
		invalidateKey(ctx, s.cache, s.logger, cache.PostKey(existing.Slug.String, existing.CreatedOn.UTC()))
	}

	_ = s.bus.Publish(ctx, Event{Kind: BlogPostDeleted, ID: id, UserID: existing.UserID})

	s.logger.Debug("deleted blog post", "id", id)
	return nil
}

// Get returns post id with its category and tags, drafts included.
func (s *BlogPostService) Get(ctx context.Context, id int64) (*model.BlogPost, error) {
	row, err := s.queries.GetBlogPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundError("Blog post with id %d is not found.", id)
		}
		return nil, err
	}
	post, err := s.hydrate(ctx, row)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetBySlug returns the published post at /post/year/month/day/slug. Posts
// created within DetailCacheWindow are served through the cache.
func (s *BlogPostService) GetBySlug(ctx context.Context, slug string, year, month, day int) (*model.BlogPost, error) {
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if slug == "" || date.Year() != year || int(date.Month()) != month || date.Day() != day {
		return nil, notFoundError("Blog post not found.")
	}

	load := func(ctx context.Context) (model.BlogPost, error) {
		row, err := s.queries.GetBlogPostBySlug(ctx, slug, date.Format(dayLayout))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return model.BlogPost{}, notFoundError("Blog post not found.")
			}
			return model.BlogPost{}, err
		}
		return s.hydrate(ctx, row)
	}

	var post model.BlogPost
	var err error
	if s.now().Sub(date) <= DetailCacheWindow {
		post, err = cache.GetOrPopulate(ctx, s.cache, cache.PostKey(slug, date), cache.TTLSinglePost, load)
	} else {
		post, err = load(ctx)
	}
	if err != nil {
		return nil, err
	}
	if !post.IsPublished() {
		return nil, notFoundError("Blog post not found.")
	}

	s.preRender(ctx, &post)
	return &post, nil
}

// GetList returns a page of published posts, newest first. The first page
// at the configured page size is cached.
func (s *BlogPostService) GetList(ctx context.Context, pageIndex, pageSize int) (*model.PostList, error) {
	settings, err := s.settings.GetBlogSettings(ctx)
	if err != nil {
		return nil, err
	}
	pageIndex, pageSize = normalizePaging(pageIndex, pageSize, settings.PostPerPage)

	query := func(ctx context.Context) (model.PostList, error) {
		return s.queryList(ctx, pageIndex, pageSize,
			func(limit, offset int64) ([]store.Post, error) {
				return s.queries.ListPublishedBlogPosts(ctx, limit, offset)
			},
			func() (int64, error) { return s.queries.CountPublishedBlogPosts(ctx) })
	}

	var list model.PostList
	if pageIndex == 1 && pageSize == settings.PostPerPage {
		list, err = cache.GetOrPopulate(ctx, s.cache, cache.KeyPostsIndex, cache.TTLPostsIndex, query)
	} else {
		list, err = query(ctx)
	}
	if err != nil {
		return nil, err
	}
	s.preRenderList(ctx, &list)
	return &list, nil
}

// GetListForCategory returns a page of published posts in the category with slug.
func (s *BlogPostService) GetListForCategory(ctx context.Context, categorySlug string, pageIndex int) (*model.PostList, error) {
	cat, err := s.categories.GetBySlug(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	return s.listPublished(ctx, pageIndex,
		func(limit, offset int64) ([]store.Post, error) {
			return s.queries.ListPublishedBlogPostsByCategory(ctx, cat.ID, limit, offset)
		},
		func() (int64, error) { return s.queries.CountPublishedBlogPostsByCategory(ctx, cat.ID) })
}

// GetListForTag returns a page of published posts carrying the tag with slug.
func (s *BlogPostService) GetListForTag(ctx context.Context, tagSlug string, pageIndex int) (*model.PostList, error) {
	tag, err := s.tags.GetBySlug(ctx, tagSlug)
	if err != nil {
		return nil, err
	}
	return s.listPublished(ctx, pageIndex,
		func(limit, offset int64) ([]store.Post, error) {
			return s.queries.ListPublishedBlogPostsByTag(ctx, tag.ID, limit, offset)
		},
		func() (int64, error) { return s.queries.CountPublishedBlogPostsByTag(ctx, tag.ID) })
}

// GetListForArchive returns published posts of a year, or of one month when month is 1..12.
func (s *BlogPostService) GetListForArchive(ctx context.Context, year, month, pageIndex int) (*model.PostList, error) {
	if year <= 0 {
		return nil, validationError("Year must be provided.", map[string]string{"year": "required"})
	}
	if month < 0 || month > 12 {
		return nil, validationError("Month must be between 1 and 12.", map[string]string{"month": "out of range"})
	}
	prefix := fmt.Sprintf("%04d", year)
	if month > 0 {
		prefix = fmt.Sprintf("%04d-%02d", year, month)
	}
	return s.listPublished(ctx, pageIndex,
		func(limit, offset int64) ([]store.Post, error) {
			return s.queries.ListPublishedBlogPostsByDayPrefix(ctx, prefix, limit, offset)
		},
		func() (int64, error) { return s.queries.CountPublishedBlogPostsByDayPrefix(ctx, prefix) })
}

// GetListForDrafts returns a page of drafts, newest first.
func (s *BlogPostService) GetListForDrafts(ctx context.Context, pageIndex, pageSize int) (*model.PostList, error) {
	pageIndex, pageSize = normalizePaging(pageIndex, pageSize, MaxDraftsPerPage)
	list, err := s.queryList(ctx, pageIndex, pageSize,
		func(limit, offset int64) ([]store.Post, error) {
			return s.queries.ListDraftBlogPosts(ctx, limit, offset)
		},
		func() (int64, error) { return s.queries.CountDraftBlogPosts(ctx) })
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// GetRecentPublished returns up to n of the newest published posts.
func (s *BlogPostService) GetRecentPublished(ctx context.Context, n int) ([]model.BlogPost, error) {
	n = max(1, min(n, MaxRecentPosts))
	posts, err := cache.GetOrPopulate(ctx, s.cache, cache.KeyPostsRecent, cache.TTLPostsRecent,
		func(ctx context.Context) ([]model.BlogPost, error) {
			rows, err := s.queries.ListPublishedBlogPosts(ctx, MaxRecentPosts, 0)
			if err != nil {
				return nil, fmt.Errorf("listing recent posts: %w", err)
			}
			return s.hydrateAll(ctx, rows)
		})
	if err != nil {
		return nil, err
	}
	if len(posts) > n {
		posts = posts[:n]
	}
	return posts, nil
}

// GetArchives returns the number of published posts per month, newest first.
func (s *BlogPostService) GetArchives(ctx context.Context) ([]model.ArchiveItem, error) {
	return cache.GetOrPopulate(ctx, s.cache, cache.KeyAllArchives, cache.TTLAllArchives,
		func(ctx context.Context) ([]model.ArchiveItem, error) {
			rows, err := s.queries.ListArchiveMonths(ctx)
			if err != nil {
				return nil, fmt.Errorf("listing archives: %w", err)
			}
			items := make([]model.ArchiveItem, 0, len(rows))
			for _, row := range rows {
				year, month, ok := parseArchiveMonth(row.Month)
				if !ok {
					continue
				}
				items = append(items, model.ArchiveItem{Year: year, Month: month, Count: row.PostCount})
			}
			return items, nil
		})
}

// CountPublished returns the number of published posts.
func (s *BlogPostService) CountPublished(ctx context.Context) (int64, error) {
	return cache.GetOrPopulate(ctx, s.cache, cache.KeyPostCount, cache.TTLPostCount,
		func(ctx context.Context) (int64, error) {
			return s.queries.CountPublishedBlogPosts(ctx)
		})
}

// RemoveBlogCache purges every cached aggregate.
func (s *BlogPostService) RemoveBlogCache(ctx context.Context) error {
	return cache.InvalidateAggregates(ctx, s.cache)
}

// resolveSlug returns a slug free on the post's creation day, or "" for an
// untitled draft.
func (s *BlogPostService) resolveSlug(ctx context.Context, in BlogPostInput, createdOn time.Time, selfID int64) (string, error) {
	if in.Status == model.StatusDraft && strings.TrimSpace(in.Title) == "" {
		return "", nil
	}
	source := in.Slug
	if strings.TrimSpace(source) == "" {
		source = in.Title
	}

	day := createdOn.Format(dayLayout)
	lookup := idLookup(func(ctx context.Context, slug string) (int64, error) {
		return s.queries.GetBlogPostIDBySlug(ctx, slug, day)
	})
	slug, err := util.ResolveUniqueSlug(ctx, util.Slugify(source, util.PostSlugMaxLen), util.PostSlugMaxLen, selfID, lookup)
	if err != nil {
		return "", translateStoreError(err, "blog post")
	}
	return slug, nil
}

// resolveTaxonomy maps the input's category and tag titles to ids. The
// before-save event has already created any missing entries.
func (s *BlogPostService) resolveTaxonomy(ctx context.Context, in BlogPostInput) (int64, []int64, error) {
	var categoryID int64
	switch {
	case strings.TrimSpace(in.CategoryTitle) != "":
		cat, err := s.categories.GetByTitle(ctx, prepareTaxonomyTitle(in.CategoryTitle))
		if err != nil {
			return 0, nil, err
		}
		categoryID = cat.ID
	case in.CategoryID > 0:
		if _, err := s.categories.Get(ctx, in.CategoryID); err != nil {
			return 0, nil, validationError(fmt.Sprintf("Category with id %d is not found.", in.CategoryID),
				map[string]string{"category_id": "not found"})
		}
		categoryID = in.CategoryID
	default:
		settings, err := s.settings.GetBlogSettings(ctx)
		if err != nil {
			return 0, nil, err
		}
		categoryID = settings.DefaultCategoryID
	}

	titles := distinctTitles(in.TagTitles)
	tagIDs := make([]int64, 0, len(titles))
	for _, title := range titles {
		tag, err := s.tags.GetByTitle(ctx, title)
		if err != nil {
			return 0, nil, err
		}
		tagIDs = append(tagIDs, tag.ID)
	}
	return categoryID, tagIDs, nil
}

func attachTags(ctx context.Context, q *store.Queries, postID int64, tagIDs []int64) error {
	for _, tagID := range tagIDs {
		if err := q.AddPostTag(ctx, postID, tagID); err != nil {
			return fmt.Errorf("attaching tag %d: %w", tagID, err)
		}
	}
	return nil
}

func (s *BlogPostService) listPublished(ctx context.Context, pageIndex int,
	list func(limit, offset int64) ([]store.Post, error), count func() (int64, error)) (*model.PostList, error) {
	settings, err := s.settings.GetBlogSettings(ctx)
	if err != nil {
		return nil, err
	}
	pageIndex, pageSize := normalizePaging(pageIndex, 0, settings.PostPerPage)
	result, err := s.queryList(ctx, pageIndex, pageSize, list, count)
	if err != nil {
		return nil, err
	}
	s.preRenderList(ctx, &result)
	return &result, nil
}

func (s *BlogPostService) queryList(ctx context.Context, pageIndex, pageSize int,
	list func(limit, offset int64) ([]store.Post, error), count func() (int64, error)) (model.PostList, error) {
	offset := int64(pageIndex-1) * int64(pageSize)
	rows, err := list(int64(pageSize), offset)
	if err != nil {
		return model.PostList{}, fmt.Errorf("listing posts: %w", err)
	}
	total, err := count()
	if err != nil {
		return model.PostList{}, fmt.Errorf("counting posts: %w", err)
	}
	posts, err := s.hydrateAll(ctx, rows)
	if err != nil {
		return model.PostList{}, err
	}
	return model.PostList{Posts: posts, TotalCount: total, PageIndex: pageIndex, PageSize: pageSize}, nil
}

func (s *BlogPostService) hydrateAll(ctx context.Context, rows []store.Post) ([]model.BlogPost, error) {
	posts := make([]model.BlogPost, 0, len(rows))
	for _, row := range rows {
		p, err := s.hydrate(ctx, row)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, nil
}

// hydrate converts a row and loads its category and tags.
func (s *BlogPostService) hydrate(ctx context.Context, row store.Post) (model.BlogPost, error) {
	post := blogPostFromRow(row)

	// Read the category row directly: hydration runs right after writes and
	// must not repopulate the all-categories aggregate.
	if row.CategoryID.Valid {
		catRow, err := s.queries.GetCategoryByID(ctx, row.CategoryID.Int64)
		switch {
		case err == nil:
			settings, err := s.settings.GetBlogSettings(ctx)
			if err != nil {
				return model.BlogPost{}, err
			}
			cat := categoryFromRow(catRow, 0, settings.DefaultCategoryID)
			post.Category = &cat
		case !errors.Is(err, sql.ErrNoRows):
			return model.BlogPost{}, fmt.Errorf("loading post category: %w", err)
		}
	}

	tags, err := s.queries.ListTagsForPost(ctx, row.ID)
	if err != nil {
		return model.BlogPost{}, fmt.Errorf("loading post tags: %w", err)
	}
	for _, t := range tags {
		post.Tags = append(post.Tags, tagFromRow(t, 0))
	}
	return post, nil
}

func (s *BlogPostService) preRender(ctx context.Context, post *model.BlogPost) {
	if s.images != nil {
		post.Body = s.images.ProcessResponsiveImages(ctx, post.Body)
	}
}

func (s *BlogPostService) preRenderList(ctx context.Context, list *model.PostList) {
	for i := range list.Posts {
		s.preRender(ctx, &list.Posts[i])
	}
}

func normalizePaging(pageIndex, pageSize, defaultSize int) (int, int) {
	if pageIndex <= 0 {
		pageIndex = 1
	}
	if pageSize <= 0 {
		pageSize = defaultSize
	}
	if pageSize <= 0 {
		pageSize = store.DefaultPostPerPage
	}
	return pageIndex, pageSize
}

func parseArchiveMonth(s string) (year, month int, ok bool) {
	y, m, found := strings.Cut(s, "-")
	if !found {
		return 0, 0, false
	}
	year, err := strconv.Atoi(y)
	if err != nil {
		return 0, 0, false
	}
	month, err = strconv.Atoi(m)
	if err != nil {
		return 0, 0, false
	}
	return year, month, true
}
