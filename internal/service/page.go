// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/olegiv/oblog/internal/cache"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/util"
)

// Page error messages.
const (
	DuplicatePageTitleMsg = "A page with same title exists, please choose a different one."
	DuplicatePageSlugMsg  = "Page slug generated from your title conflicts with another page, please choose a different title."
	ReservedPageSlugMsg   = "Page title conflicts with reserved URL '%s', please choose a different one."
)

// PreviewSlug is never served as a page.
const PreviewSlug = "preview"

// ReservedPageSlugs cannot be used by top-level pages; they collide with
// application routes. Child pages may use them.
var ReservedPageSlugs = []string{
	"admin", "account", "api", "app", "apps", "assets",
	"blog", "blogs",
	"denied",
	"feed", "feeds", "forum", "forums",
	"image", "images", "img",
	"login", "logout",
	"media",
	"plugin", "plugins", "post", "posts", "preview",
	"register", "rsd",
	"setup", "static",
	"theme", "themes",
	"user", "users",
	"widget", "widgets",
}

// navLinkPattern matches [[Page Title]] tokens.
var navLinkPattern = regexp.MustCompile(`\[\[(.+?)\]\]`)

// PageInput carries the editable fields of a page.
type PageInput struct {
	UserID     int64            `json:"user_id"`
	ParentID   int64            `json:"parent_id"`
	Title      string           `json:"title"`
	Body       string           `json:"body"`
	Excerpt    string           `json:"excerpt"`
	Status     model.PostStatus `json:"status"`
	PageLayout string           `json:"page_layout"`
	CreatedOn  *time.Time       `json:"created_on"`
}

func (in *PageInput) normalize() error {
	if in.Status == "" {
		in.Status = model.StatusDraft
	}
	if !in.Status.Valid() {
		return validationError("Invalid page status.", map[string]string{"status": "must be draft or published"})
	}
	if in.PageLayout == "" {
		in.PageLayout = model.PageLayoutDefault
	}
	if !model.ValidPageLayout(in.PageLayout) {
		return validationError("Invalid page layout.", map[string]string{"page_layout": "must be default, wide or full"})
	}
	if in.ParentID < 0 {
		in.ParentID = 0
	}
	in.Title = CleanHTML(in.Title)
	return ValidatePostTitle(in.Title, in.Status)
}

// PageService manages pages. A page is either a parent (top level) or a
// child of exactly one parent; deeper nesting is not allowed.
type PageService struct {
	queries *store.Queries
	cache   cache.Cache
	bus     *EventBus
	logger  *slog.Logger
	now     func() time.Time
}

// NewPageService creates a new PageService.
func NewPageService(db *sql.DB, c cache.Cache, bus *EventBus, logger *slog.Logger) *PageService {
	return &PageService{
		queries: store.New(db),
		cache:   c,
		bus:     bus,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create validates and stores a new page.
func (s *PageService) Create(ctx context.Context, in PageInput) (*model.Page, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	parent, err := s.loadParent(ctx, in.ParentID)
	if err != nil {
		return nil, err
	}
	if err := s.checkTitle(ctx, in.Title, in.ParentID, 0); err != nil {
		return nil, err
	}
	slug, err := s.resolveSlug(ctx, in.Title, in.ParentID, 0)
	if err != nil {
		return nil, err
	}

	createdOn := s.now()
	if in.CreatedOn != nil && !in.CreatedOn.IsZero() {
		createdOn = in.CreatedOn.UTC()
	}

	row, err := s.queries.CreatePost(ctx, store.CreatePostParams{
		Type:          store.PostTypePage,
		UserID:        in.UserID,
		ParentID:      in.ParentID,
		Title:         in.Title,
		Slug:          util.NullStringFromValue(slug),
		Body:          s.renderBody(in.Body, linkParentSlug(parent, slug)),
		Excerpt:       CleanHTML(in.Excerpt),
		Status:        string(in.Status),
		CommentStatus: model.CommentsClosed,
		PageLayout:    in.PageLayout,
		CreatedOn:     createdOn,
		CreatedDay:    createdOn.Format(dayLayout),
	})
	if err != nil {
		return nil, s.translateSlugError(err)
	}

	invalidateAggregates(ctx, s.cache, s.logger)
	if parent != nil {
		s.invalidatePage(ctx, parent.Slug.String, slug)
	}

	page, err := s.Get(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	_ = s.bus.Publish(ctx, Event{Kind: PageCreated, ID: row.ID, Page: page, UserID: in.UserID})

	s.logger.Debug("created page", "id", row.ID, "slug", slug, "parent_id", in.ParentID)
	return page, nil
}

// Update replaces the editable fields of page id.
func (s *PageService) Update(ctx context.Context, id int64, in PageInput) (*model.Page, error) {
	if id <= 0 {
		return nil, validationError("Invalid page to update.", nil)
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}

	existing, err := s.queries.GetPageByID(ctx, id)
	if err != nil {
		return nil, translateStoreError(err, "Page")
	}
	if in.ParentID == id {
		return nil, validationError("A page cannot be its own parent.", map[string]string{"parent_id": "invalid"})
	}
	if in.ParentID > 0 && existing.ParentID == 0 {
		n, err := s.queries.CountChildPages(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("counting child pages: %w", err)
		}
		if n > 0 {
			return nil, validationError("A page with child pages cannot become a child page.",
				map[string]string{"parent_id": "page has children"})
		}
	}

	parent, err := s.loadParent(ctx, in.ParentID)
	if err != nil {
		return nil, err
	}
	if err := s.checkTitle(ctx, in.Title, in.ParentID, id); err != nil {
		return nil, err
	}

	slug := existing.Slug.String
	if !existing.Slug.Valid || existing.Title != in.Title || existing.ParentID != in.ParentID {
		slug, err = s.resolveSlug(ctx, in.Title, in.ParentID, id)
		if err != nil {
			return nil, err
		}
	}

	createdOn := existing.CreatedOn.UTC()
	if in.CreatedOn != nil && !in.CreatedOn.IsZero() && in.CreatedOn.UTC().Format(dayLayout) != existing.CreatedDay {
		createdOn = in.CreatedOn.UTC()
	}
	updatedOn := s.now()

	_, err = s.queries.UpdatePost(ctx, store.UpdatePostParams{
		ParentID:      in.ParentID,
		Title:         in.Title,
		Slug:          util.NullStringFromValue(slug),
		Body:          s.renderBody(in.Body, linkParentSlug(parent, slug)),
		Excerpt:       CleanHTML(in.Excerpt),
		Status:        string(in.Status),
		CommentStatus: model.CommentsClosed,
		PageLayout:    in.PageLayout,
		CreatedOn:     createdOn,
		CreatedDay:    createdOn.Format(dayLayout),
		UpdatedOn:     util.NullTimeFromPtr(&updatedOn),
		ID:            id,
	})
	if err != nil {
		return nil, s.translateSlugError(err)
	}

	invalidateAggregates(ctx, s.cache, s.logger)
	if err := s.invalidateStored(ctx, existing); err != nil {
		s.logger.Warn("failed to invalidate page cache", "id", id, "error", err)
	}
	if parent != nil {
		s.invalidatePage(ctx, parent.Slug.String, slug)
	}

	page, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = s.bus.Publish(ctx, Event{Kind: PageUpdated, ID: id, Page: page, UserID: in.UserID})

	s.logger.Debug("updated page", "id", id, "slug", slug, "parent_id", in.ParentID)
	return page, nil
}

// Delete removes page id. A parent page that still has children cannot be deleted.
func (s *PageService) Delete(ctx context.Context, id int64) error {
	existing, err := s.queries.GetPageByID(ctx, id)
	if err != nil {
		return translateStoreError(err, "Page")
	}
	if existing.ParentID == 0 {
		n, err := s.queries.CountChildPages(ctx, id)
		if err != nil {
			return fmt.Errorf("counting child pages: %w", err)
		}
		if n > 0 {
			return conflictError("Page has child pages, delete or move them first.")
		}
	}

	if err := s.queries.DeletePost(ctx, id); err != nil {
		return fmt.Errorf("deleting page: %w", err)
	}
	// Invalidate once the row is gone so a concurrent read cannot re-cache it.
	if err := s.invalidateStored(ctx, existing); err != nil {
		s.logger.Warn("failed to invalidate page cache", "id", id, "error", err)
	}
	invalidateAggregates(ctx, s.cache, s.logger)

	_ = s.bus.Publish(ctx, Event{Kind: PageDeleted, ID: id, UserID: existing.UserID})

	s.logger.Debug("deleted page", "id", id)
	return nil
}

// Get returns page id in any status. A parent page carries its children, a
// child page carries its parent.
func (s *PageService) Get(ctx context.Context, id int64) (*model.Page, error) {
	row, err := s.queries.GetPageByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundError("Page with id %d is not found.", id)
		}
		return nil, err
	}
	page := pageFromRow(row)

	root := row
	if row.ParentID > 0 {
		parentRow, err := s.queries.GetPageByID(ctx, row.ParentID)
		if err != nil {
			return nil, translateStoreError(err, "Parent page")
		}
		ref := pageRefFromRow(parentRow)
		page.Parent = &ref
		root = parentRow
	} else {
		children, err := s.queries.ListPagesByParent(ctx, row.ID)
		if err != nil {
			return nil, fmt.Errorf("listing child pages: %w", err)
		}
		page.Children = pageRefs(children)
	}

	if page.NavHTML, err = NavMdToHTML(root.Nav, root.Slug.String); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetBySlugs returns the published page at /parentSlug or
// /parentSlug/childSlug. Slugs match case-insensitively, in raw or
// URL-encoded form.
func (s *PageService) GetBySlugs(ctx context.Context, slugs ...string) (*model.Page, error) {
	if len(slugs) == 0 || slugs[0] == "" {
		return nil, validationError("Page slug is required.", nil)
	}
	parentSlug := slugs[0]
	if strings.EqualFold(parentSlug, PreviewSlug) {
		return nil, notFoundError("Page not found.")
	}
	childSlug := ""
	if len(slugs) > 1 {
		childSlug = slugs[1]
	}

	key := cache.PageKey(strings.ToLower(parentSlug), strings.ToLower(childSlug))
	ttl := cache.TTLParentPage
	if childSlug != "" {
		ttl = cache.TTLChildPage
	}

	page, err := cache.GetOrPopulate(ctx, s.cache, key, ttl, func(ctx context.Context) (model.Page, error) {
		parents, err := s.queries.ListPagesByParent(ctx, 0)
		if err != nil {
			return model.Page{}, fmt.Errorf("listing pages: %w", err)
		}
		parentRow, ok := findBySlug(parents, parentSlug)
		if !ok || parentRow.Status != string(model.StatusPublished) {
			return model.Page{}, notFoundError("Page not found.")
		}

		children, err := s.queries.ListPagesByParent(ctx, parentRow.ID)
		if err != nil {
			return model.Page{}, fmt.Errorf("listing child pages: %w", err)
		}
		navHTML, err := NavMdToHTML(parentRow.Nav, parentRow.Slug.String)
		if err != nil {
			return model.Page{}, err
		}

		if childSlug == "" {
			page := pageFromRow(parentRow)
			page.Children = pageRefs(children)
			page.NavHTML = navHTML
			return page, nil
		}

		childRow, ok := findBySlug(children, childSlug)
		if !ok || childRow.Status != string(model.StatusPublished) {
			return model.Page{}, notFoundError("Page not found.")
		}
		page := pageFromRow(childRow)
		ref := pageRefFromRow(parentRow)
		page.Parent = &ref
		page.NavHTML = navHTML
		return page, nil
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// GetParents returns all top-level pages in any status, oldest first,
// optionally with their children.
func (s *PageService) GetParents(ctx context.Context, withChildren bool) ([]model.Page, error) {
	rows, err := s.queries.ListPagesByParent(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	pages := make([]model.Page, 0, len(rows))
	for _, row := range rows {
		page := pageFromRow(row)
		if withChildren {
			children, err := s.queries.ListPagesByParent(ctx, row.ID)
			if err != nil {
				return nil, fmt.Errorf("listing child pages: %w", err)
			}
			page.Children = pageRefs(children)
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// SaveNav stores the navigation markdown of page id.
func (s *PageService) SaveNav(ctx context.Context, pageID int64, navMd string) (*model.Page, error) {
	row, err := s.queries.GetPageByID(ctx, pageID)
	if err != nil {
		return nil, translateStoreError(err, "Page")
	}
	if _, err := NavMdToHTML(navMd, row.Slug.String); err != nil {
		return nil, validationError("Navigation cannot be rendered.", map[string]string{"nav": err.Error()})
	}
	if err := s.queries.UpdatePageNav(ctx, pageID, navMd, s.now()); err != nil {
		return nil, fmt.Errorf("saving page nav: %w", err)
	}

	if err := s.invalidateStored(ctx, row); err != nil {
		s.logger.Warn("failed to invalidate page cache", "id", pageID, "error", err)
	}

	s.logger.Debug("saved page nav", "id", pageID)
	return s.Get(ctx, pageID)
}

// loadParent returns the parent row for parentID, or nil for a top-level page.
func (s *PageService) loadParent(ctx context.Context, parentID int64) (*store.Post, error) {
	if parentID == 0 {
		return nil, nil
	}
	parent, err := s.queries.GetPageByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, validationError(fmt.Sprintf("Parent page with id %d is not found.", parentID),
				map[string]string{"parent_id": "not found"})
		}
		return nil, err
	}
	if parent.ParentID != 0 {
		return nil, validationError("A child page cannot be a parent.", map[string]string{"parent_id": "is a child page"})
	}
	return &parent, nil
}

// checkTitle rejects a title already used by a sibling other than selfID.
func (s *PageService) checkTitle(ctx context.Context, title string, parentID, selfID int64) error {
	if title == "" {
		return nil
	}
	ids, err := s.queries.ListPageIDsByTitle(ctx, parentID, title)
	if err != nil {
		return fmt.Errorf("checking page title: %w", err)
	}
	for _, id := range ids {
		if id != selfID {
			return duplicateError(DuplicatePageTitleMsg, nil)
		}
	}
	return nil
}

// resolveSlug derives a slug unique among the page's siblings. Untitled
// drafts have no slug.
func (s *PageService) resolveSlug(ctx context.Context, title string, parentID, selfID int64) (string, error) {
	slug := SlugifyPageTitle(title)
	if slug == "" {
		return "", nil
	}
	if parentID == 0 && slices.Contains(ReservedPageSlugs, slug) {
		msg := fmt.Sprintf(ReservedPageSlugMsg, slug)
		return "", validationError(msg, map[string]string{"title": msg})
	}
	lookup := idLookup(func(ctx context.Context, slug string) (int64, error) {
		return s.queries.GetPageIDBySlug(ctx, parentID, slug)
	})
	slug, err := util.ResolveUniqueSlug(ctx, slug, util.PostSlugMaxLen, selfID, lookup)
	if err != nil {
		return "", s.translateSlugError(err)
	}
	return slug, nil
}

func (s *PageService) translateSlugError(err error) error {
	if store.IsUniqueViolation(err) || errors.Is(err, util.ErrSlugAttemptsExhausted) {
		return duplicateError(DuplicatePageSlugMsg, err)
	}
	return translateStoreError(err, "page")
}

func (s *PageService) renderBody(body, linkParent string) string {
	expanded, err := ParseNavLinks(body, linkParent)
	if err != nil {
		s.logger.Warn("failed to expand page links", "error", err)
		expanded = body
	}
	return SanitizeBody(expanded)
}

// invalidateStored removes the cache entries of a stored page. For a
// parent page this covers its children, whose keys embed the parent slug.
func (s *PageService) invalidateStored(ctx context.Context, row store.Post) error {
	if row.ParentID == 0 {
		return cache.InvalidatePageFamily(ctx, s.cache, strings.ToLower(row.Slug.String))
	}
	parent, err := s.queries.GetPageByID(ctx, row.ParentID)
	if err != nil {
		return err
	}
	s.invalidatePage(ctx, parent.Slug.String, row.Slug.String)
	return nil
}

// invalidatePage drops a child page entry and its parent, whose children list changed.
func (s *PageService) invalidatePage(ctx context.Context, parentSlug, childSlug string) {
	parentSlug = strings.ToLower(parentSlug)
	if childSlug != "" {
		invalidateKey(ctx, s.cache, s.logger, cache.PageKey(parentSlug, strings.ToLower(childSlug)))
	}
	invalidateKey(ctx, s.cache, s.logger, cache.PageKey(parentSlug, ""))
}

// SlugifyPageTitle slugs a page title. Titles without sluggable characters
// fall back to their URL-encoded form so that non-Latin titles stay readable.
func SlugifyPageTitle(title string) string {
	if title == "" {
		return ""
	}
	if slug := util.SlugifyOrEmpty(title, util.PostSlugMaxLen); slug != "" {
		return slug
	}
	slug := url.QueryEscape(title)
	if len(slug) > util.PostSlugMaxLen {
		slug = slug[:util.PostSlugMaxLen]
	}
	return slug
}

// ParseNavLinks turns [[Title]] tokens in body into inline HTML links to
// the page with that title under parentSlug.
func ParseNavLinks(body, parentSlug string) (string, error) {
	if body == "" {
		return body, nil
	}
	var firstErr error
	out := navLinkPattern.ReplaceAllStringFunc(body, func(token string) string {
		text := navLinkPattern.FindStringSubmatch(token)[1]
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(navLinkMarkdown(text, parentSlug)), &buf); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return token
		}
		html := strings.TrimSpace(buf.String())
		html = strings.TrimPrefix(html, "<p>")
		html = strings.TrimSuffix(html, "</p>")
		return html
	})
	if firstErr != nil {
		return "", fmt.Errorf("rendering page link: %w", firstErr)
	}
	return out, nil
}

// NavMdToHTML renders page navigation markdown after expanding [[Title]] links.
func NavMdToHTML(navMd, parentSlug string) (string, error) {
	if navMd == "" {
		return "", nil
	}
	md := navLinkPattern.ReplaceAllStringFunc(navMd, func(token string) string {
		return navLinkMarkdown(navLinkPattern.FindStringSubmatch(token)[1], parentSlug)
	})
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("rendering page nav: %w", err)
	}
	return SanitizeBody(buf.String()), nil
}

func navLinkMarkdown(text, parentSlug string) string {
	slug := SlugifyPageTitle(text)
	if parentSlug != "" && parentSlug != slug {
		slug = parentSlug + "/" + slug
	}
	title := strings.ReplaceAll(text, `"`, `\"`)
	return fmt.Sprintf("[%s](/%s \"%s\")", text, slug, title)
}

// linkParentSlug is the slug [[links]] in a page body resolve under: the
// parent's slug for a child page, the page's own slug for a parent.
func linkParentSlug(parent *store.Post, slug string) string {
	if parent != nil {
		return parent.Slug.String
	}
	return slug
}

func findBySlug(rows []store.Post, slug string) (store.Post, bool) {
	escaped := url.QueryEscape(slug)
	for _, row := range rows {
		if !row.Slug.Valid {
			continue
		}
		if strings.EqualFold(row.Slug.String, slug) || strings.EqualFold(row.Slug.String, escaped) {
			return row, true
		}
	}
	return store.Post{}, false
}

func pageRefs(rows []store.Post) []model.PageRef {
	refs := make([]model.PageRef, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, pageRefFromRow(row))
	}
	return refs
}
