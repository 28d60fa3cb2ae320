// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/oblog/internal/cache"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/testutil"
)

func TestPageCreate(t *testing.T) {
	f := newFixture(t)

	page, err := f.svc.Pages.Create(context.Background(), PageInput{
		UserID: 1,
		Title:  "About <b>Us</b>",
		Body:   "<p>hi</p><script>x()</script>",
		Status: model.StatusPublished,
	})
	require.NoError(t, err)
	assert.Equal(t, "About Us", page.Title)
	assert.Equal(t, "about-us", page.Slug)
	assert.Equal(t, model.PageLayoutDefault, page.PageLayout)
	assert.NotContains(t, page.Body, "<script>")
	assert.Nil(t, page.Parent)
	assert.Empty(t, page.Children)
}

func TestPageReservedSlug(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Pages.Create(ctx, PageInput{Title: "Admin", Status: model.StatusPublished})
	requireKind(t, err, KindValidation)
	assert.Equal(t, "Page title conflicts with reserved URL 'admin', please choose a different one.", err.Error())

	parent := f.createPage(t, "Docs", 0, model.StatusPublished)
	child, err := f.svc.Pages.Create(ctx, PageInput{ParentID: parent.ID, Title: "Admin", Status: model.StatusPublished})
	require.NoError(t, err)
	assert.Equal(t, "admin", child.Slug)
}

func TestPageDuplicateSiblingTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.createPage(t, "Team", 0, model.StatusPublished)

	_, err := f.svc.Pages.Create(ctx, PageInput{Title: "Team", Status: model.StatusDraft})
	requireKind(t, err, KindDuplicate)
	assert.Equal(t, DuplicatePageTitleMsg, err.Error())

	// the same title under a different parent is fine
	child, err := f.svc.Pages.Create(ctx, PageInput{ParentID: first.ID, Title: "Team", Status: model.StatusPublished})
	require.NoError(t, err)
	assert.Equal(t, "team", child.Slug)

	// a different title that slugs the same gets a suffix
	other, err := f.svc.Pages.Create(ctx, PageInput{Title: "Team!", Status: model.StatusPublished})
	require.NoError(t, err)
	assert.Equal(t, "team-2", other.Slug)
}

func TestPageHierarchy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	parent := f.createPage(t, "About", 0, model.StatusPublished)
	child := f.createPage(t, "Our Team", parent.ID, model.StatusPublished)

	assert.Equal(t, "our-team", child.Slug)
	require.NotNil(t, child.Parent)
	assert.Equal(t, parent.ID, child.Parent.ID)
	assert.Equal(t, "about", child.Parent.Slug)

	got, err := f.svc.Pages.Get(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, got.Children, 1)
	assert.Equal(t, child.ID, got.Children[0].ID)

	_, err = f.svc.Pages.Create(ctx, PageInput{ParentID: child.ID, Title: "Too deep", Status: model.StatusPublished})
	requireKind(t, err, KindValidation)

	_, err = f.svc.Pages.Create(ctx, PageInput{ParentID: 4242, Title: "Orphan", Status: model.StatusPublished})
	requireKind(t, err, KindValidation)

	_, err = f.svc.Pages.Update(ctx, parent.ID, PageInput{ParentID: parent.ID, Title: "About", Status: model.StatusPublished})
	requireKind(t, err, KindValidation)

	other := f.createPage(t, "Contact", 0, model.StatusPublished)
	_, err = f.svc.Pages.Update(ctx, parent.ID, PageInput{ParentID: other.ID, Title: "About", Status: model.StatusPublished})
	requireKind(t, err, KindValidation)

	parents, err := f.svc.Pages.GetParents(ctx, true)
	require.NoError(t, err)
	require.Len(t, parents, 2)
	assert.Equal(t, "about", parents[0].Slug)
	assert.Len(t, parents[0].Children, 1)
}

func TestPageGetBySlugs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	parent := f.createPage(t, "About", 0, model.StatusPublished)
	child := f.createPage(t, "Our Team", parent.ID, model.StatusPublished)
	f.createPage(t, "Hidden", parent.ID, model.StatusDraft)

	got, err := f.svc.Pages.GetBySlugs(ctx, "about")
	require.NoError(t, err)
	assert.Equal(t, parent.ID, got.ID)
	assert.Len(t, got.Children, 2)
	assert.True(t, f.cached(t, cache.PageKey("about", "")))

	got, err = f.svc.Pages.GetBySlugs(ctx, "About", "Our-Team")
	require.NoError(t, err)
	assert.Equal(t, child.ID, got.ID)
	require.NotNil(t, got.Parent)
	assert.True(t, f.cached(t, cache.PageKey("about", "our-team")))

	_, err = f.svc.Pages.GetBySlugs(ctx, "about", "hidden")
	requireKind(t, err, KindNotFound)
	_, err = f.svc.Pages.GetBySlugs(ctx, "missing")
	requireKind(t, err, KindNotFound)
	_, err = f.svc.Pages.GetBySlugs(ctx, "preview")
	requireKind(t, err, KindNotFound)
	_, err = f.svc.Pages.GetBySlugs(ctx)
	requireKind(t, err, KindValidation)

	_, err = f.svc.Pages.Update(ctx, child.ID, PageInput{
		ParentID: parent.ID,
		Title:    "Our Team",
		Body:     "updated",
		Status:   model.StatusPublished,
	})
	require.NoError(t, err)
	assert.False(t, f.cached(t, cache.PageKey("about", "our-team")))
	assert.False(t, f.cached(t, cache.PageKey("about", "")))

	got, err = f.svc.Pages.GetBySlugs(ctx, "about", "our-team")
	require.NoError(t, err)
	assert.Contains(t, got.Body, "updated")
}

func TestPageGetBySlugsNonLatin(t *testing.T) {
	f := newFixture(t)

	page := f.createPage(t, "你好", 0, model.StatusPublished)
	assert.Equal(t, url.QueryEscape("你好"), page.Slug)

	got, err := f.svc.Pages.GetBySlugs(context.Background(), "你好")
	require.NoError(t, err)
	assert.Equal(t, page.ID, got.ID)
}

func TestPageDraftNotServed(t *testing.T) {
	f := newFixture(t)

	f.createPage(t, "Coming Soon", 0, model.StatusDraft)
	_, err := f.svc.Pages.GetBySlugs(context.Background(), "coming-soon")
	requireKind(t, err, KindNotFound)
	assert.False(t, f.cached(t, cache.PageKey("coming-soon", "")))
}

func TestPageDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	parent := f.createPage(t, "About", 0, model.StatusPublished)
	child := f.createPage(t, "Our Team", parent.ID, model.StatusPublished)

	err := f.svc.Pages.Delete(ctx, parent.ID)
	requireKind(t, err, KindConflict)

	_, err = f.svc.Pages.GetBySlugs(ctx, "about")
	require.NoError(t, err)

	require.NoError(t, f.svc.Pages.Delete(ctx, child.ID))
	assert.False(t, f.cached(t, cache.PageKey("about", "")))
	require.NoError(t, f.svc.Pages.Delete(ctx, parent.ID))

	_, err = f.svc.Pages.Get(ctx, parent.ID)
	requireKind(t, err, KindNotFound)
	err = f.svc.Pages.Delete(ctx, parent.ID)
	requireKind(t, err, KindNotFound)
}

// rowCheckingCache records, for every deleted key, whether the page row
// was still present in the database at the time of the delete.
type rowCheckingCache struct {
	cache.Cache
	queries  *store.Queries
	pageID   int64
	rowAlive map[string]bool
}

func (c *rowCheckingCache) Delete(ctx context.Context, key string) error {
	_, err := c.queries.GetPageByID(ctx, c.pageID)
	c.rowAlive[key] = err == nil
	return c.Cache.Delete(ctx, key)
}

func TestPageDeleteInvalidatesAfterRemoval(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	page := f.createPage(t, "Contact", 0, model.StatusPublished)
	_, err := f.svc.Pages.GetBySlugs(ctx, "contact")
	require.NoError(t, err)

	watched := &rowCheckingCache{
		Cache:    f.cache,
		queries:  store.New(f.db),
		pageID:   page.ID,
		rowAlive: map[string]bool{},
	}
	pages := NewPageService(f.db, watched, NewEventBus(testutil.TestLoggerSilent()), testutil.TestLoggerSilent())
	require.NoError(t, pages.Delete(ctx, page.ID))

	key := cache.PageKey("contact", "")
	alive, deleted := watched.rowAlive[key]
	require.True(t, deleted, "page key was not invalidated")
	assert.False(t, alive, "page key invalidated while the row still existed")
	assert.False(t, f.cached(t, key))

	_, err = f.svc.Pages.GetBySlugs(ctx, "contact")
	requireKind(t, err, KindNotFound)
}

func TestPageBodyLinks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	parent := f.createPage(t, "About", 0, model.StatusPublished)
	child, err := f.svc.Pages.Create(ctx, PageInput{
		ParentID: parent.ID,
		Title:    "History",
		Body:     "See [[Our Team]] for people.",
		Status:   model.StatusPublished,
	})
	require.NoError(t, err)
	assert.Contains(t, child.Body, `href="/about/our-team"`)
	assert.NotContains(t, child.Body, "[[")
}

func TestPageSaveNav(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	parent := f.createPage(t, "About", 0, model.StatusPublished)
	child := f.createPage(t, "Our Team", parent.ID, model.StatusPublished)

	_, err := f.svc.Pages.GetBySlugs(ctx, "about", "our-team")
	require.NoError(t, err)

	saved, err := f.svc.Pages.SaveNav(ctx, parent.ID, "- [[About]]\n- [[Our Team]]\n")
	require.NoError(t, err)
	assert.Equal(t, "- [[About]]\n- [[Our Team]]\n", saved.Nav)
	assert.Contains(t, saved.NavHTML, `href="/about"`)
	assert.Contains(t, saved.NavHTML, `href="/about/our-team"`)
	assert.False(t, f.cached(t, cache.PageKey("about", "our-team")))

	// children render the nav of their parent
	got, err := f.svc.Pages.Get(ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.NavHTML, got.NavHTML)

	_, err = f.svc.Pages.SaveNav(ctx, 4242, "")
	requireKind(t, err, KindNotFound)
}

func TestSlugifyPageTitle(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"", ""},
		{"Hello World", "hello-world"},
		{"Café au lait", "cafe-au-lait"},
		{"日本", url.QueryEscape("日本")},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, SlugifyPageTitle(tt.title))
		})
	}

	long := SlugifyPageTitle(strings.Repeat("日", 200))
	assert.LessOrEqual(t, len(long), 250)
}

func TestParseNavLinks(t *testing.T) {
	got, err := ParseNavLinks("Meet [[Our Team]] today", "about")
	require.NoError(t, err)
	assert.Equal(t, `Meet <a href="/about/our-team" title="Our Team">Our Team</a> today`, got)

	got, err = ParseNavLinks("Back to [[About]]", "about")
	require.NoError(t, err)
	assert.Equal(t, `Back to <a href="/about" title="About">About</a>`, got)

	got, err = ParseNavLinks("no links here", "about")
	require.NoError(t, err)
	assert.Equal(t, "no links here", got)

	got, err = ParseNavLinks("", "about")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNavMdToHTML(t *testing.T) {
	got, err := NavMdToHTML("## Sections\n\n- [[Our Team]]\n- [Docs](https://example.com/docs)\n", "about")
	require.NoError(t, err)
	assert.Contains(t, got, "<h2")
	assert.Contains(t, got, "<ul>")
	assert.Contains(t, got, `href="/about/our-team"`)
	assert.Contains(t, got, `href="https://example.com/docs"`)

	got, err = NavMdToHTML("", "about")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = NavMdToHTML("<script>alert(1)</script>[[x]]", "")
	require.NoError(t, err)
	assert.NotContains(t, got, "<script>")
}
