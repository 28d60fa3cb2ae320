// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"database/sql"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/oblog/internal/cache"
	"github.com/olegiv/oblog/internal/imaging"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/storage"
	"github.com/olegiv/oblog/internal/testutil"
)

type fixture struct {
	db      *sql.DB
	cache   *cache.MemoryCache
	storage *storage.LocalProvider
	svc     *Services
}

// newFixture wires every service over a seeded temp database, a memory
// cache and a temp media directory served from /media.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, cleanup := testutil.SeededDB(t)
	t.Cleanup(cleanup)

	c := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Hour})
	t.Cleanup(func() { _ = c.Close() })

	provider, err := storage.NewLocalProvider(t.TempDir(), "/media")
	require.NoError(t, err)

	return &fixture{
		db:      db,
		cache:   c,
		storage: provider,
		svc:     New(db, c, provider, imaging.NewProcessor(0), testutil.TestLoggerSilent()),
	}
}

func (f *fixture) cached(t *testing.T, key string) bool {
	t.Helper()
	ok, err := f.cache.Has(context.Background(), key)
	require.NoError(t, err)
	return ok
}

func (f *fixture) defaultCategoryID(t *testing.T) int64 {
	t.Helper()
	settings, err := f.svc.Settings.GetBlogSettings(context.Background())
	require.NoError(t, err)
	require.NotZero(t, settings.DefaultCategoryID)
	return settings.DefaultCategoryID
}

func (f *fixture) createPost(t *testing.T, title string, status model.PostStatus) *model.BlogPost {
	t.Helper()
	post, err := f.svc.Posts.Create(context.Background(), BlogPostInput{
		UserID: 1,
		Title:  title,
		Body:   "<p>Body of " + title + "</p>",
		Status: status,
	})
	require.NoError(t, err)
	return post
}

func (f *fixture) createPage(t *testing.T, title string, parentID int64, status model.PostStatus) *model.Page {
	t.Helper()
	page, err := f.svc.Pages.Create(context.Background(), PageInput{
		UserID:   1,
		ParentID: parentID,
		Title:    title,
		Body:     "<p>" + title + "</p>",
		Status:   status,
	})
	require.NoError(t, err)
	return page
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, x%height, color.RGBA{R: uint8(x % 256), G: 90, B: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func gifBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewPaletted(image.Rect(0, 0, width, height), color.Palette{color.White, color.Black})
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, img, nil))
	return buf.Bytes()
}

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), "error: %v", err)
}
