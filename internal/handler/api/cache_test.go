// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/oblog/internal/cache"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/store"
)

func TestCacheEndpoints(t *testing.T) {
	s := newTestServer(t)

	// two reads of the same list: one miss then one hit
	for range 2 {
		w := s.do(t, http.MethodGet, "/api/v1/categories", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := s.do(t, http.MethodGet, "/api/v1/cache/stats", nil)
	assertStatusCode(t, w, http.StatusOK)
	info, _ := decodeData[cache.Info](t, w)
	assert.Equal(t, "memory", info.Backend)
	assert.Positive(t, info.Stats.Items)
	assert.Positive(t, info.Stats.Hits)

	w = s.do(t, http.MethodDelete, "/api/v1/cache", nil)
	assertStatusCode(t, w, http.StatusNoContent)

	ok, err := s.caches.Cache().Has(t.Context(), cache.KeyAllCategories)
	require.NoError(t, err)
	assert.False(t, ok)

	w = s.do(t, http.MethodGet, "/api/v1/cache/stats", nil)
	info, _ = decodeData[cache.Info](t, w)
	assert.Zero(t, info.Stats.Items)
	assert.Zero(t, info.Stats.Hits)
}

func TestBlogSettingsEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/settings/blog", nil)
	assertStatusCode(t, w, http.StatusOK)
	settings, _ := decodeData[model.BlogSettings](t, w)
	assert.Equal(t, store.DefaultPostPerPage, settings.PostPerPage)
	assert.NotZero(t, settings.DefaultCategoryID)

	w = s.do(t, http.MethodPut, "/api/v1/settings/blog", model.BlogSettings{PostPerPage: 5})
	assertStatusCode(t, w, http.StatusOK)
	updated, _ := decodeData[model.BlogSettings](t, w)
	assert.Equal(t, 5, updated.PostPerPage)
	assert.Equal(t, settings.DefaultCategoryID, updated.DefaultCategoryID)

	w = s.do(t, http.MethodPut, "/api/v1/settings/blog", model.BlogSettings{PostPerPage: 1000})
	assertStatusCode(t, w, http.StatusUnprocessableEntity)
	resp := assertErrorResponse(t, w, "validation_error")
	assert.Contains(t, resp.Error.Details, "post_per_page")

	w = s.do(t, http.MethodPut, "/api/v1/settings/blog", model.BlogSettings{DefaultCategoryID: 9999})
	assertStatusCode(t, w, http.StatusNotFound)
}

func TestEventEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodDelete, "/api/v1/cache", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodPut, "/api/v1/settings/blog", model.BlogSettings{PostPerPage: 7})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/events?per_page=1", nil)
	assertStatusCode(t, w, http.StatusOK)
	events, meta := decodeData[[]model.Event](t, w)
	require.Len(t, events, 1)
	assert.Equal(t, "Blog settings updated", events[0].Message)
	assert.Equal(t, model.EventCategoryConfig, events[0].Category)
	assert.Equal(t, "192.0.2.1", events[0].IPAddress)
	assert.EqualValues(t, 7, events[0].Metadata["post_per_page"])
	assert.GreaterOrEqual(t, meta.Total, int64(2))

	w = s.do(t, http.MethodGet, "/api/v1/events?page=2&per_page=1", nil)
	assertStatusCode(t, w, http.StatusOK)
	events, _ = decodeData[[]model.Event](t, w)
	require.Len(t, events, 1)
	assert.Equal(t, "Cache cleared", events[0].Message)
	assert.Equal(t, model.EventCategoryCache, events[0].Category)
}
