// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/oblog/internal/model"
)

// CacheStats handles GET /api/v1/cache/stats
func (h *Handler) CacheStats(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, h.caches.Info(), nil)
}

// ClearCache handles DELETE /api/v1/cache
// Drops every cached entry; the next reads repopulate from the database.
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if err := h.caches.ClearAll(r.Context()); err != nil {
		h.fail(w, err)
		return
	}
	h.audit(r.Context(), r, model.EventCategoryCache, "Cache cleared", map[string]any{"backend": h.caches.Backend()})
	w.WriteHeader(http.StatusNoContent)
}

// GetBlogSettings handles GET /api/v1/settings/blog
func (h *Handler) GetBlogSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.Settings.GetBlogSettings(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	WriteSuccess(w, settings, nil)
}

// UpdateBlogSettings handles PUT /api/v1/settings/blog
// Zero fields keep their stored value.
func (h *Handler) UpdateBlogSettings(w http.ResponseWriter, r *http.Request) {
	var req model.BlogSettings
	if !decodeJSON(w, r, &req) {
		return
	}
	settings, err := h.svc.Settings.UpsertBlogSettings(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.audit(r.Context(), r, model.EventCategoryConfig, "Blog settings updated", map[string]any{
		"default_category_id": settings.DefaultCategoryID,
		"post_per_page":       settings.PostPerPage,
	})
	WriteSuccess(w, settings, nil)
}
