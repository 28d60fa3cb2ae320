// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/oblog/internal/model"
)

// CategoryRequest is the request body for creating or updating a category.
type CategoryRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TagRequest is the request body for creating or updating a tag.
type TagRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// ============================================================================
// Category Endpoints
// ============================================================================

// ListCategories handles GET /api/v1/categories
// Returns all categories with their published post counts.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.Categories.GetAll(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	WriteSuccess(w, cats, &Meta{Total: int64(len(cats))})
}

// GetCategory handles GET /api/v1/categories/{id}
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "category")
	if !ok {
		return
	}
	cat, err := h.svc.Categories.Get(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	WriteSuccess(w, cat, nil)
}

// CategoryPosts handles GET /api/v1/categories/{slug}/posts
func (h *Handler) CategoryPosts(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Posts.GetListForCategory(r.Context(), chi.URLParam(r, "slug"), parsePageParam(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	WriteSuccess(w, list.Posts, listMeta(list))
}

// CreateCategory handles POST /api/v1/categories
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	cat, err := h.svc.Categories.Create(r.Context(), req.Title, req.Description)
	if err != nil {
		h.fail(w, err)
		return
	}
	WriteCreated(w, cat)
}

// UpdateCategory handles PUT /api/v1/categories/{id}
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "category")
	if !ok {
		return
	}
	var req CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	cat, err := h.svc.Categories.Update(r.Context(), model.Category{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	WriteSuccess(w, cat, nil)
}

// DeleteCategory handles DELETE /api/v1/categories/{id}
// Posts of the category move to the default category.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "category")
	if !ok {
		return
	}
	if err := h.svc.Categories.Delete(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetDefaultCategory handles PUT /api/v1/categories/{id}/default
func (h *Handler) SetDefaultCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "category")
	if !ok {
		return
	}
	ctx := r.Context()
	if err := h.svc.Categories.SetDefault(ctx, id); err != nil {
		h.fail(w, err)
		return
	}
	cat, err := h.svc.Categories.Get(ctx, id)
	if err != nil {
		h.fail(w, err)
		return
	}
	WriteSuccess(w, cat, nil)
}

// ============================================================================
// Tag Endpoints
// ============================================================================

// ListTags handles GET /api/v1/tags
// Returns all tags with their published post counts.
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.Tags.GetAll(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	WriteSuccess(w, tags, &Meta{Total: int64(len(tags))})
}

// GetTag handles GET /api/v1/tags/{id}
func (h *Handler) GetTag(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "tag")
	if !ok {
		return
	}
	tag, err := h.svc.Tags.Get(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	WriteSuccess(w, tag, nil)
}

// TagPosts handles GET /api/v1/tags/{slug}/posts
func (h *Handler) TagPosts(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Posts.GetListForTag(r.Context(), chi.URLParam(r, "slug"), parsePageParam(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	WriteSuccess(w, list.Posts, listMeta(list))
}

// CreateTag handles POST /api/v1/tags
func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req TagRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tag, err := h.svc.Tags.Create(r.Context(), model.Tag{
		Title:       req.Title,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	WriteCreated(w, tag)
}

// UpdateTag handles PUT /api/v1/tags/{id}
func (h *Handler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "tag")
	if !ok {
		return
	}
	var req TagRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tag, err := h.svc.Tags.Update(r.Context(), model.Tag{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	WriteSuccess(w, tag, nil)
}

// DeleteTag handles DELETE /api/v1/tags/{id}
func (h *Handler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "tag")
	if !ok {
		return
	}
	if err := h.svc.Tags.Delete(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
