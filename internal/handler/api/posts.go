// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/oblog/internal/service"
	"github.com/olegiv/oblog/internal/util"
)

// maxPostsPerPage caps per_page on post listings.
const maxPostsPerPage = 100

// ListPosts handles GET /api/v1/posts
// Returns published posts, newest first.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Posts.GetList(r.Context(), parsePageParam(r), parsePerPageParam(r, maxPostsPerPage))
	if err != nil {
		h.fail(w, err)
		return
	}
	WriteSuccess(w, list.Posts, listMeta(list))
}

// RecentPosts handles GET /api/v1/posts/recent?n=
func (h *Handler) RecentPosts(w http.ResponseWriter, r *http.Request) {
	n := parseIntParam(r, "n", 5, 1, service.MaxRecentPosts)
	posts, err := h.svc.Posts.GetRecentPublished(r.Context(), n)
	if err != nil {
		h.fail(w, err)
		return
	}
	WriteSuccess(w, posts, nil)
}

// ListDrafts handles GET /api/v1/posts/drafts
func (h *Handler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Posts.GetListForDrafts(r.Context(), parsePageParam(r), parsePerPageParam(r, service.MaxDraftsPerPage))
	if err != nil {
		h.fail(w, err)
		return
	}
	WriteSuccess(w, list.Posts, listMeta(list))
}

// ListArchives handles GET /api/v1/posts/archives
// Returns published post counts per month.
func (h *Handler) ListArchives(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Posts.GetArchives(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	WriteSuccess(w, items, nil)
}

// ArchivePosts handles GET /api/v1/posts/archive/{year}[/{month}]
func (h *Handler) ArchivePosts(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		WriteBadRequest(w, "Invalid year", nil)
		return
	}
	month := 0
	if raw := chi.URLParam(r, "month"); raw != "" {
		if month, err = strconv.Atoi(raw); err != nil {
			WriteBadRequest(w, "Invalid month", nil)
			return
		}
	}

	list, err := h.svc.Posts.GetListForArchive(r.Context(), year, month, parsePageParam(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	WriteSuccess(w, list.Posts, listMeta(list))
}

// GetPostBySlug handles GET /api/v1/posts/{year}/{month}/{day}/{slug}
// Only published posts are returned.
func (h *Handler) GetPostBySlug(w http.ResponseWriter, r *http.Request) {
	var date [3]int
	for i, name := range []string{"year", "month", "day"} {
		v, err := strconv.Atoi(chi.URLParam(r, name))
		if err != nil {
			WriteBadRequest(w, "Invalid "+name, nil)
			return
		}
		date[i] = v
	}

	slug := chi.URLParam(r, "slug")
	if !util.IsValidSlug(slug) {
		WriteNotFound(w, "Blog post not found")
		return
	}

	post, err := h.svc.Posts.GetBySlug(r.Context(), slug, date[0], date[1], date[2])
	if err != nil {
		h.fail(w, err)
		return
	}
	WriteSuccess(w, post, nil)
}

// GetPost handles GET /api/v1/posts/{id}
// Returns the post regardless of its status.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "post")
	if !ok {
		return
	}
	post, err := h.svc.Posts.Get(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	WriteSuccess(w, post, nil)
}

// CreatePost handles POST /api/v1/posts
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req service.BlogPostInput
	if !decodeJSON(w, r, &req) {
		return
	}
	post, err := h.svc.Posts.Create(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	WriteCreated(w, post)
}

// UpdatePost handles PUT /api/v1/posts/{id}
// The body replaces every editable field.
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "post")
	if !ok {
		return
	}
	var req service.BlogPostInput
	if !decodeJSON(w, r, &req) {
		return
	}
	post, err := h.svc.Posts.Update(r.Context(), id, req)
	if err != nil {
		h.fail(w, err)
		return
	}
	WriteSuccess(w, post, nil)
}

// DeletePost handles DELETE /api/v1/posts/{id}
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "post")
	if !ok {
		return
	}
	if err := h.svc.Posts.Delete(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
