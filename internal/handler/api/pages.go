// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/oblog/internal/service"
)

// NavRequest is the request body for PUT /api/v1/pages/{id}/nav.
type NavRequest struct {
	Nav string `json:"nav"`
}

// ListPages handles GET /api/v1/pages
// Returns the top-level pages with references to their children.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.svc.Pages.GetParents(r.Context(), true)
	if err != nil {
		h.fail(w, err)
		return
	}
	WriteSuccess(w, pages, &Meta{Total: int64(len(pages))})
}

// GetPage handles GET /api/v1/pages/{id}
// Returns the page regardless of its status.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "page")
	if !ok {
		return
	}
	page, err := h.svc.Pages.Get(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	WriteSuccess(w, page, nil)
}

// GetPageBySlug handles GET /api/v1/pages/by-slug/{parent}[/{child}]
// Only published pages are returned; results are served from the cache.
func (h *Handler) GetPageBySlug(w http.ResponseWriter, r *http.Request) {
	slugs := []string{chi.URLParam(r, "parent")}
	if child := chi.URLParam(r, "child"); child != "" {
		slugs = append(slugs, child)
	}
	page, err := h.svc.Pages.GetBySlugs(r.Context(), slugs...)
	if err != nil {
		h.fail(w, err)
		return
	}
	WriteSuccess(w, page, nil)
}

// CreatePage handles POST /api/v1/pages
func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request) {
	var req service.PageInput
	if !decodeJSON(w, r, &req) {
		return
	}
	page, err := h.svc.Pages.Create(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	WriteCreated(w, page)
}

// UpdatePage handles PUT /api/v1/pages/{id}
func (h *Handler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "page")
	if !ok {
		return
	}
	var req service.PageInput
	if !decodeJSON(w, r, &req) {
		return
	}
	page, err := h.svc.Pages.Update(r.Context(), id, req)
	if err != nil {
		h.fail(w, err)
		return
	}
	WriteSuccess(w, page, nil)
}

// DeletePage handles DELETE /api/v1/pages/{id}
// A page with children cannot be deleted.
func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "page")
	if !ok {
		return
	}
	if err := h.svc.Pages.Delete(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SavePageNav handles PUT /api/v1/pages/{id}/nav
func (h *Handler) SavePageNav(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "page")
	if !ok {
		return
	}
	var req NavRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	page, err := h.svc.Pages.SaveNav(r.Context(), id, req.Nav)
	if err != nil {
		h.fail(w, err)
		return
	}
	WriteSuccess(w, page, nil)
}
