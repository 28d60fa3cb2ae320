// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Routes returns the v1 API router, meant to be mounted at /api/v1.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/status", h.Status)

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", h.ListPosts)
		r.Post("/", h.CreatePost)
		r.Get("/recent", h.RecentPosts)
		r.Get("/drafts", h.ListDrafts)
		r.Get("/archives", h.ListArchives)
		r.Get("/archive/{year}", h.ArchivePosts)
		r.Get("/archive/{year}/{month}", h.ArchivePosts)
		r.Get("/{year}/{month}/{day}/{slug}", h.GetPostBySlug)
		r.Get("/{id}", h.GetPost)
		r.Put("/{id}", h.UpdatePost)
		r.Delete("/{id}", h.DeletePost)
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Post("/", h.CreateCategory)
		r.Get("/{id}", h.GetCategory)
		r.Put("/{id}", h.UpdateCategory)
		r.Delete("/{id}", h.DeleteCategory)
		r.Put("/{id}/default", h.SetDefaultCategory)
		r.Get("/{slug}/posts", h.CategoryPosts)
	})

	r.Route("/tags", func(r chi.Router) {
		r.Get("/", h.ListTags)
		r.Post("/", h.CreateTag)
		r.Get("/{id}", h.GetTag)
		r.Put("/{id}", h.UpdateTag)
		r.Delete("/{id}", h.DeleteTag)
		r.Get("/{slug}/posts", h.TagPosts)
	})

	r.Route("/pages", func(r chi.Router) {
		r.Get("/", h.ListPages)
		r.Post("/", h.CreatePage)
		r.Get("/by-slug/{parent}", h.GetPageBySlug)
		r.Get("/by-slug/{parent}/{child}", h.GetPageBySlug)
		r.Get("/{id}", h.GetPage)
		r.Put("/{id}", h.UpdatePage)
		r.Delete("/{id}", h.DeletePage)
		r.Put("/{id}/nav", h.SavePageNav)
	})

	r.Route("/media", func(r chi.Router) {
		r.Get("/", h.ListMedia)
		r.Post("/", h.UploadMedia)
		r.Get("/{id}", h.GetMedia)
		r.Delete("/{id}", h.DeleteMedia)
	})

	r.Route("/cache", func(r chi.Router) {
		r.Get("/stats", h.CacheStats)
		r.Delete("/", h.ClearCache)
	})

	r.Get("/events", h.ListEvents)

	if h.jobs != nil {
		r.Get("/jobs", h.ListJobs)
		r.Post("/jobs/{name}/run", h.RunJob)
	}

	r.Get("/settings/blog", h.GetBlogSettings)
	r.Put("/settings/blog", h.UpdateBlogSettings)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteNotFound(w, "Endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed", nil)
	})

	return r
}

// MountMedia serves uploaded files from dir under endpoint. Directory
// listings are not served.
func MountMedia(r chi.Router, endpoint, dir string) {
	endpoint = "/" + strings.Trim(endpoint, "/")
	fs := http.StripPrefix(endpoint, http.FileServer(http.Dir(dir)))
	r.Get(endpoint+"/*", func(w http.ResponseWriter, req *http.Request) {
		if strings.HasSuffix(req.URL.Path, "/") {
			http.NotFound(w, req)
			return
		}
		fs.ServeHTTP(w, req)
	})
}
