// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"

	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/service"
)

// maxUploadMemory is the multipart memory budget; larger parts spill to disk.
const maxUploadMemory = model.MaxImageFileSize + 1<<20

// MediaResponse represents an uploaded image in API responses.
type MediaResponse struct {
	model.Media
	URL    string `json:"url"`
	Srcset string `json:"srcset,omitempty"`
}

func (h *Handler) mediaResponse(m model.Media) MediaResponse {
	return MediaResponse{
		Media:  m,
		URL:    h.svc.Images.GetAbsoluteURL(m, model.ImageSizeOriginal),
		Srcset: h.svc.Images.Srcset(m),
	}
}

// ListMedia handles GET /api/v1/media
// Returns blog images, newest first.
func (h *Handler) ListMedia(w http.ResponseWriter, r *http.Request) {
	page := parsePageParam(r)
	perPage := parseIntParam(r, "per_page", 20, 1, service.MaxMediaPerPage)

	items, total, err := h.svc.Images.List(r.Context(), page, perPage)
	if err != nil {
		h.fail(w, err)
		return
	}

	responses := make([]MediaResponse, 0, len(items))
	for _, m := range items {
		responses = append(responses, h.mediaResponse(m))
	}

	WriteSuccess(w, responses, &Meta{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   totalPages(total, perPage),
	})
}

// GetMedia handles GET /api/v1/media/{id}
func (h *Handler) GetMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "media")
	if !ok {
		return
	}
	m, err := h.svc.Images.Get(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	WriteSuccess(w, h.mediaResponse(*m), nil)
}

// UploadMedia handles POST /api/v1/media
// Accepts multipart/form-data with the image in the "file" field and
// optional "user_id" and "uploaded_from" fields.
func (h *Handler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadMemory+1<<20)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		WriteBadRequest(w, "Failed to parse multipart form", nil)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteBadRequest(w, "No file provided. Use the 'file' field", nil)
		return
	}
	defer func() { _ = file.Close() }()

	var userID int64
	if raw := r.FormValue("user_id"); raw != "" {
		if userID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			WriteBadRequest(w, "Invalid user ID", nil)
			return
		}
	}

	m, err := h.svc.Images.Upload(r.Context(), file, userID, header.Filename,
		header.Header.Get("Content-Type"), r.FormValue("uploaded_from"))
	if err != nil {
		h.fail(w, err)
		return
	}
	WriteCreated(w, h.mediaResponse(*m))
}

// DeleteMedia handles DELETE /api/v1/media/{id}
// Removes the record and every stored size of the image.
func (h *Handler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "media")
	if !ok {
		return
	}
	if err := h.svc.Images.Delete(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
