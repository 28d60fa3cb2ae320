// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON REST API of the blog: posts, pages,
// categories, tags, media, cache administration and settings.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/oblog/internal/cache"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/service"
)

// maxJSONBody bounds request bodies decoded as JSON.
const maxJSONBody = 1 << 20

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	svc    *service.Services
	caches *cache.Manager
	jobs   JobRunner
	logger *slog.Logger
}

// NewHandler creates a new API handler. jobs may be nil, in which case the
// scheduler endpoints are not mounted.
func NewHandler(svc *service.Services, caches *cache.Manager, jobs JobRunner, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		svc:    svc,
		caches: caches,
		jobs:   jobs,
		logger: logger,
	}
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains pagination and other metadata.
type Meta struct {
	Total   int64 `json:"total,omitempty"`
	Page    int   `json:"page,omitempty"`
	PerPage int   `json:"per_page,omitempty"`
	Pages   int   `json:"pages,omitempty"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	resp := Response{
		Data: data,
		Meta: meta,
	}
	WriteJSON(w, http.StatusOK, resp)
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	resp := Response{
		Data: data,
	}
	WriteJSON(w, http.StatusCreated, resp)
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	resp := ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
	WriteJSON(w, statusCode, resp)
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteValidationError writes a 422 Unprocessable Entity response with field errors.
func WriteValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	WriteError(w, http.StatusUnprocessableEntity, "validation_error", "Validation failed", fieldErrors)
}

// WriteServiceError maps a service error onto a response. Business errors
// keep their message; anything else is logged and answered with a generic 500.
func WriteServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var se *service.Error
	if !errors.As(err, &se) {
		if logger != nil {
			logger.Error("api request failed", "error", err)
		}
		WriteInternalError(w, "Internal server error")
		return
	}

	switch se.Kind {
	case service.KindValidation:
		WriteError(w, http.StatusUnprocessableEntity, "validation_error", se.Error(), se.Details)
	case service.KindNotFound:
		WriteNotFound(w, se.Error())
	case service.KindConflict:
		WriteError(w, http.StatusConflict, "conflict", se.Error(), nil)
	case service.KindDuplicate:
		WriteError(w, http.StatusConflict, "duplicate", se.Error(), nil)
	default:
		if logger != nil {
			logger.Error("api request failed", "error", err)
		}
		WriteInternalError(w, "Internal server error")
	}
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	WriteServiceError(w, h.logger, err)
}

// StatusResponse contains API status information.
type StatusResponse struct {
	Status         string `json:"status"`
	Version        string `json:"version"`
	CacheBackend   string `json:"cache_backend,omitempty"`
	PublishedPosts int64  `json:"published_posts"`
}

// Status returns the API status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.Posts.CountPublished(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	resp := StatusResponse{
		Status:         "ok",
		Version:        "v1",
		PublishedPosts: count,
	}
	if h.caches != nil {
		resp.CacheBackend = h.caches.Backend()
	}
	WriteSuccess(w, resp, nil)
}

// decodeJSON decodes a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return false
	}
	return true
}

// parseIDParam parses the {id} URL parameter.
func parseIDParam(w http.ResponseWriter, r *http.Request, entityName string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		WriteBadRequest(w, fmt.Sprintf("Invalid %s ID", entityName), nil)
		return 0, false
	}
	return id, true
}

// parseIntParam parses an integer query parameter.
// Returns defaultVal if the parameter is missing, invalid or below minVal.
// If maxVal > 0, values above maxVal are clamped to it.
func parseIntParam(r *http.Request, param string, defaultVal, minVal, maxVal int) int {
	str := r.URL.Query().Get(param)
	if str == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(str)
	if err != nil || val < minVal {
		return defaultVal
	}
	if maxVal > 0 && val > maxVal {
		return maxVal
	}
	return val
}

// parsePageParam parses the 1-based "page" query parameter.
func parsePageParam(r *http.Request) int {
	return parseIntParam(r, "page", 1, 1, 0)
}

// parsePerPageParam parses "per_page"; 0 lets the service pick its default.
func parsePerPageParam(r *http.Request, maxPerPage int) int {
	return parseIntParam(r, "per_page", 0, 1, maxPerPage)
}

// listMeta builds pagination metadata for a post list.
func listMeta(list *model.PostList) *Meta {
	return &Meta{
		Total:   list.TotalCount,
		Page:    list.PageIndex,
		PerPage: list.PageSize,
		Pages:   list.TotalPages(),
	}
}

// totalPages returns the number of pages needed for total items.
func totalPages(total int64, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
