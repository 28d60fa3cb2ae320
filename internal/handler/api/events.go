// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net"
	"net/http"

	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/service"
)

// ListEvents handles GET /api/v1/events
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	page := parsePageParam(r)
	perPage := parseIntParam(r, "per_page", service.DefaultEventsPerPage, 1, service.MaxEventsPerPage)

	events, total, err := h.svc.Events.List(r.Context(), page, perPage)
	if err != nil {
		h.fail(w, err)
		return
	}
	WriteSuccess(w, events, &Meta{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   totalPages(total, perPage),
	})
}

// audit records an administrative action in the event log. Failures are
// logged by the event service and do not fail the request.
func (h *Handler) audit(ctx context.Context, r *http.Request, category, message string, metadata map[string]any) {
	_ = h.svc.Events.LogEvent(ctx, model.EventLevelInfo, category, message, nil, requestIP(r), metadata)
}

func requestIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
