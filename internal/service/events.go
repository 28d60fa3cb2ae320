// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the blog's business logic: posts, pages,
// categories, tags, images and settings, plus the audit event log.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/util"
)

// EventService records audit events in the events table.
type EventService struct {
	queries *store.Queries
	logger  *slog.Logger
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB, logger *slog.Logger) *EventService {
	return &EventService{
		queries: store.New(db),
		logger:  logger,
	}
}

// LogEvent creates a new event log entry.
func (s *EventService) LogEvent(ctx context.Context, level, category, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	metadataJSON := "{}"
	if metadata != nil {
		jsonBytes, err := json.Marshal(metadata)
		if err == nil {
			metadataJSON = string(jsonBytes)
		}
	}

	_, err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		UserID:    util.NullInt64FromPtr(userID),
		Metadata:  metadataJSON,
		IpAddress: ipAddress,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error("failed to log event", "error", err, "category", category)
		return err
	}

	return nil
}

// LogInfo logs an info-level event.
func (s *EventService) LogInfo(ctx context.Context, category, message string, userID *int64, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelInfo, category, message, userID, "", metadata)
}

// LogWarning logs a warning-level event.
func (s *EventService) LogWarning(ctx context.Context, category, message string, userID *int64, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelWarning, category, message, userID, "", metadata)
}

// LogError logs an error-level event.
func (s *EventService) LogError(ctx context.Context, category, message string, userID *int64, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelError, category, message, userID, "", metadata)
}

// DeleteOldEvents removes events older than the specified duration and
// returns how many were removed.
func (s *EventService) DeleteOldEvents(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	return s.queries.DeleteOldEvents(ctx, cutoff)
}

// Page sizes for List.
const (
	DefaultEventsPerPage = 50
	MaxEventsPerPage     = 100
)

// List returns a page of events, newest first, and the total event count.
func (s *EventService) List(ctx context.Context, pageIndex, pageSize int) ([]model.Event, int64, error) {
	pageIndex, pageSize = normalizePaging(pageIndex, pageSize, DefaultEventsPerPage)
	if pageSize > MaxEventsPerPage {
		pageSize = MaxEventsPerPage
	}

	total, err := s.queries.CountEvents(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("counting events: %w", err)
	}
	rows, err := s.queries.ListEvents(ctx, int64(pageSize), int64((pageIndex-1)*pageSize))
	if err != nil {
		return nil, 0, fmt.Errorf("listing events: %w", err)
	}

	events := make([]model.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, eventFromRow(row))
	}
	return events, total, nil
}

func eventFromRow(row store.Event) model.Event {
	ev := model.Event{
		ID:        row.ID,
		Level:     row.Level,
		Category:  row.Category,
		Message:   row.Message,
		UserID:    util.Int64PtrFromNull(row.UserID),
		IPAddress: row.IpAddress,
		CreatedAt: row.CreatedAt,
	}
	if row.Metadata != "" && row.Metadata != "{}" {
		_ = json.Unmarshal([]byte(row.Metadata), &ev.Metadata)
	}
	return ev
}

// RegisterAuditHandlers records post, page and taxonomy mutations published on bus.
func (s *EventService) RegisterAuditHandlers(bus *EventBus) {
	audit := func(category, message string) EventHandler {
		return func(ctx context.Context, ev Event) error {
			var userID *int64
			if ev.UserID > 0 {
				userID = &ev.UserID
			}
			return s.LogInfo(ctx, category, message, userID, map[string]any{"id": ev.ID})
		}
	}

	bus.Register(BlogPostCreated, "audit", audit(model.EventCategoryPost, "Blog post created"))
	bus.Register(BlogPostUpdated, "audit", audit(model.EventCategoryPost, "Blog post updated"))
	bus.Register(BlogPostDeleted, "audit", audit(model.EventCategoryPost, "Blog post deleted"))
	bus.Register(PageCreated, "audit", audit(model.EventCategoryPage, "Page created"))
	bus.Register(PageUpdated, "audit", audit(model.EventCategoryPage, "Page updated"))
	bus.Register(PageDeleted, "audit", audit(model.EventCategoryPage, "Page deleted"))
	bus.Register(CategoryDeleted, "audit", audit(model.EventCategoryTaxonomy, "Category deleted"))
	bus.Register(TagDeleted, "audit", audit(model.EventCategoryTaxonomy, "Tag deleted"))
}
