// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/olegiv/oblog/internal/model"
)

// EventKind names a notification published by the entity services.
type EventKind string

// Notifications. Before-events run ahead of persistence and may veto it;
// the rest are informational.
const (
	BlogPostBeforeCreate EventKind = "blog_post.before_create"
	BlogPostBeforeUpdate EventKind = "blog_post.before_update"
	BlogPostCreated      EventKind = "blog_post.created"
	BlogPostUpdated      EventKind = "blog_post.updated"
	BlogPostDeleted      EventKind = "blog_post.deleted"
	PageCreated          EventKind = "page.created"
	PageUpdated          EventKind = "page.updated"
	PageDeleted          EventKind = "page.deleted"
	CategoryDeleted      EventKind = "category.deleted"
	TagDeleted           EventKind = "tag.deleted"
)

// IsBefore reports whether handler errors for this kind abort the mutation.
func (k EventKind) IsBefore() bool {
	return k == BlogPostBeforeCreate || k == BlogPostBeforeUpdate
}

// Event is the payload handed to bus handlers. Only the fields relevant to
// Kind are set.
type Event struct {
	Kind          EventKind
	ID            int64
	CategoryTitle string
	TagTitles     []string
	// CurrentTags are the tags attached to the post before an update.
	CurrentTags []model.Tag
	Post        *model.BlogPost
	Page        *model.Page
	UserID      int64
}

// EventHandler consumes one event.
type EventHandler func(ctx context.Context, ev Event) error

type registeredHandler struct {
	name string
	fn   EventHandler
}

// EventBus dispatches events synchronously to an explicit list of handlers,
// in registration order.
type EventBus struct {
	handlers map[EventKind][]registeredHandler
	logger   *slog.Logger
	mu       sync.RWMutex
}

// NewEventBus creates an empty bus.
func NewEventBus(logger *slog.Logger) *EventBus {
	return &EventBus{
		handlers: make(map[EventKind][]registeredHandler),
		logger:   logger,
	}
}

// Register appends a handler for kind.
func (b *EventBus) Register(kind EventKind, name string, fn EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[kind] = append(b.handlers[kind], registeredHandler{name: name, fn: fn})
	b.logger.Debug("event handler registered", "event", kind, "handler", name)
}

// HandlerCount returns the number of handlers registered for kind.
func (b *EventBus) HandlerCount(kind EventKind) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[kind])
}

// Publish runs the handlers for ev.Kind. For before-events the first error
// stops dispatch and is returned. For other events errors are logged and
// the remaining handlers still run; Publish then returns nil.
func (b *EventBus) Publish(ctx context.Context, ev Event) error {
	b.mu.RLock()
	handlers := b.handlers[ev.Kind]
	b.mu.RUnlock()

	for _, h := range handlers {
		err := h.fn(ctx, ev)
		if err == nil {
			continue
		}
		if ev.Kind.IsBefore() {
			return fmt.Errorf("event %s handler %s: %w", ev.Kind, h.name, err)
		}
		b.logger.Warn("event handler failed",
			"event", ev.Kind,
			"handler", h.name,
			"error", err,
		)
	}
	return nil
}
