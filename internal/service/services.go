// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"database/sql"
	"log/slog"

	"github.com/olegiv/oblog/internal/cache"
	"github.com/olegiv/oblog/internal/imaging"
	"github.com/olegiv/oblog/internal/storage"
)

// Services groups the blog services sharing one database, cache and event bus.
type Services struct {
	Bus        *EventBus
	Events     *EventService
	Settings   *SettingService
	Categories *CategoryService
	Tags       *TagService
	Images     *ImageService
	Posts      *BlogPostService
	Pages      *PageService
}

// New wires all services and registers the event handlers: category and
// tag creation ahead of post saves, then the audit log.
func New(db *sql.DB, c cache.Cache, provider storage.Provider, processor *imaging.Processor, logger *slog.Logger) *Services {
	bus := NewEventBus(logger)
	settings := NewSettingService(db, c, logger)
	categories := NewCategoryService(db, c, settings, bus, logger)
	tags := NewTagService(db, c, bus, logger)
	images := NewImageService(db, provider, processor, logger)
	events := NewEventService(db, logger)

	categories.RegisterHandlers(bus)
	tags.RegisterHandlers(bus)
	events.RegisterAuditHandlers(bus)

	return &Services{
		Bus:        bus,
		Events:     events,
		Settings:   settings,
		Categories: categories,
		Tags:       tags,
		Images:     images,
		Posts:      NewBlogPostService(db, c, settings, categories, tags, images, bus, logger),
		Pages:      NewPageService(db, c, bus, logger),
	}
}
