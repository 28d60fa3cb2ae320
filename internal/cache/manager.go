// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"log/slog"
)

// Info describes the active cache backend.
type Info struct {
	Backend string `json:"backend"`
	Stats   Stats  `json:"stats"`
}

// Manager owns the process-wide cache instance and exposes admin operations.
type Manager struct {
	cache   Cache
	backend string
	logger  *slog.Logger
}

// NewManager creates a cache from cfg and wraps it in a Manager.
func NewManager(cfg Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	c, backend := NewCache(cfg, logger)
	return &Manager{cache: c, backend: backend, logger: logger}
}

// NewManagerFor wraps an existing cache. Used by tests and by callers that build the backend themselves.
func NewManagerFor(c Cache, backend string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{cache: c, backend: backend, logger: logger}
}

// Cache returns the underlying cache to hand to services.
func (m *Manager) Cache() Cache {
	return m.cache
}

// Backend returns "memory" or "redis".
func (m *Manager) Backend() string {
	return m.backend
}

// Stats returns backend statistics, zero-valued if the backend does not track them.
func (m *Manager) Stats() Stats {
	if sp, ok := m.cache.(StatsProvider); ok {
		return sp.Stats()
	}
	return Stats{}
}

// Info returns backend name and statistics.
func (m *Manager) Info() Info {
	return Info{Backend: m.backend, Stats: m.Stats()}
}

// ClearAll drops every cached entry and resets statistics.
func (m *Manager) ClearAll(ctx context.Context) error {
	if err := m.cache.Clear(ctx); err != nil {
		return err
	}
	if sp, ok := m.cache.(StatsProvider); ok {
		sp.ResetStats()
	}
	m.logger.Info("cache cleared", "backend", m.backend)
	return nil
}

// Close releases the backend.
func (m *Manager) Close() error {
	return m.cache.Close()
}
