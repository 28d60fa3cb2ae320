// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/olegiv/oblog/internal/cache"
)

// Maintenance job names and schedules.
const (
	JobPruneEvents = "prune_events"
	JobCacheStats  = "cache_stats"

	PruneEventsSchedule = "@daily"
	CacheStatsSchedule  = "@every 10m"
)

// EventPruner deletes audit events older than a duration.
type EventPruner interface {
	DeleteOldEvents(ctx context.Context, olderThan time.Duration) (int64, error)
}

// CacheInfo reports the active cache backend and its statistics.
type CacheInfo interface {
	Info() cache.Info
}

// RegisterMaintenanceJobs adds the event log pruning and cache statistics jobs.
func RegisterMaintenanceJobs(s *Scheduler, events EventPruner, retention time.Duration, caches CacheInfo) error {
	err := s.AddJob(JobPruneEvents, "Delete audit events past the retention period", PruneEventsSchedule,
		func(ctx context.Context) error {
			n, err := events.DeleteOldEvents(ctx, retention)
			if err != nil {
				return err
			}
			if n > 0 {
				s.logger.Info("pruned old events", "deleted", n, "retention", retention)
			}
			return nil
		})
	if err != nil {
		return err
	}

	return s.AddJob(JobCacheStats, "Log cache hit statistics", CacheStatsSchedule,
		func(context.Context) error {
			info := caches.Info()
			s.logger.Info("cache stats",
				slog.String("backend", info.Backend),
				slog.Int64("hits", info.Stats.Hits),
				slog.Int64("misses", info.Stats.Misses),
				slog.Int("items", info.Stats.Items),
				slog.Float64("hit_rate", info.Stats.HitRate),
			)
			return nil
		})
}
