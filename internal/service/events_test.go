// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/testutil"
)

func TestLogEvent(t *testing.T) {
	db := testutil.TestMemoryDB(t)
	svc := NewEventService(db, testutil.TestLoggerSilent())
	ctx := context.Background()

	userID := int64(123)
	err := svc.LogEvent(ctx, model.EventLevelInfo, model.EventCategoryPost, "Test message", &userID, "192.168.1.100", map[string]any{
		"key": "value",
	})
	require.NoError(t, err)

	events, err := store.New(db).ListEvents(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, model.EventLevelInfo, ev.Level)
	assert.Equal(t, model.EventCategoryPost, ev.Category)
	assert.Equal(t, "Test message", ev.Message)
	assert.True(t, ev.UserID.Valid)
	assert.Equal(t, int64(123), ev.UserID.Int64)
	assert.Equal(t, "192.168.1.100", ev.IpAddress)
	assert.JSONEq(t, `{"key":"value"}`, ev.Metadata)
}

func TestLogEventLevels(t *testing.T) {
	db := testutil.TestMemoryDB(t)
	svc := NewEventService(db, testutil.TestLoggerSilent())
	ctx := context.Background()

	require.NoError(t, svc.LogInfo(ctx, model.EventCategorySystem, "info", nil, nil))
	require.NoError(t, svc.LogWarning(ctx, model.EventCategoryCache, "warning", nil, nil))
	require.NoError(t, svc.LogError(ctx, model.EventCategoryMedia, "error", nil, nil))

	events, err := store.New(db).ListEvents(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, events, 3)

	levels := map[string]string{}
	for _, ev := range events {
		levels[ev.Message] = ev.Level
		assert.False(t, ev.UserID.Valid)
		assert.Equal(t, "{}", ev.Metadata)
	}
	assert.Equal(t, model.EventLevelInfo, levels["info"])
	assert.Equal(t, model.EventLevelWarning, levels["warning"])
	assert.Equal(t, model.EventLevelError, levels["error"])
}

func TestDeleteOldEvents(t *testing.T) {
	db := testutil.TestMemoryDB(t)
	svc := NewEventService(db, testutil.TestLoggerSilent())
	ctx := context.Background()
	q := store.New(db)

	_, err := q.CreateEvent(ctx, store.CreateEventParams{
		Level:     model.EventLevelInfo,
		Category:  model.EventCategorySystem,
		Message:   "old",
		Metadata:  "{}",
		CreatedAt: time.Now().UTC().AddDate(0, 0, -40),
	})
	require.NoError(t, err)
	require.NoError(t, svc.LogInfo(ctx, model.EventCategorySystem, "new", nil, nil))

	deleted, err := svc.DeleteOldEvents(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	count, err := q.CountEvents(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestAuditHandlers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	q := store.New(f.db)

	before, err := q.CountEvents(ctx)
	require.NoError(t, err)

	post := f.createPost(t, "Audited", model.StatusPublished)
	require.NoError(t, f.svc.Posts.Delete(ctx, post.ID))
	f.createPage(t, "Audited page", 0, model.StatusDraft)

	events, err := q.ListEvents(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, events, int(before)+3)

	messages := make([]string, 0, len(events))
	for _, ev := range events {
		messages = append(messages, ev.Message)
	}
	assert.Contains(t, messages, "Blog post created")
	assert.Contains(t, messages, "Blog post deleted")
	assert.Contains(t, messages, "Page created")
}

func TestListEvents(t *testing.T) {
	db := testutil.TestMemoryDB(t)
	svc := NewEventService(db, testutil.TestLoggerSilent())
	ctx := context.Background()

	_, before, err := svc.List(ctx, 1, 0)
	require.NoError(t, err)

	userID := int64(7)
	require.NoError(t, svc.LogInfo(ctx, model.EventCategoryPost, "first", &userID, map[string]any{"id": 1}))
	require.NoError(t, svc.LogWarning(ctx, model.EventCategoryCache, "second", nil, nil))

	events, total, err := svc.List(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, before+2, total)
	require.Len(t, events, 1)
	assert.Equal(t, "second", events[0].Message)
	assert.Equal(t, model.EventLevelWarning, events[0].Level)
	assert.Nil(t, events[0].UserID)
	assert.Empty(t, events[0].Metadata)

	events, _, err = svc.List(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "first", events[0].Message)
	require.NotNil(t, events[0].UserID)
	assert.EqualValues(t, 7, *events[0].UserID)
	assert.EqualValues(t, 1, events[0].Metadata["id"])
}
