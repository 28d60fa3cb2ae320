// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/oblog/internal/testutil"
)

func TestEventBusOrder(t *testing.T) {
	bus := NewEventBus(testutil.TestLoggerSilent())
	var calls []string
	record := func(name string) EventHandler {
		return func(context.Context, Event) error {
			calls = append(calls, name)
			return nil
		}
	}

	bus.Register(BlogPostCreated, "first", record("first"))
	bus.Register(BlogPostCreated, "second", record("second"))
	bus.Register(PageCreated, "other", record("other"))

	require.NoError(t, bus.Publish(context.Background(), Event{Kind: BlogPostCreated}))
	assert.Equal(t, []string{"first", "second"}, calls)
	assert.Equal(t, 2, bus.HandlerCount(BlogPostCreated))
	assert.Zero(t, bus.HandlerCount(TagDeleted))
}

func TestEventBusBeforeEventAborts(t *testing.T) {
	bus := NewEventBus(testutil.TestLoggerSilent())
	veto := errors.New("nope")
	ran := false

	bus.Register(BlogPostBeforeCreate, "veto", func(context.Context, Event) error { return veto })
	bus.Register(BlogPostBeforeCreate, "after", func(context.Context, Event) error {
		ran = true
		return nil
	})

	err := bus.Publish(context.Background(), Event{Kind: BlogPostBeforeCreate})
	require.ErrorIs(t, err, veto)
	assert.Equal(t, "event blog_post.before_create handler veto: nope", err.Error())
	assert.False(t, ran)
}

func TestEventBusAfterEventContinues(t *testing.T) {
	bus := NewEventBus(testutil.TestLoggerSilent())
	ran := false

	bus.Register(BlogPostDeleted, "broken", func(context.Context, Event) error { return errors.New("boom") })
	bus.Register(BlogPostDeleted, "next", func(context.Context, Event) error {
		ran = true
		return nil
	})

	assert.NoError(t, bus.Publish(context.Background(), Event{Kind: BlogPostDeleted}))
	assert.True(t, ran)
}

func TestEventKindIsBefore(t *testing.T) {
	assert.True(t, BlogPostBeforeCreate.IsBefore())
	assert.True(t, BlogPostBeforeUpdate.IsBefore())
	assert.False(t, BlogPostCreated.IsBefore())
	assert.False(t, PageDeleted.IsBefore())
}
