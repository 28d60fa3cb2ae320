// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"time"
)

// GetOrPopulate is the cache-aside read path. A hit is decoded and returned
// without calling populate. On a miss (or an undecodable or unreachable
// entry) populate runs, its result is stored under key with ttl and returned.
//
// Concurrent misses may both run populate; the last write wins. Failing to
// store the populated value does not fail the read.
func GetOrPopulate[T any](ctx context.Context, c Cache, key string, ttl time.Duration, populate func(context.Context) (T, error)) (T, error) {
	if data, err := c.Get(ctx, key); err == nil {
		var value T
		if err := json.Unmarshal(data, &value); err == nil {
			return value, nil
		}
	}

	value, err := populate(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if data, err := json.Marshal(value); err == nil {
		_ = c.Set(ctx, key, data, ttl)
	}

	return value, nil
}

// TypedCache provides type-safe caching operations using generics.
// It wraps a Cache implementation and handles JSON serialization/deserialization.
type TypedCache[T any] struct {
	cache      Cache
	defaultTTL time.Duration
}

// NewTypedCache creates a new TypedCache wrapping the given cache implementation.
func NewTypedCache[T any](cache Cache, defaultTTL time.Duration) *TypedCache[T] {
	return &TypedCache[T]{
		cache:      cache,
		defaultTTL: defaultTTL,
	}
}

// Set stores a value in the cache with the default TTL.
func (c *TypedCache[T]) Set(ctx context.Context, key string, value *T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.cache.Set(ctx, key, data, c.defaultTTL)
}

// Delete removes a key from the cache.
func (c *TypedCache[T]) Delete(ctx context.Context, key string) error {
	return c.cache.Delete(ctx, key)
}

// GetOrSet retrieves a value from cache, or calls fn to compute and store it
// with the default TTL.
func (c *TypedCache[T]) GetOrSet(ctx context.Context, key string, fn func(context.Context) (T, error)) (T, error) {
	return GetOrPopulate(ctx, c.cache, key, c.defaultTTL, fn)
}
