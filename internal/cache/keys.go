// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Fixed cache keys. Everything a mutation can make stale is listed here or
// built by one of the key formatters below.
const (
	KeyPostsIndex    = "posts:index:1"
	KeyPostsRecent   = "posts:recent"
	KeyAllCategories = "categories:all"
	KeyAllTags       = "tags:all"
	KeyAllArchives   = "posts:archives"
	KeyPostCount     = "posts:count"
	KeyBlogSettings  = "settings:blog"

	postKeyPrefix = "post:"
	pageKeyPrefix = "page:"
)

// Expiration windows per resource kind.
const (
	TTLPostsIndex    = 10 * time.Minute
	TTLPostsRecent   = 5 * time.Minute
	TTLAllCategories = 24 * time.Hour
	TTLAllTags       = 24 * time.Hour
	TTLAllArchives   = 24 * time.Hour
	TTLPostCount     = time.Hour
	TTLSinglePost    = time.Hour
	TTLParentPage    = time.Hour
	TTLChildPage     = time.Hour
	TTLBlogSettings  = 24 * time.Hour
)

// aggregateKeys is the invalidation set: cached lists and counts derived from many entities.
var aggregateKeys = [...]string{
	KeyPostsIndex,
	KeyPostsRecent,
	KeyAllCategories,
	KeyAllTags,
	KeyAllArchives,
	KeyPostCount,
}

// AggregateKeys returns a copy of the invalidation set.
func AggregateKeys() []string {
	keys := make([]string, len(aggregateKeys))
	copy(keys, aggregateKeys[:])
	return keys
}

// PostKey is the detail key of a blog post, unique per slug and creation day.
func PostKey(slug string, createdOn time.Time) string {
	return fmt.Sprintf("%s%s:%04d-%02d-%02d", postKeyPrefix, slug, createdOn.Year(), createdOn.Month(), createdOn.Day())
}

// PageKey is the detail key of a page; childSlug is empty for top-level pages.
func PageKey(parentSlug, childSlug string) string {
	if childSlug == "" {
		return pageKeyPrefix + parentSlug
	}
	return pageKeyPrefix + parentSlug + "/" + childSlug
}

// PageFamilyPrefix matches a parent page key and the keys of all its children.
func PageFamilyPrefix(parentSlug string) string {
	return pageKeyPrefix + parentSlug
}

// InvalidateAggregates removes every key of the invalidation set. All keys are
// attempted; failures are joined into the returned error.
func InvalidateAggregates(ctx context.Context, c Cache) error {
	var errs []error
	for _, key := range aggregateKeys {
		if err := c.Delete(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// InvalidatePageFamily removes the cached parent page and its children. Backends
// without prefix deletion only lose the parent key; child entries then expire by TTL.
func InvalidatePageFamily(ctx context.Context, c Cache, parentSlug string) error {
	if parentSlug == "" {
		return nil
	}
	if pd, ok := c.(PrefixDeleter); ok {
		// "page:about" would also match "page:about-us"; the trailing slash pins children
		if err := pd.DeleteByPrefix(ctx, PageFamilyPrefix(parentSlug)+"/"); err != nil {
			return err
		}
	}
	return c.Delete(ctx, PageKey(parentSlug, ""))
}

// InvalidatePostDetails removes every cached single post. It is used when a
// category or tag embedded in many posts changes. Backends without prefix
// deletion keep the entries until TTLSinglePost expires.
func InvalidatePostDetails(ctx context.Context, c Cache) error {
	if pd, ok := c.(PrefixDeleter); ok {
		return pd.DeleteByPrefix(ctx, postKeyPrefix)
	}
	return nil
}
