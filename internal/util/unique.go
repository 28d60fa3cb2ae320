// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxSlugAttempts caps how many suffixed candidates ResolveUniqueSlug tries.
const MaxSlugAttempts = 1000

// ErrSlugAttemptsExhausted is returned when no free slug was found within MaxSlugAttempts.
var ErrSlugAttemptsExhausted = errors.New("unique slug attempts exhausted")

// SlugLookup reports whether slug is taken within the caller's scope and,
// if so, the id of the entity that owns it.
type SlugLookup func(ctx context.Context, slug string) (ownerID int64, found bool, err error)

// UniquefySlug returns base with a numeric counter suffix. When maxLen > 0
// the base is shortened so that the result fits in maxLen bytes; a cut
// never leaves a trailing hyphen or a partial percent-escape.
func UniquefySlug(base string, counter, maxLen int) string {
	suffix := "-" + strconv.Itoa(counter)
	if maxLen > 0 && len(base)+len(suffix) > maxLen {
		base = base[:max(maxLen-len(suffix), 0)]
		if i := strings.LastIndexByte(base, '%'); i >= 0 && i >= len(base)-2 {
			base = base[:i]
		}
		base = strings.TrimRight(base, "-")
	}
	return base + suffix
}

// ResolveUniqueSlug probes lookup with candidate, then candidate-2, candidate-3 and so
// on until a slug is free or already owned by selfID. Suffixed candidates stay
// within maxLen (0 = unbounded). Pass selfID 0 for new entities.
func ResolveUniqueSlug(ctx context.Context, candidate string, maxLen int, selfID int64, lookup SlugLookup) (string, error) {
	slug := candidate
	for counter := 2; counter < MaxSlugAttempts+2; counter++ {
		ownerID, found, err := lookup(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("checking slug %q: %w", slug, err)
		}
		if !found || (selfID != 0 && ownerID == selfID) {
			return slug, nil
		}
		slug = UniquefySlug(candidate, counter, maxLen)
	}
	return "", fmt.Errorf("%w: %q", ErrSlugAttemptsExhausted, candidate)
}

// SlugSetLookup builds a case-insensitive lookup over an in-memory list of slugs
// owned by ids. Entries with an empty slug are ignored.
func SlugSetLookup(owners map[string]int64) SlugLookup {
	index := make(map[string]int64, len(owners))
	for slug, id := range owners {
		if slug == "" {
			continue
		}
		index[strings.ToLower(slug)] = id
	}
	return func(_ context.Context, slug string) (int64, bool, error) {
		id, ok := index[strings.ToLower(slug)]
		return id, ok, nil
	}
}
