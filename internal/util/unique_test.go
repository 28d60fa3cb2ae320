// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"context"
	"errors"
	"testing"
)

func TestResolveUniqueSlug(t *testing.T) {
	tests := []struct {
		name      string
		existing  map[string]int64
		candidate string
		maxLen    int
		selfID    int64
		want      string
	}{
		{
			name:      "free slug",
			existing:  map[string]int64{},
			candidate: "a-blog-post-title",
			want:      "a-blog-post-title",
		},
		{
			name:      "one collision",
			existing:  map[string]int64{"a-blog-post-title": 1},
			candidate: "a-blog-post-title",
			want:      "a-blog-post-title-2",
		},
		{
			name:      "two collisions",
			existing:  map[string]int64{"a-blog-post-title": 1, "a-blog-post-title-2": 2},
			candidate: "a-blog-post-title",
			want:      "a-blog-post-title-3",
		},
		{
			name:      "self owns slug",
			existing:  map[string]int64{"a-blog-post-title": 7},
			candidate: "a-blog-post-title",
			selfID:    7,
			want:      "a-blog-post-title",
		},
		{
			name:      "self owns suffixed slug",
			existing:  map[string]int64{"a-blog-post-title": 1, "a-blog-post-title-2": 7},
			candidate: "a-blog-post-title",
			selfID:    7,
			want:      "a-blog-post-title-2",
		},
		{
			name:      "suffix stays within bound",
			existing:  map[string]int64{"abcdefghijklmnopqrstuvw": 1},
			candidate: "abcdefghijklmnopqrstuvw",
			maxLen:    24,
			want:      "abcdefghijklmnopqrstuv-2",
		},
		{
			name:      "bounded cut drops trailing hyphen",
			existing:  map[string]int64{"abcdefghijklmnopqrstu-wx": 1},
			candidate: "abcdefghijklmnopqrstu-wx",
			maxLen:    24,
			want:      "abcdefghijklmnopqrstu-2",
		},
		{
			name:      "case-insensitive collision",
			existing:  map[string]int64{"Technology": 3},
			candidate: "technology",
			want:      "technology-2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveUniqueSlug(context.Background(), tt.candidate, tt.maxLen, tt.selfID, SlugSetLookup(tt.existing))
			if err != nil {
				t.Fatalf("ResolveUniqueSlug() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveUniqueSlug() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveUniqueSlugExhausted(t *testing.T) {
	calls := 0
	alwaysTaken := func(context.Context, string) (int64, bool, error) {
		calls++
		return 1, true, nil
	}

	_, err := ResolveUniqueSlug(context.Background(), "busy", 0, 0, alwaysTaken)
	if !errors.Is(err, ErrSlugAttemptsExhausted) {
		t.Fatalf("expected ErrSlugAttemptsExhausted, got %v", err)
	}
	if calls != MaxSlugAttempts {
		t.Errorf("lookup called %d times, want %d", calls, MaxSlugAttempts)
	}
}

func TestResolveUniqueSlugLookupError(t *testing.T) {
	boom := errors.New("db down")
	failing := func(context.Context, string) (int64, bool, error) {
		return 0, false, boom
	}

	_, err := ResolveUniqueSlug(context.Background(), "post", 0, 0, failing)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped lookup error, got %v", err)
	}
}

func TestUniquefySlug(t *testing.T) {
	tests := []struct {
		base    string
		counter int
		maxLen  int
		want    string
	}{
		{"hello", 2, 0, "hello-2"},
		{"hello", 2, 24, "hello-2"},
		{"abcdefghij", 10, 10, "abcdefg-10"},
		{"abc%E4%BD%A0", 2, 10, "abc%E4-2"},
		{"abc%E4%BD%A0", 2, 9, "abc%E4-2"},
		{"abc%E4%BD%A0", 2, 7, "abc-2"},
	}
	for _, tt := range tests {
		if got := UniquefySlug(tt.base, tt.counter, tt.maxLen); got != tt.want {
			t.Errorf("UniquefySlug(%q, %d, %d) = %q, want %q", tt.base, tt.counter, tt.maxLen, got, tt.want)
		}
		if tt.maxLen > 0 && len(UniquefySlug(tt.base, tt.counter, tt.maxLen)) > tt.maxLen {
			t.Errorf("UniquefySlug(%q, %d, %d) exceeds bound", tt.base, tt.counter, tt.maxLen)
		}
	}
}
