// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{
			name:     "simple title",
			input:    "Hello World",
			maxLen:   PostSlugMaxLen,
			expected: "hello-world",
		},
		{
			name:     "with special characters",
			input:    "Hello, World!",
			maxLen:   PostSlugMaxLen,
			expected: "hello-world",
		},
		{
			name:     "with numbers",
			input:    "Page 123",
			maxLen:   PostSlugMaxLen,
			expected: "page-123",
		},
		{
			name:     "with accents",
			input:    "Café résumé",
			maxLen:   PostSlugMaxLen,
			expected: "cafe-resume",
		},
		{
			name:     "with multiple spaces",
			input:    "Hello   World",
			maxLen:   PostSlugMaxLen,
			expected: "hello-world",
		},
		{
			name:     "with hyphens",
			input:    "Hello - World",
			maxLen:   PostSlugMaxLen,
			expected: "hello-world",
		},
		{
			name:     "with leading/trailing spaces",
			input:    "  Hello World  ",
			maxLen:   PostSlugMaxLen,
			expected: "hello-world",
		},
		{
			name:     "german umlauts",
			input:    "Über München",
			maxLen:   PostSlugMaxLen,
			expected: "uber-munchen",
		},
		{
			name:     "sharp s",
			input:    "Straße",
			maxLen:   PostSlugMaxLen,
			expected: "strasse",
		},
		{
			name:     "c sharp",
			input:    "C#",
			maxLen:   PostSlugMaxLen,
			expected: "cs",
		},
		{
			name:     "c sharp in sentence",
			input:    "Learning C# and F#",
			maxLen:   PostSlugMaxLen,
			expected: "learning-cs-and-fs",
		},
		{
			name:     "apostrophe",
			input:    "Don't Panic",
			maxLen:   PostSlugMaxLen,
			expected: "dont-panic",
		},
		{
			name:     "mixed case",
			input:    "HeLLo WoRLd",
			maxLen:   PostSlugMaxLen,
			expected: "hello-world",
		},
		{
			name:     "truncated without trailing hyphen",
			input:    "Hello World Again",
			maxLen:   6,
			expected: "hello",
		},
		{
			name:     "taxonomy length",
			input:    "A Very Long Category Title For Testing",
			maxLen:   TaxonomySlugMaxLen,
			expected: "a-very-long-category-tit",
		},
		{
			name:     "no limit",
			input:    "Hello World",
			maxLen:   0,
			expected: "hello-world",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Slugify(tt.input, tt.maxLen)
			if result != tt.expected {
				t.Errorf("Slugify(%q, %d) = %q, want %q", tt.input, tt.maxLen, result, tt.expected)
			}
		})
	}
}

func TestSlugifyRandomFallback(t *testing.T) {
	inputs := []string{"日本語タイトル", "!@$%^&*()", "", "   ", "---"}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first := Slugify(input, PostSlugMaxLen)
			second := Slugify(input, PostSlugMaxLen)

			if len(first) != RandomSlugLen {
				t.Errorf("Slugify(%q) = %q, want %d characters", input, first, RandomSlugLen)
			}
			if !IsValidSlug(first) {
				t.Errorf("Slugify(%q) = %q is not a valid slug", input, first)
			}
			// 36^6 possibilities: a collision here is practically impossible
			if first == second {
				t.Errorf("Slugify(%q) returned %q twice, want different tokens", input, first)
			}
		})
	}
}

func TestSlugifyProperties(t *testing.T) {
	inputs := []string{
		"Hello World",
		"  --Leading and trailing--  ",
		"Ünïcödé & Symbols!!! (2024)",
		"C# vs. Go: a comparison",
		"多言語 mixed テキスト",
		strings.Repeat("word ", 100),
		"a - - - b",
	}

	for _, maxLen := range []int{TaxonomySlugMaxLen, PostSlugMaxLen} {
		for _, input := range inputs {
			slug := Slugify(input, maxLen)
			if slug == "" {
				t.Errorf("Slugify(%q, %d) returned empty string", input, maxLen)
			}
			if len(slug) > maxLen {
				t.Errorf("Slugify(%q, %d) = %q exceeds max length", input, maxLen, slug)
			}
			if !IsValidSlug(slug) {
				t.Errorf("Slugify(%q, %d) = %q is not a valid slug", input, maxLen, slug)
			}
		}
	}
}

func TestSlugifyOrEmpty(t *testing.T) {
	if got := SlugifyOrEmpty("日本語", PostSlugMaxLen); got != "" {
		t.Errorf("SlugifyOrEmpty() = %q, want empty", got)
	}
	if got := SlugifyOrEmpty("About Us", PostSlugMaxLen); got != "about-us" {
		t.Errorf("SlugifyOrEmpty() = %q, want %q", got, "about-us")
	}
}

func TestRandomToken(t *testing.T) {
	if got := RandomToken(0); got != "" {
		t.Errorf("RandomToken(0) = %q, want empty", got)
	}
	token := RandomToken(12)
	if len(token) != 12 {
		t.Errorf("RandomToken(12) length = %d", len(token))
	}
	for _, r := range token {
		if !strings.ContainsRune(randomSlugAlphabet, r) {
			t.Errorf("RandomToken() contains unexpected rune %q", r)
		}
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{name: "valid simple", input: "hello", valid: true},
		{name: "valid with hyphen", input: "hello-world", valid: true},
		{name: "valid with numbers", input: "page-123", valid: true},
		{name: "empty", input: "", valid: false},
		{name: "uppercase", input: "Hello", valid: false},
		{name: "leading hyphen", input: "-hello", valid: false},
		{name: "trailing hyphen", input: "hello-", valid: false},
		{name: "double hyphen", input: "hello--world", valid: false},
		{name: "space", input: "hello world", valid: false},
		{name: "underscore", input: "hello_world", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidSlug(tt.input); got != tt.valid {
				t.Errorf("IsValidSlug(%q) = %v, want %v", tt.input, got, tt.valid)
			}
		})
	}
}
