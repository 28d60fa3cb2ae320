// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose utility functions including
// URL slug generation, uniqueness resolution and validation with Unicode
// normalization support.
package util

import (
	"math/rand/v2"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slug length limits.
const (
	// PostSlugMaxLen bounds slugs derived from blog post and page titles.
	PostSlugMaxLen = 250
	// TaxonomySlugMaxLen bounds category and tag slugs.
	TaxonomySlugMaxLen = 24
	// RandomSlugLen is the length of the token returned when a title has no
	// sluggable characters.
	RandomSlugLen = 6
)

const randomSlugAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

var (
	// nonSlugChars matches runs of anything that is not a lowercase ASCII letter or digit.
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

	// symbolReplacer keeps meaning for characters that would otherwise vanish
	// ("C#" -> "cs") and folds letters that NFD cannot decompose.
	symbolReplacer = strings.NewReplacer(
		"#", "s",
		"'", "",
		"’", "",
		"ß", "ss",
		"æ", "ae",
		"œ", "oe",
		"ø", "o",
		"đ", "d",
		"ł", "l",
		"þ", "th",
	)
)

// SlugifyOrEmpty converts a string to a URL-friendly slug of at most maxLen
// characters. It returns an empty string when nothing sluggable remains
// (symbol-only or non-Latin input). A maxLen <= 0 disables truncation.
func SlugifyOrEmpty(s string, maxLen int) string {
	// Normalize unicode characters (decompose accents)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)

	result = strings.ToLower(result)
	result = symbolReplacer.Replace(result)

	// Whitespace, punctuation and unsupported letters all collapse into one hyphen
	result = nonSlugChars.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if maxLen > 0 && len(result) > maxLen {
		result = strings.TrimRight(result[:maxLen], "-")
	}

	return result
}

// Slugify converts a string to a URL-friendly slug of at most maxLen characters.
// When the input has no sluggable characters a random token of RandomSlugLen
// characters is returned instead, so the result is never empty.
func Slugify(s string, maxLen int) string {
	slug := SlugifyOrEmpty(s, maxLen)
	if slug != "" {
		return slug
	}

	n := RandomSlugLen
	if maxLen > 0 && maxLen < n {
		n = maxLen
	}
	return RandomToken(n)
}

// RandomToken returns n random lowercase alphanumeric characters.
func RandomToken(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = randomSlugAlphabet[rand.IntN(len(randomSlugAlphabet))]
	}
	return string(b)
}

// IsValidSlug checks if a string is a valid slug format.
func IsValidSlug(s string) bool {
	if s == "" {
		return false
	}

	// Check if it only contains lowercase letters, numbers, and hyphens
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}

	// Check that it doesn't start or end with a hyphen
	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}

	// Check for consecutive hyphens
	if strings.Contains(s, "--") {
		return false
	}

	return true
}
