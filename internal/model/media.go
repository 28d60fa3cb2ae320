// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// Supported MIME types
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
)

// Upload constraints
const (
	MaxImageFileSize = 5 * 1024 * 1024
	AppTypeBlog      = "blog"
	UploadedFromWeb  = "browser"
)

// ImageSize identifies a stored variant of an uploaded image.
type ImageSize int

// Image sizes, smallest resized variant first. Original is the uploaded file.
const (
	ImageSizeOriginal ImageSize = iota
	ImageSizeSmall
	ImageSizeMedium
	ImageSizeMediumLarge
	ImageSizeLarge
)

// ResizedImageSizes lists the variants generated on upload, in order.
var ResizedImageSizes = []ImageSize{ImageSizeSmall, ImageSizeMedium, ImageSizeMediumLarge, ImageSizeLarge}

var imageSizeInfo = map[ImageSize]struct {
	name   string
	width  int
	folder string
}{
	ImageSizeOriginal:    {"original", 0, ""},
	ImageSizeSmall:       {"small", 600, "sm"},
	ImageSizeMedium:      {"medium", 1200, "md"},
	ImageSizeMediumLarge: {"medium_large", 1800, "ml"},
	ImageSizeLarge:       {"large", 2400, "lg"},
}

// Width is the target width of the variant; 0 for Original.
func (s ImageSize) Width() int {
	return imageSizeInfo[s].width
}

// Folder is the sub-directory holding the variant; empty for Original.
func (s ImageSize) Folder() string {
	return imageSizeInfo[s].folder
}

func (s ImageSize) String() string {
	if info, ok := imageSizeInfo[s]; ok {
		return info.name
	}
	return "unknown"
}

// ParseImageSize parses a size name as returned by String.
func ParseImageSize(name string) (ImageSize, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for size, info := range imageSizeInfo {
		if info.name == name {
			return size, true
		}
	}
	return ImageSizeOriginal, false
}

// Media represents an uploaded image in the media library.
type Media struct {
	ID           int64     `json:"id"`
	UUID         string    `json:"uuid"`
	AppType      string    `json:"app_type"`
	FileName     string    `json:"file_name"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Caption      string    `json:"caption,omitempty"`
	ContentType  string    `json:"content_type"`
	Length       int64     `json:"length"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	ResizeCount  int       `json:"resize_count"`
	UploadedOn   time.Time `json:"uploaded_on"`
	UserID       int64     `json:"user_id"`
	UploadedFrom string    `json:"uploaded_from"`
}

// IsImage returns true if the media type is an image.
func (m *Media) IsImage() bool {
	switch m.ContentType {
	case MimeTypeJPEG, MimeTypePNG, MimeTypeGIF:
		return true
	default:
		return false
	}
}

// IsGIF returns true for GIF uploads, which keep only the small variant.
func (m *Media) IsGIF() bool {
	return m.ContentType == MimeTypeGIF
}

// SupportedImageTypes returns a list of supported image MIME types.
func SupportedImageTypes() []string {
	return []string{MimeTypeJPEG, MimeTypePNG, MimeTypeGIF}
}

// SupportedImageExtensions returns the accepted upload extensions.
func SupportedImageExtensions() []string {
	return []string{".jpg", ".jpeg", ".gif", ".png"}
}
