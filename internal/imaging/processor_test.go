// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/olegiv/oblog/internal/model"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodeTestImage(t *testing.T, format string, width, height int) []byte {
	t.Helper()
	img := createTestImage(width, height)
	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = jpeg.Encode(&buf, img, nil)
	}
	if err != nil {
		t.Fatalf("encode %s: %v", format, err)
	}
	return buf.Bytes()
}

func TestVariantSizes(t *testing.T) {
	tests := []struct {
		width int
		gif   bool
		want  int
	}{
		{400, false, 0},
		{600, false, 0},
		{601, false, 1},
		{1200, false, 1},
		{1201, false, 2},
		{1801, false, 3},
		{2400, false, 3},
		{4000, false, 4},
		{500, true, 0},
		{601, true, 1},
		{4000, true, 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_gif_%v", tt.width, tt.gif), func(t *testing.T) {
			sizes := VariantSizes(tt.width, tt.gif)
			if len(sizes) != tt.want {
				t.Fatalf("VariantSizes(%d, %v) = %v, want %d sizes", tt.width, tt.gif, sizes, tt.want)
			}
			for i, s := range sizes {
				if s != model.ResizedImageSizes[i] {
					t.Errorf("size[%d] = %v, want %v", i, s, model.ResizedImageSizes[i])
				}
			}
		})
	}
}

func TestProcessSmallImage(t *testing.T) {
	p := NewProcessor(0)

	res, err := p.Process(bytes.NewReader(encodeTestImage(t, "jpeg", 300, 20)))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Width != 300 || res.Height != 20 {
		t.Errorf("dimensions = %dx%d, want 300x20", res.Width, res.Height)
	}
	if res.MimeType != model.MimeTypeJPEG {
		t.Errorf("MimeType = %q", res.MimeType)
	}
	if res.ResizeCount() != 0 {
		t.Errorf("ResizeCount = %d, want 0", res.ResizeCount())
	}
	if len(res.Original) == 0 {
		t.Error("Original is empty")
	}
}

func TestProcessCreatesVariants(t *testing.T) {
	p := NewProcessor(80)

	res, err := p.Process(bytes.NewReader(encodeTestImage(t, "png", 1300, 26)))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.ResizeCount() != 2 {
		t.Fatalf("ResizeCount = %d, want 2", res.ResizeCount())
	}

	small := res.Variants[0]
	if small.Size != model.ImageSizeSmall || small.Width != 600 || small.Height != 12 {
		t.Errorf("small variant = %v %dx%d", small.Size, small.Width, small.Height)
	}
	medium := res.Variants[1]
	if medium.Size != model.ImageSizeMedium || medium.Width != 1200 {
		t.Errorf("medium variant = %v %dx%d", medium.Size, medium.Width, medium.Height)
	}
	if detectFormat(medium.Data) != "png" {
		t.Errorf("variant format = %q, want png", detectFormat(medium.Data))
	}
}

func TestProcessGIFKeepsOriginal(t *testing.T) {
	p := NewProcessor(0)
	data := encodeTestImage(t, "gif", 1300, 10)

	res, err := p.Process(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !bytes.Equal(res.Original, data) {
		t.Error("GIF original was re-encoded")
	}
	if res.ResizeCount() != 1 || res.Variants[0].Size != model.ImageSizeSmall {
		t.Errorf("GIF variants = %+v, want small only", res.Variants)
	}
}

func TestProcessRejectsNonImage(t *testing.T) {
	p := NewProcessor(0)
	_, err := p.Process(bytes.NewReader([]byte("plain text, not an image")))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg magic bytes", []byte{0xFF, 0xD8, 0xFF, 0xE0}, "jpeg"},
		{"png magic bytes", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "png"},
		{"gif magic bytes", []byte{0x47, 0x49, 0x46, 0x38, 0x39, 0x61}, "gif"},
		{"unknown", []byte{0x00, 0x01, 0x02, 0x03}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectFormat(tt.data); got != tt.want {
				t.Errorf("detectFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFormatFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"image.jpg", "jpeg"},
		{"image.jpeg", "jpeg"},
		{"image.JPG", "jpeg"},
		{"image.png", "png"},
		{"image.PNG", "png"},
		{"image.gif", "gif"},
		{"image.webp", "webp"},
		{"image.unknown", ""},
		{"noextension", ""},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := DetectFormatFromFilename(tt.filename); got != tt.want {
				t.Errorf("DetectFormatFromFilename(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestFormatToMimeType(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"jpeg", model.MimeTypeJPEG},
		{"jpg", model.MimeTypeJPEG},
		{"png", model.MimeTypePNG},
		{"gif", model.MimeTypeGIF},
		{"unknown", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if got := formatToMimeType(tt.format); got != tt.want {
				t.Errorf("formatToMimeType(%q) = %v, want %v", tt.format, got, tt.want)
			}
		})
	}
}

func TestApplyOrientation(t *testing.T) {
	img := createTestImage(10, 4)

	for orientation := 0; orientation <= 9; orientation++ {
		t.Run(fmt.Sprintf("orientation_%d", orientation), func(t *testing.T) {
			result := applyOrientation(img, orientation)
			if result == nil {
				t.Fatal("applyOrientation returned nil")
			}
			b := result.Bounds()
			rotated := orientation >= 5 && orientation <= 8
			if rotated && (b.Dx() != 4 || b.Dy() != 10) {
				t.Errorf("orientation %d: got %dx%d, want 4x10", orientation, b.Dx(), b.Dy())
			}
			if !rotated && (b.Dx() != 10 || b.Dy() != 4) {
				t.Errorf("orientation %d: got %dx%d, want 10x4", orientation, b.Dx(), b.Dy())
			}
		})
	}
}

func TestDetectMimeType(t *testing.T) {
	if got := DetectMimeType([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}); got != model.MimeTypePNG {
		t.Errorf("DetectMimeType(png) = %q", got)
	}
}
