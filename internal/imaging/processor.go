// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging decodes uploaded images and produces the resized
// variants served by the blog (small, medium, medium-large and large).
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/olegiv/oblog/internal/model"
)

// DefaultQuality is the JPEG quality used for originals and variants.
const DefaultQuality = 90

// ErrUnsupportedFormat is returned when the data is not a decodable image.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Variant is one resized rendition of an uploaded image.
type Variant struct {
	Size   model.ImageSize
	Width  int
	Height int
	Data   []byte
}

// Result contains the processed original and its variants.
type Result struct {
	Format   string
	MimeType string
	Width    int
	Height   int
	Original []byte
	Variants []Variant
}

// ResizeCount is the number of variants generated, as stored on the media row.
func (r *Result) ResizeCount() int {
	return len(r.Variants)
}

// Processor handles image processing operations using pure Go libraries.
type Processor struct {
	quality int
}

// NewProcessor creates a new image processor. A quality outside 1..100
// falls back to DefaultQuality.
func NewProcessor(quality int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	return &Processor{quality: quality}
}

// Process decodes an uploaded image, applies its EXIF orientation and
// creates every variant narrower than the image. GIFs keep their original
// bytes (animation is preserved) and only get the small variant.
func (p *Processor) Process(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	format := detectFormat(data)
	if format == "" {
		return nil, ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	original := data
	if format != "gif" {
		img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))
		// Pure Go encoders drop EXIF, so the stored original is already upright.
		original, err = encodeImage(img, format, p.quality)
		if err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}
	}

	bounds := img.Bounds()
	res := &Result{
		Format:   outputFormat(format),
		MimeType: formatToMimeType(outputFormat(format)),
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Original: original,
	}

	for _, size := range VariantSizes(res.Width, format == "gif") {
		v, err := p.resize(img, size, format)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s variant: %w", size, err)
		}
		res.Variants = append(res.Variants, v)
	}

	return res, nil
}

// VariantSizes returns the sizes generated for an image of the given width.
// Sizes are consecutive from small; a size is produced only when the image
// is wider than its target. GIFs stop after small.
func VariantSizes(width int, isGIF bool) []model.ImageSize {
	var sizes []model.ImageSize
	for _, size := range model.ResizedImageSizes {
		if width <= size.Width() {
			break
		}
		sizes = append(sizes, size)
		if isGIF {
			break
		}
	}
	return sizes
}

func (p *Processor) resize(img image.Image, size model.ImageSize, format string) (Variant, error) {
	resized := imaging.Resize(img, size.Width(), 0, imaging.Lanczos)
	data, err := encodeImage(resized, format, p.quality)
	if err != nil {
		return Variant{}, err
	}
	b := resized.Bounds()
	return Variant{Size: size, Width: b.Dx(), Height: b.Dy(), Data: data}, nil
}

// DetectMimeType detects the MIME type of image data.
func DetectMimeType(data []byte) string {
	contentType := http.DetectContentType(data)
	// http.DetectContentType returns types like "image/jpeg; charset=utf-8"
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return contentType
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}

	return orientation
}

// applyOrientation applies EXIF orientation transformation to an image.
// Orientation values:
// 1: Normal
// 2: Flip horizontal
// 3: Rotate 180°
// 4: Flip vertical
// 5: Rotate 90° CW + flip horizontal
// 6: Rotate 90° CW
// 7: Rotate 90° CCW + flip horizontal
// 8: Rotate 90° CCW
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// encodeImage encodes an image to bytes with the specified format and quality.
func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		// WebP has no pure Go encoder; it is stored as JPEG.
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	}
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// detectFormat detects the image format from raw bytes.
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// Explicitly reject TIFF (CVE-2023-36308 in disintegration/imaging)
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

// DetectFormatFromFilename extracts the format from a filename extension.
func DetectFormatFromFilename(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png":
		return "png"
	case ".gif":
		return "gif"
	case ".webp":
		return "webp"
	default:
		return ""
	}
}

func outputFormat(format string) string {
	if format == "webp" {
		return "jpeg"
	}
	return format
}

// formatToMimeType converts format string to MIME type.
func formatToMimeType(format string) string {
	switch format {
	case "jpeg", "jpg":
		return model.MimeTypeJPEG
	case "png":
		return model.MimeTypePNG
	case "gif":
		return model.MimeTypeGIF
	default:
		return "application/octet-stream"
	}
}
