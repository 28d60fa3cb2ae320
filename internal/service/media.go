// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mozillazg/go-unidecode"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/olegiv/oblog/internal/imaging"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/storage"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/util"
)

// Upload error messages.
const (
	ErrMsgFileType = "Only .jpg, .jpeg, .png and .gif are supported."
	ErrMsgFileSize = "File cannot be larger than 5MB."
)

// MaxFileNameLen bounds the slugged part of an uploaded file name.
const MaxFileNameLen = 128

// MaxMediaPerPage bounds media list pages.
const MaxMediaPerPage = 100

// ImageService stores blog images and their resized variants and builds
// the URLs they are served from.
type ImageService struct {
	queries   *store.Queries
	storage   storage.Provider
	processor *imaging.Processor
	logger    *slog.Logger
	now       func() time.Time
}

// NewImageService creates a new ImageService.
func NewImageService(db *sql.DB, provider storage.Provider, processor *imaging.Processor, logger *slog.Logger) *ImageService {
	return &ImageService{
		queries:   store.New(db),
		storage:   provider,
		processor: processor,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Upload validates, resizes and stores an image. Both the file extension
// and the declared content type must be an accepted image type.
func (s *ImageService) Upload(ctx context.Context, r io.Reader, userID int64, fileName, contentType, uploadedFrom string) (*model.Media, error) {
	if !acceptedImageType(fileName, contentType) {
		return nil, validationError(ErrMsgFileType, map[string]string{"file": "unsupported type"})
	}

	data, err := io.ReadAll(io.LimitReader(r, model.MaxImageFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) > model.MaxImageFileSize {
		return nil, validationError(ErrMsgFileSize, map[string]string{"file": "too large"})
	}

	res, err := s.processor.Process(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedFormat) {
			return nil, validationError(ErrMsgFileType, map[string]string{"file": "not an image"})
		}
		return nil, validationError("Image cannot be processed.", map[string]string{"file": err.Error()})
	}

	uploadedOn := s.now()
	slugged, title := ProcessFileName(fileName)
	name, err := s.uniqueFileName(ctx, slugged, uploadedOn)
	if err != nil {
		return nil, err
	}

	saved, err := s.saveFiles(ctx, res, name, uploadedOn)
	if err != nil {
		s.removeFiles(ctx, name, uploadedOn, saved)
		return nil, fmt.Errorf("storing image: %w", err)
	}

	if uploadedFrom == "" {
		uploadedFrom = model.UploadedFromWeb
	}
	row, err := s.queries.CreateMedia(ctx, store.CreateMediaParams{
		Uuid:          uuid.NewString(),
		AppType:       model.AppTypeBlog,
		FileName:      name,
		Title:         title,
		ContentType:   res.MimeType,
		Length:        int64(len(res.Original)),
		Width:         int64(res.Width),
		Height:        int64(res.Height),
		ResizeCount:   int64(res.ResizeCount()),
		UploadedOn:    uploadedOn,
		UploadedYear:  int64(uploadedOn.Year()),
		UploadedMonth: int64(uploadedOn.Month()),
		UserID:        userID,
		UploadedFrom:  uploadedFrom,
	})
	if err != nil {
		s.removeFiles(ctx, name, uploadedOn, saved)
		return nil, translateStoreError(err, "media file")
	}

	s.logger.Info("uploaded image", "id", row.ID, "file", name, "width", res.Width, "resize_count", row.ResizeCount)
	m := mediaFromRow(row)
	return &m, nil
}

// Get returns the media record with id.
func (s *ImageService) Get(ctx context.Context, id int64) (*model.Media, error) {
	row, err := s.queries.GetMediaByID(ctx, id)
	if err != nil {
		return nil, translateStoreError(err, "Media")
	}
	m := mediaFromRow(row)
	return &m, nil
}

// List returns a page of blog images, newest first, and the total count.
func (s *ImageService) List(ctx context.Context, pageIndex, pageSize int) ([]model.Media, int64, error) {
	pageIndex, pageSize = normalizePaging(pageIndex, min(pageSize, MaxMediaPerPage), MaxMediaPerPage)
	rows, err := s.queries.ListMedia(ctx, model.AppTypeBlog, int64(pageSize), int64(pageIndex-1)*int64(pageSize))
	if err != nil {
		return nil, 0, fmt.Errorf("listing media: %w", err)
	}
	total, err := s.queries.CountMedia(ctx, model.AppTypeBlog)
	if err != nil {
		return nil, 0, fmt.Errorf("counting media: %w", err)
	}
	items := make([]model.Media, 0, len(rows))
	for _, row := range rows {
		items = append(items, mediaFromRow(row))
	}
	return items, total, nil
}

// Delete removes the image files of every stored size and the media record.
func (s *ImageService) Delete(ctx context.Context, id int64) error {
	row, err := s.queries.GetMediaByID(ctx, id)
	if err != nil {
		return translateStoreError(err, "Media")
	}
	m := mediaFromRow(row)

	for _, size := range StoredSizes(m.ResizeCount) {
		if err := s.storage.Delete(ctx, ImagePath(m.UploadedOn, size), m.FileName); err != nil {
			s.logger.Warn("failed to delete image file", "id", id, "size", size, "error", err)
		}
	}
	if err := s.queries.DeleteMedia(ctx, id); err != nil {
		return fmt.Errorf("deleting media: %w", err)
	}

	s.logger.Info("deleted image", "id", id, "file", m.FileName)
	return nil
}

// GetAbsoluteURL returns the URL of the image at size. Sizes that were not
// generated for this image resolve to the original.
func (s *ImageService) GetAbsoluteURL(m model.Media, size model.ImageSize) string {
	if !hasSize(m.ResizeCount, size) {
		size = model.ImageSizeOriginal
	}
	endpoint := strings.TrimSuffix(s.storage.Endpoint(), "/")
	return endpoint + "/" + ImagePath(m.UploadedOn, size) + "/" + m.FileName
}

// ProcessResponsiveImages adds srcset and sizes to every <img> in body that
// points at a stored blog image. The body is returned unchanged when
// nothing was rewritten or it cannot be processed.
func (s *ImageService) ProcessResponsiveImages(ctx context.Context, body string) string {
	if body == "" || !strings.Contains(body, "<img") {
		return body
	}

	bodyCtx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(body), bodyCtx)
	if err != nil {
		return body
	}

	changed := false
	var walkErr error
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if walkErr != nil {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Img {
			ok, err := s.makeResponsive(ctx, n)
			if err != nil {
				walkErr = err
				return
			}
			changed = changed || ok
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	if walkErr != nil {
		s.logger.Warn("failed to process responsive images", "error", walkErr)
		return body
	}
	if !changed {
		return body
	}

	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return body
		}
	}
	return buf.String()
}

// makeResponsive sets srcset and sizes on img. It reports false for images
// that are not stored blog images or have no resized variants.
func (s *ImageService) makeResponsive(ctx context.Context, img *html.Node) (bool, error) {
	var src string
	for _, a := range img.Attr {
		switch a.Key {
		case "srcset":
			return false, nil
		case "src":
			src = a.Val
		}
	}
	year, month, fileName, ok := parseImageSrc(src)
	if !ok {
		return false, nil
	}

	row, err := s.queries.GetMediaByFileName(ctx, store.GetMediaByFileNameParams{
		AppType:       model.AppTypeBlog,
		FileName:      fileName,
		UploadedYear:  int64(year),
		UploadedMonth: int64(month),
	})
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	m := mediaFromRow(row)

	srcset := s.Srcset(m)
	if srcset == "" {
		return false, nil
	}
	img.Attr = append(img.Attr,
		html.Attribute{Key: "srcset", Val: srcset},
		html.Attribute{Key: "sizes", Val: Sizes(m)},
	)
	return true, nil
}

// Srcset builds the srcset attribute for m, or "" when it has no variants.
func (s *ImageService) Srcset(m model.Media) string {
	small := s.GetAbsoluteURL(m, model.ImageSizeSmall) + " " + strconv.Itoa(model.ImageSizeSmall.Width()) + "w"
	medium := s.GetAbsoluteURL(m, model.ImageSizeMedium) + " " + strconv.Itoa(model.ImageSizeMedium.Width()) + "w"
	original := s.GetAbsoluteURL(m, model.ImageSizeOriginal)

	switch m.ResizeCount {
	case 1:
		return small + ", " + original + " " + strconv.Itoa(m.Width) + "w"
	case 2:
		return small + ", " + medium + ", " + original + " " + strconv.Itoa(m.Width) + "w"
	case 3:
		return small + ", " + medium + ", " + s.GetAbsoluteURL(m, model.ImageSizeMediumLarge) + " 2x, " + original + " 3x"
	case 4:
		return small + ", " + medium + ", " + s.GetAbsoluteURL(m, model.ImageSizeMediumLarge) + " 2x, " +
			s.GetAbsoluteURL(m, model.ImageSizeLarge) + " 3x"
	default:
		return ""
	}
}

// Sizes builds the sizes attribute for m; displays wider than the
// medium-large size get the medium-large width.
func Sizes(m model.Media) string {
	w := min(m.Width, model.ImageSizeMediumLarge.Width())
	return fmt.Sprintf("(max-width: %dpx) 100vw, %dpx", w, w)
}

// ImagePath is the storage directory of a blog image of size uploaded on
// uploadedOn: blog/yyyy/mm for originals, blog/yyyy/mm/<folder> otherwise.
func ImagePath(uploadedOn time.Time, size model.ImageSize) string {
	p := fmt.Sprintf("%s/%04d/%02d", model.AppTypeBlog, uploadedOn.Year(), int(uploadedOn.Month()))
	if size == model.ImageSizeOriginal || size.Folder() == "" {
		return p
	}
	return p + "/" + size.Folder()
}

// StoredSizes returns the sizes stored for an image with resizeCount variants.
func StoredSizes(resizeCount int) []model.ImageSize {
	sizes := []model.ImageSize{model.ImageSizeOriginal}
	n := max(0, min(resizeCount, len(model.ResizedImageSizes)))
	return append(sizes, model.ResizedImageSizes[:n]...)
}

func hasSize(resizeCount int, size model.ImageSize) bool {
	if size == model.ImageSizeOriginal {
		return true
	}
	return slices.Contains(StoredSizes(resizeCount), size)
}

// ProcessFileName turns an uploaded file name into a URL-safe slugged name
// with a lowercase extension, plus a display title.
func ProcessFileName(fileName string) (slugged, title string) {
	base := path.Base(strings.ReplaceAll(fileName, `\`, "/"))
	ext := filepath.Ext(base)
	name := truncateRunes(strings.TrimSuffix(base, ext), MaxFileNameLen)

	slug := util.SlugifyOrEmpty(unidecode.Unidecode(name), MaxFileNameLen)
	if slug == "" {
		slug = util.RandomToken(util.RandomSlugLen)
	}
	return slug + strings.ToLower(ext), CleanHTML(name)
}

// uniqueFileName returns name, or name-2, name-3 and so on, whichever is
// first free among the blog images of the upload month.
func (s *ImageService) uniqueFileName(ctx context.Context, name string, uploadedOn time.Time) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	candidate := name
	for counter := 2; counter < util.MaxSlugAttempts+2; counter++ {
		taken, err := s.fileNameTaken(ctx, candidate, uploadedOn)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = util.UniquefySlug(stem, counter, 0) + ext
	}
	return "", translateStoreError(fmt.Errorf("%w: %q", util.ErrSlugAttemptsExhausted, name), "media file")
}

func (s *ImageService) fileNameTaken(ctx context.Context, name string, uploadedOn time.Time) (bool, error) {
	_, err := s.queries.GetMediaByFileName(ctx, store.GetMediaByFileNameParams{
		AppType:       model.AppTypeBlog,
		FileName:      name,
		UploadedYear:  int64(uploadedOn.Year()),
		UploadedMonth: int64(uploadedOn.Month()),
	})
	switch {
	case err == nil:
		return true, nil
	case !errors.Is(err, sql.ErrNoRows):
		return false, fmt.Errorf("checking file name: %w", err)
	}
	// an orphaned file without a record would be overwritten
	exists, err := s.storage.Exists(ctx, ImagePath(uploadedOn, model.ImageSizeOriginal), name)
	if err != nil {
		return false, fmt.Errorf("checking file name: %w", err)
	}
	return exists, nil
}

// saveFiles writes the original and its variants and returns the sizes written.
func (s *ImageService) saveFiles(ctx context.Context, res *imaging.Result, name string, uploadedOn time.Time) ([]model.ImageSize, error) {
	var saved []model.ImageSize
	if err := s.storage.Save(ctx, ImagePath(uploadedOn, model.ImageSizeOriginal), name, res.Original); err != nil {
		return saved, err
	}
	saved = append(saved, model.ImageSizeOriginal)
	for _, v := range res.Variants {
		if err := s.storage.Save(ctx, ImagePath(uploadedOn, v.Size), name, v.Data); err != nil {
			return saved, err
		}
		saved = append(saved, v.Size)
	}
	return saved, nil
}

func (s *ImageService) removeFiles(ctx context.Context, name string, uploadedOn time.Time, sizes []model.ImageSize) {
	for _, size := range sizes {
		if err := s.storage.Delete(ctx, ImagePath(uploadedOn, size), name); err != nil {
			s.logger.Warn("failed to remove image file", "file", name, "size", size, "error", err)
		}
	}
}

func acceptedImageType(fileName, contentType string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	ctype := strings.ToLower(contentType)
	if i := strings.LastIndex(ctype, "/"); i >= 0 {
		ctype = ctype[i+1:]
	}
	if i := strings.IndexByte(ctype, ';'); i >= 0 {
		ctype = ctype[:i]
	}
	accepted := model.SupportedImageExtensions()
	return ext != "" && slices.Contains(accepted, ext) && slices.Contains(accepted, "."+strings.TrimSpace(ctype))
}

// parseImageSrc extracts the upload year, month and file name from a blog
// image URL such as /media/blog/2024/03/md/photo.jpg.
func parseImageSrc(src string) (year, month int, fileName string, ok bool) {
	const marker = model.AppTypeBlog + "/"
	i := strings.Index(src, marker)
	if i < 0 {
		return 0, 0, "", false
	}
	parts := strings.Split(src[i+len(marker):], "/")
	if len(parts) < 3 || len(parts) > 4 {
		return 0, 0, "", false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) != 4 {
		return 0, 0, "", false
	}
	month, err = strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, "", false
	}
	fileName = parts[len(parts)-1]
	if fileName == "" {
		return 0, 0, "", false
	}
	return year, month, fileName, true
}
