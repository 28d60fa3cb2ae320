// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/oblog/internal/cache"
	"github.com/olegiv/oblog/internal/imaging"
	"github.com/olegiv/oblog/internal/scheduler"
	"github.com/olegiv/oblog/internal/service"
	"github.com/olegiv/oblog/internal/storage"
	"github.com/olegiv/oblog/internal/testutil"
)

type testServer struct {
	svc     *service.Services
	caches  *cache.Manager
	router  chi.Router
	uploads string
}

// newTestServer wires the API over an in-memory database, a memory cache,
// a temp uploads directory served from /media and two scheduler jobs.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := testutil.TestLoggerSilent()
	db := testutil.TestMemoryDB(t)

	caches := cache.NewManagerFor(cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Hour}), "memory", logger)
	t.Cleanup(func() { _ = caches.Close() })

	uploads := t.TempDir()
	provider, err := storage.NewLocalProvider(uploads, "/media")
	require.NoError(t, err)

	svc := service.New(db, caches.Cache(), provider, imaging.NewProcessor(0), logger)

	jobs := scheduler.New(logger)
	require.NoError(t, jobs.AddJob("noop", "Does nothing", "@daily", func(context.Context) error { return nil }))
	require.NoError(t, jobs.AddJob("broken", "Always fails", "@daily", func(context.Context) error {
		return errors.New("boom")
	}))

	r := chi.NewRouter()
	r.Mount("/api/v1", NewHandler(svc, caches, jobs, logger).Routes())
	MountMedia(r, "/media", uploads)

	health := NewHealthHandler(db, caches, uploads)
	r.Get("/health", health.Health)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	return &testServer{svc: svc, caches: caches, router: r, uploads: uploads}
}

// do sends a request with an optional JSON body through the router.
func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		if raw, ok := body.(string); ok {
			reader = bytes.NewBufferString(raw)
		} else {
			data, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewReader(data)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// upload posts a multipart file to /api/v1/media.
func (s *testServer) upload(t *testing.T, fileName, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("user_id", "1"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/media", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// decodeData unmarshals the data field of a success response.
func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) (T, *Meta) {
	t.Helper()

	var resp struct {
		Data T     `json:"data"`
		Meta *Meta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Data, resp.Meta
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, x%height, color.RGBA{R: uint8(x % 256), G: 120, B: 60, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
