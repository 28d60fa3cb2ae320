// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/oblog/internal/scheduler"
)

func TestStatus(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/status", nil)
	assertStatusCode(t, w, http.StatusOK)
	status, _ := decodeData[StatusResponse](t, w)
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "v1", status.Version)
	assert.Equal(t, "memory", status.CacheBackend)
	assert.Zero(t, status.PublishedPosts)

	createTestPost(t, s, map[string]any{"title": "Counted", "status": "published"})
	w = s.do(t, http.MethodGet, "/api/v1/status", nil)
	status, _ = decodeData[StatusResponse](t, w)
	assert.EqualValues(t, 1, status.PublishedPosts)
}

func TestUnknownRoutes(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/nope", nil)
	assertStatusCode(t, w, http.StatusNotFound)
	assertErrorResponse(t, w, "not_found")

	w = s.do(t, http.MethodPatch, "/api/v1/posts/1", nil)
	assertStatusCode(t, w, http.StatusMethodNotAllowed)
	assertErrorResponse(t, w, "method_not_allowed")
}

func TestMountMedia(t *testing.T) {
	s := newTestServer(t)

	dir := filepath.Join(s.uploads, "blog", "2024", "03")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file.txt"), []byte("hello"), 0o644))

	w := s.do(t, http.MethodGet, "/media/blog/2024/03/file.txt", nil)
	assertStatusCode(t, w, http.StatusOK)
	assert.Equal(t, "hello", w.Body.String())

	w = s.do(t, http.MethodGet, "/media/blog/2024/03/", nil)
	assertStatusCode(t, w, http.StatusNotFound)

	w = s.do(t, http.MethodGet, "/media/blog/2024/03/missing.png", nil)
	assertStatusCode(t, w, http.StatusNotFound)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	// overall status also depends on free disk space of the test machine
	w := s.do(t, http.MethodGet, "/health?verbose=true", nil)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Checks["database"].Status)
	assert.Contains(t, status.Checks["cache"].Message, "memory")
	require.NotNil(t, status.System)
	assert.NotEmpty(t, status.System.GoVersion)

	w = s.do(t, http.MethodGet, "/health/live", nil)
	assertStatusCode(t, w, http.StatusOK)

	w = s.do(t, http.MethodGet, "/health/ready", nil)
	assertStatusCode(t, w, http.StatusOK)
	assert.Contains(t, w.Body.String(), "ready")
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{512, "512 B"},
		{2048, "2.00 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestJobEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/jobs", nil)
	assertStatusCode(t, w, http.StatusOK)
	jobs, meta := decodeData[[]scheduler.JobInfo](t, w)
	require.Len(t, jobs, 2)
	assert.Equal(t, "broken", jobs[0].Name)
	assert.EqualValues(t, 2, meta.Total)

	w = s.do(t, http.MethodPost, "/api/v1/jobs/noop/run", nil)
	assertStatusCode(t, w, http.StatusOK)
	job, _ := decodeData[scheduler.JobInfo](t, w)
	assert.Equal(t, "noop", job.Name)
	assert.False(t, job.LastRun.IsZero())
	assert.Empty(t, job.LastError)

	w = s.do(t, http.MethodPost, "/api/v1/jobs/broken/run", nil)
	assertStatusCode(t, w, http.StatusInternalServerError)
	resp := assertErrorResponse(t, w, "job_failed")
	assert.Contains(t, resp.Error.Message, "boom")

	w = s.do(t, http.MethodPost, "/api/v1/jobs/missing/run", nil)
	assertStatusCode(t, w, http.StatusNotFound)
}
