// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/oblog/internal/scheduler"
)

// JobRunner lists and triggers scheduled maintenance jobs.
type JobRunner interface {
	Jobs() []scheduler.JobInfo
	Trigger(name string) error
}

// ListJobs handles GET /api/v1/jobs
func (h *Handler) ListJobs(w http.ResponseWriter, _ *http.Request) {
	jobs := h.jobs.Jobs()
	WriteSuccess(w, jobs, &Meta{Total: int64(len(jobs))})
}

// RunJob handles POST /api/v1/jobs/{name}/run
// Runs the job synchronously and returns its updated state.
func (h *Handler) RunJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.jobs.Trigger(name); err != nil {
		if errors.Is(err, scheduler.ErrJobNotFound) {
			WriteNotFound(w, "Job not found")
			return
		}
		h.logger.Warn("manual job run failed", "job", name, "error", err)
		WriteError(w, http.StatusInternalServerError, "job_failed", "Job failed: "+err.Error(), nil)
		return
	}

	for _, job := range h.jobs.Jobs() {
		if job.Name == name {
			WriteSuccess(w, job, nil)
			return
		}
	}
	WriteNotFound(w, "Job not found")
}
