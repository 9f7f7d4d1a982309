// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"livepoll/middleware"
	"livepoll/models"
)

type HealthHandler struct {
	storeKind string
	startedAt time.Time
}

// NewHealthHandler records which store the client composed with
// ("remote" or "memory") so operators can spot degraded mode.
func NewHealthHandler(storeKind string) *HealthHandler {
	return &HealthHandler{storeKind: storeKind, startedAt: time.Now()}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.HealthResponse{
		Status:  "ok",
		Store:   h.storeKind,
		Started: humanize.Time(h.startedAt),
	})
}
