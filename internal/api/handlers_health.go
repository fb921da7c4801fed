// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/aerys/internal/logging"
	"github.com/tomtom215/aerys/internal/models"
)

// readyTimeout bounds the store ping of the readiness probe.
const readyTimeout = 2 * time.Second

// HealthLive reports that the process is serving requests. It never touches
// the store.
//
// Method: GET
// Endpoint: /healthz/live
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.HealthResponse{
		Status: "ok",
		Checks: map[string]string{"uptime": time.Since(h.startTime).Round(time.Second).String()},
	})
}

// HealthReady reports whether the document store answers a ping.
//
// Method: GET
// Endpoint: /healthz/ready
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Readiness check failed")
		respondJSON(w, http.StatusServiceUnavailable, models.HealthResponse{
			Status: "unavailable",
			Checks: map[string]string{"store": err.Error()},
		})
		return
	}

	respondJSON(w, http.StatusOK, models.HealthResponse{
		Status: "ok",
		Checks: map[string]string{"store": "ok"},
	})
}
