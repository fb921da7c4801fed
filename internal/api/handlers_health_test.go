// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

package api

import (
	"net/http"
	"testing"

	"github.com/tomtom215/aerys/internal/models"
)

func TestHealthLive(t *testing.T) {
	t.Parallel()
	env := setupTestEnv(t, testConfig())

	rec := env.do(t, http.MethodGet, "/healthz/live", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp models.HealthResponse
	decodeResponse(t, rec, &resp)
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
	if resp.Checks["uptime"] == "" {
		t.Error("uptime check missing")
	}
}

func TestHealthReady(t *testing.T) {
	t.Parallel()
	env := setupTestEnv(t, testConfig())

	rec := env.do(t, http.MethodGet, "/healthz/ready", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	if err := env.store.Close(); err != nil {
		t.Fatal(err)
	}

	rec = env.do(t, http.MethodGet, "/healthz/ready", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status after close = %d, want 503", rec.Code)
	}
	var resp models.HealthResponse
	decodeResponse(t, rec, &resp)
	if resp.Status != "unavailable" || resp.Checks["store"] == "" {
		t.Errorf("response = %+v", resp)
	}

	// Liveness does not depend on the store.
	if rec := env.do(t, http.MethodGet, "/healthz/live", ""); rec.Code != http.StatusOK {
		t.Errorf("live status after close = %d", rec.Code)
	}
}
