// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

package api

import (
	"net/http"

	"github.com/tomtom215/aerys/internal/validation"
)

// UpdateMapView persists the map viewport.
//
// Method: POST
// Endpoint: /update_map_view
func (h *Handler) UpdateMapView(w http.ResponseWriter, r *http.Request) {
	var req MapViewRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, msgInvalidData, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, r, http.StatusBadRequest, msgInvalidData, verr)
		return
	}

	view, err := h.mapView.Set(r.Context(), req.Lat, req.Lng, req.Zoom)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	h.wsHub.BroadcastMapView(view)
	respondMessage(w, http.StatusOK, msgMapViewUpdated)
}

// GetMapView returns the stored viewport, or the defaults when none is stored.
//
// Method: GET
// Endpoint: /get_map_view
func (h *Handler) GetMapView(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.mapView.Get(r.Context()))
}
