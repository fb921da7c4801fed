// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

package api

import (
	"net/http"

	"github.com/tomtom215/aerys/internal/location"
	"github.com/tomtom215/aerys/internal/logging"
	"github.com/tomtom215/aerys/internal/models"
	"github.com/tomtom215/aerys/internal/validation"
)

// ReceiveLocation stores a location report from a tracking client.
//
// Method: POST
// Endpoint: /api/location
func (h *Handler) ReceiveLocation(w http.ResponseWriter, r *http.Request) {
	var req LocationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, msgInvalidData, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		logging.Ctx(r.Context()).Debug().Str("field", verr.FirstField()).Msg("Rejected location report")
		respondError(w, r, http.StatusBadRequest, msgInvalidData, nil)
		return
	}

	report, err := h.location.Submit(location.Submission{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Timestamp: req.Timestamp,
	})
	if err != nil {
		respondErr(w, r, err)
		return
	}

	h.wsHub.BroadcastLocation(report)
	respondJSON(w, http.StatusOK, models.LocationAccepted{
		Message:      msgLocationReceived,
		ReadableTime: report.ReadableTime,
	})
}

// GetLocation returns the latest location report.
//
// Method: GET
// Endpoint: /api/location
func (h *Handler) GetLocation(w http.ResponseWriter, r *http.Request) {
	report, err := h.location.Fetch()
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}
