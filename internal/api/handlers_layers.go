// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/aerys/internal/docstore"
	"github.com/tomtom215/aerys/internal/layers"
	"github.com/tomtom215/aerys/internal/models"
)

// multipartMemory is the part of a multipart body kept in memory; the rest
// spills to temporary files.
const multipartMemory = 8 << 20

// Layers returns every layer with its styles.
//
// Method: GET
// Endpoint: /layers
func (h *Handler) Layers(w http.ResponseWriter, r *http.Request) {
	list, err := h.layers.List(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// Layer returns one layer without its styles.
//
// Method: GET
// Endpoint: /layers/{layer_id}
func (h *Handler) Layer(w http.ResponseWriter, r *http.Request) {
	layer, err := h.layers.Get(r.Context(), chi.URLParam(r, "layer_id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, layer)
}

// UploadGeoJSON stores a GeoJSON file as a new layer.
//
// Method: POST
// Endpoint: /upload_geojson
//
// Multipart fields: file (required), layer_name, styles (JSON object text).
func (h *Handler) UploadGeoJSON(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes())
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			respondErr(w, r, err)
			return
		}
		respondError(w, r, http.StatusBadRequest, msgNoFile, err)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		respondErr(w, r, fmt.Errorf("%w: %v", errMissingFile, err))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		respondErr(w, r, fmt.Errorf("read upload: %w", err))
		return
	}

	up := layers.Upload{
		Filename: header.Filename,
		Content:  content,
		Styles:   r.FormValue("styles"),
	}
	if values, ok := r.MultipartForm.Value["layer_name"]; ok && len(values) > 0 {
		up.LayerName = &values[0]
	}
	layerID, err := h.layers.Upload(r.Context(), up)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	var layerName string
	if up.LayerName != nil {
		layerName = *up.LayerName
	}
	h.wsHub.BroadcastLayerUploaded(layerID, layerName)
	respondJSON(w, http.StatusOK, models.LayerUploaded{
		Message: msgLayerUploaded,
		LayerID: layerID,
	})
}

// UpdateStyles replaces the styles of an existing layer.
//
// Method: PUT
// Endpoint: /update_styles
func (h *Handler) UpdateStyles(w http.ResponseWriter, r *http.Request) {
	var req UpdateStylesRequest
	if err := decodeJSON(r, &req); err != nil && !isEmptyBody(err) {
		respondError(w, r, http.StatusBadRequest, msgInvalidData, err)
		return
	}

	layerID, _ := req.LayerID.(string)
	outcome, err := h.layers.UpdateStyles(r.Context(), layerID, req.Styles)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	switch outcome {
	case layers.OutcomeNotFound:
		respondError(w, r, http.StatusNotFound, msgLayerNotFound, nil)
	case layers.OutcomeUnchanged:
		respondMessage(w, http.StatusOK, msgStylesUnchanged)
	default:
		h.wsHub.BroadcastStylesUpdated(layerID, req.Styles)
		respondMessage(w, http.StatusOK, msgStylesUpdated)
	}
}

// UpdateAttributes sets the properties of every feature in a layer.
//
// Method: PUT
// Endpoint: /layers/{layer_id}/update_attributes
func (h *Handler) UpdateAttributes(w http.ResponseWriter, r *http.Request) {
	layerID := chi.URLParam(r, "layer_id")
	if _, err := docstore.ParseID(layerID); err != nil {
		respondErr(w, r, err)
		return
	}

	var req UpdateAttributesRequest
	if err := decodeJSON(r, &req); err != nil && !isEmptyBody(err) {
		respondError(w, r, http.StatusBadRequest, msgInvalidData, err)
		return
	}

	outcome, err := h.layers.UpdateAttributes(r.Context(), layerID, req.UpdatedAttributes)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	switch outcome {
	case layers.OutcomeNotFound:
		respondError(w, r, http.StatusNotFound, msgLayerNotFound, nil)
	case layers.OutcomeUnchanged:
		respondMessage(w, http.StatusOK, msgAttributesUnchanged)
	default:
		h.wsHub.BroadcastAttributesUpdated(layerID)
		respondMessage(w, http.StatusOK, msgAttributesUpdated)
	}
}

// GeoJSONNames returns the name of every layer.
//
// Method: GET
// Endpoint: /api/geojson_names
func (h *Handler) GeoJSONNames(w http.ResponseWriter, r *http.Request) {
	names, err := h.layers.Names(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, names)
}
