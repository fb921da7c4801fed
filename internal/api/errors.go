// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/aerys/internal/docstore"
	"github.com/tomtom215/aerys/internal/layers"
	"github.com/tomtom215/aerys/internal/location"
	"github.com/tomtom215/aerys/internal/mapview"
)

// Client-facing messages.
const (
	msgLocationReceived    = "Location received"
	msgInvalidData         = "Invalid data"
	msgNoLocation          = "No location data available"
	msgInvalidLayerID      = "Invalid layer_id format"
	msgLayerNotFound       = "Layer not found"
	msgLayerUploaded       = "Layer uploaded successfully"
	msgInvalidFileFormat   = "Invalid file format"
	msgInvalidGeoJSON      = "Invalid GeoJSON file"
	msgInvalidStyles       = "Invalid styles"
	msgNoFile              = "No file part"
	msgFileTooLarge        = "File too large"
	msgStylesUnchanged     = "No changes made to the styles"
	msgStylesUpdated       = "Styles updated successfully"
	msgNoAttributes        = "No attributes to update"
	msgInvalidFeatures     = "Layer features must be an array of objects"
	msgAttributesUnchanged = "No changes made to the attributes"
	msgAttributesUpdated   = "Layer attributes updated successfully"
	msgMapViewUpdated      = "Map view updated successfully"
)

// errMissingFile is reported when a multipart upload has no "file" part.
var errMissingFile = errors.New("missing file part")

// statusForError maps an error to the HTTP status and message sent to the
// client. Unrecognised errors are store failures and pass their text through.
func statusForError(err error) (int, string) {
	var maxBytes *http.MaxBytesError

	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge, msgFileTooLarge
	case errors.Is(err, docstore.ErrInvalidID):
		return http.StatusBadRequest, msgInvalidLayerID
	case errors.Is(err, layers.ErrLayerNotFound):
		return http.StatusNotFound, msgLayerNotFound
	case errors.Is(err, layers.ErrInvalidFormat):
		return http.StatusBadRequest, msgInvalidFileFormat
	case errors.Is(err, layers.ErrMalformedGeoJSON):
		return http.StatusBadRequest, msgInvalidGeoJSON
	case errors.Is(err, layers.ErrMalformedStyles):
		return http.StatusBadRequest, msgInvalidStyles
	case errors.Is(err, layers.ErrMissingAttributes):
		return http.StatusBadRequest, msgNoAttributes
	case errors.Is(err, layers.ErrInvalidFeatures):
		return http.StatusBadRequest, msgInvalidFeatures
	case errors.Is(err, errMissingFile):
		return http.StatusBadRequest, msgNoFile
	case errors.Is(err, location.ErrInvalidData), errors.Is(err, mapview.ErrInvalidData):
		return http.StatusBadRequest, msgInvalidData
	case errors.Is(err, location.ErrNoLocation):
		return http.StatusNotFound, msgNoLocation
	default:
		return http.StatusInternalServerError, err.Error()
	}
}
