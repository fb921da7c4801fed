// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/tomtom215/aerys/internal/docstore"
	"github.com/tomtom215/aerys/internal/layers"
	"github.com/tomtom215/aerys/internal/location"
	"github.com/tomtom215/aerys/internal/mapview"
)

func TestStatusForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"invalid id", fmt.Errorf("get: %w", docstore.ErrInvalidID), http.StatusBadRequest, "Invalid layer_id format"},
		{"layer not found", layers.ErrLayerNotFound, http.StatusNotFound, "Layer not found"},
		{"invalid format", fmt.Errorf("%w: %q", layers.ErrInvalidFormat, "a.kml"), http.StatusBadRequest, "Invalid file format"},
		{"malformed geojson", layers.ErrMalformedGeoJSON, http.StatusBadRequest, "Invalid GeoJSON file"},
		{"malformed styles", layers.ErrMalformedStyles, http.StatusBadRequest, "Invalid styles"},
		{"missing attributes", layers.ErrMissingAttributes, http.StatusBadRequest, "No attributes to update"},
		{"invalid features", layers.ErrInvalidFeatures, http.StatusBadRequest, "Layer features must be an array of objects"},
		{"missing file", errMissingFile, http.StatusBadRequest, "No file part"},
		{"location invalid", location.ErrInvalidData, http.StatusBadRequest, "Invalid data"},
		{"map view invalid", mapview.ErrInvalidData, http.StatusBadRequest, "Invalid data"},
		{"no location", location.ErrNoLocation, http.StatusNotFound, "No location data available"},
		{"too large", fmt.Errorf("multipart: %w", &http.MaxBytesError{Limit: 10}), http.StatusRequestEntityTooLarge, "File too large"},
		{"store failure", fmt.Errorf("insert layer: %w", errors.New("disk full")), http.StatusInternalServerError, "insert layer: disk full"},
		{"breaker open", docstore.ErrUnavailable, http.StatusInternalServerError, docstore.ErrUnavailable.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := statusForError(tt.err)
			if status != tt.wantStatus || message != tt.wantMessage {
				t.Errorf("statusForError(%v) = %d %q, want %d %q", tt.err, status, message, tt.wantStatus, tt.wantMessage)
			}
		})
	}
}

func TestSanitizeLogValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"line\nbreak", "line\\x0abreak"},
		{"tab\there", "tab\\x09here"},
		{"del\x7f", "del\\x7f"},
		{"unicode ✓", "unicode ✓"},
	}
	for _, tt := range tests {
		if got := sanitizeLogValue(tt.in); got != tt.want {
			t.Errorf("sanitizeLogValue(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
