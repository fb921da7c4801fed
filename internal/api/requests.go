// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

package api

// Request bodies use pointer fields so a missing key can be told apart from
// a zero value.

// LocationRequest is the body of POST /api/location.
type LocationRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required"`
	Longitude *float64 `json:"longitude" validate:"required"`
	Timestamp *float64 `json:"timestamp" validate:"required"`
}

// MapViewRequest is the body of POST /update_map_view.
type MapViewRequest struct {
	Lat  *float64 `json:"lat" validate:"required"`
	Lng  *float64 `json:"lng" validate:"required"`
	Zoom *float64 `json:"zoom" validate:"required"`
}

// UpdateStylesRequest is the body of PUT /update_styles. LayerID is left
// untyped so a non-string id is reported as a bad id rather than bad JSON.
type UpdateStylesRequest struct {
	LayerID interface{} `json:"layer_id"`
	Styles  interface{} `json:"styles"`
}

// UpdateAttributesRequest is the body of PUT /layers/{layer_id}/update_attributes.
type UpdateAttributesRequest struct {
	UpdatedAttributes interface{} `json:"updated_attributes"`
}
