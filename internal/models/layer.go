// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

package models

// Layer is a stored GeoJSON layer. ID is the 24 character hex identifier
// assigned by the document store.
type Layer struct {
	ID string `json:"layer_id"`
	// Name is nil for layers uploaded without a name and encodes as null.
	Name    *string     `json:"layer_name"`
	GeoJSON interface{} `json:"geojson_data"`
}

// LayerWithStyles is a Layer joined with its style document. Styles is an
// empty object when the layer has no style document.
type LayerWithStyles struct {
	Layer
	Styles interface{} `json:"styles"`
}

// LayerUploaded is returned after a successful upload.
type LayerUploaded struct {
	Message string `json:"message"`
	LayerID string `json:"layer_id"`
}

// IndexLayer is the subset of a layer rendered on the index page.
type IndexLayer struct {
	Name    string      `json:"layer_name"`
	GeoJSON interface{} `json:"geojson_data"`
}
