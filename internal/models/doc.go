// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

/*
Package models defines the data structures shared by the Aerys repositories,
HTTP handlers and websocket messages.

Key Components:

  - LocationReport: latest GPS fix received from the tracking client
  - Layer / LayerWithStyles: a named GeoJSON layer, optionally joined with its styles
  - MapView: the persisted map viewport (center and zoom)
  - MessageResponse / ErrorResponse: flat JSON bodies returned by the API

GeoJSON and style payloads are kept as decoded JSON values (interface{}) and
are never validated against a schema. They round trip through the document
store unchanged.
*/
package models
