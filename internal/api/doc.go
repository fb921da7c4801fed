// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

/*
Package api exposes the Aerys HTTP interface.

Routes are registered on a Chi router by Router.SetupChi:

	POST /api/location                   report the latest position
	GET  /api/location                   read the latest position
	GET  /layers                         all layers with their styles
	GET  /layers/{layer_id}              one layer without styles
	POST /upload_geojson                 multipart upload of a GeoJSON layer
	PUT  /update_styles                  replace a layer's styles
	PUT  /layers/{layer_id}/update_attributes
	GET  /api/geojson_names              layer names
	POST /update_map_view                persist the map viewport
	GET  /get_map_view                   read the map viewport
	GET  /                               server-rendered index page
	GET  /ws                             live update stream
	GET  /healthz/live, /healthz/ready   probes
	GET  /metrics                        Prometheus exposition

Successful mutations are broadcast to websocket clients through the hub.

# Errors

Every error body has the form {"error": "<message>"}. Domain sentinel errors
are mapped to a status code and client message in one place, statusForError.
Errors that map to 5xx are logged with the request's correlation fields.

# Middleware

The global stack is request id, real IP, panic recovery and CORS. Data routes
additionally get per-IP rate limiting (go-chi/httprate), security headers,
gzip compression and Prometheus instrumentation. The websocket route is kept
out of the compression group.
*/
package api
