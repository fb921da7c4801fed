// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

/*
Package websocket pushes live map updates to connected browsers.

It uses gorilla/websocket with a hub-client architecture: the Hub owns the
set of connected clients and fans every broadcast out to them, and each
Client runs a read pump and a write pump on its own goroutines.

	┌──────────┐
	│   Hub    │ ← Broadcast* from the HTTP handlers
	└────┬─────┘
	     │
	┌────┴─────┬─────────┬─────────┐
	│ Client1  │ Client2 │ Client3 │
	└──────────┴─────────┴─────────┘

Message Types:

  - location_update: a new location report was accepted
  - layer_uploaded: a layer was stored (layer_id, layer_name)
  - styles_updated: a layer's styles changed (layer_id, styles)
  - attributes_updated: a layer's feature properties changed (layer_id)
  - map_view_updated: the persisted map view changed
  - ping / pong: client keepalive

Every message is a JSON object {"type": ..., "data": ...}.

The hub runs under the supervisor via RunWithContext. Broadcasts never block
the caller: when the broadcast buffer is full the message is dropped and
counted in the websocket error metric.
*/
package websocket
