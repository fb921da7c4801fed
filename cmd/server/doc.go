// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

/*
Package main is the entry point for the Aerys server.

Aerys receives position reports from a tracking device, stores GeoJSON map
layers with their display styles, remembers the map view, and serves a
single-page map UI. Connected browsers receive every change over a WebSocket.

# Application Architecture

Long-lived components run under a Suture v4 supervisor tree:

	RootSupervisor ("aerys")
	├── DataSupervisor ("data-layer")
	│   └── Store monitor (store_up gauge)
	├── MessagingSupervisor ("messaging-layer")
	│   └── WebSocket Hub
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router)

Initialization order:

 1. Configuration: Koanf v2 (defaults, config file, environment)
 2. Logging: zerolog with JSON or console output
 3. Document store: BadgerDB or MongoDB, optionally behind a circuit breaker
 4. Repositories: location, layers, map view
 5. WebSocket hub and HTTP router
 6. Supervisor tree, until SIGINT or SIGTERM

# Configuration

Environment variables (a config.yaml or CONFIG_PATH file is also read):

	HTTP_PORT=5000
	HTTP_HOST=0.0.0.0
	STORE_DRIVER=badger          # badger or mongo
	BADGER_PATH=/data/aerys
	MONGO_URI=mongodb://localhost:27017
	MONGO_DATABASE=geojson_db
	UPLOAD_MAX_BYTES=33554432
	CORS_ORIGINS=*
	RATE_LIMIT_REQUESTS=100
	STATIC_DIR=                  # serve /static from this directory
	LOG_LEVEL=info
	LOG_FORMAT=json

# Shutdown

On SIGINT or SIGTERM the supervisor context is cancelled. The HTTP server
drains within SHUTDOWN_TIMEOUT, the hub closes client connections, and the
document store is closed last.
*/
package main
