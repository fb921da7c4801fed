// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

/*
Package middleware provides HTTP middleware shared by the Aerys router.

  - RequestID: assigns or propagates X-Request-ID and seeds the logging context
  - PrometheusMetrics: records request count, latency and in-flight gauge

Both use the http.HandlerFunc signature and are adapted to chi's
func(http.Handler) http.Handler form by the api package.
*/
package middleware
