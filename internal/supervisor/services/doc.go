// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

/*
Package services adapts Aerys components to suture's Serve(ctx) error
lifecycle.

  - HTTPServerService wraps an *http.Server. ListenAndServe runs until the
    context is cancelled, then Shutdown drains connections within the
    configured timeout.
  - WebSocketHubService runs websocket.Hub.RunWithContext.
  - StoreMonitorService pings the document store on an interval, exports the
    result as the store_up gauge and logs health transitions.

Every service implements fmt.Stringer so supervisor events name it.
*/
package services
