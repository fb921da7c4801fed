// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

/*
Package supervisor runs the long-lived Aerys services under a suture v4
supervisor tree.

Services are grouped into three child supervisors so that restarts in one
group do not disturb the others:

	RootSupervisor ("aerys")
	├── DataSupervisor ("data-layer")
	│   └── StoreMonitorService
	├── MessagingSupervisor ("messaging-layer")
	│   └── WebSocketHubService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with suture's failure threshold, decay and
backoff settings. Cancelling the context passed to Serve stops every service;
services that do not return within ShutdownTimeout are listed by
UnstoppedServiceReport.

Supervisor events are logged through sutureslog, which writes to an
*slog.Logger. Pass logging.NewSlogLogger() so the events end up in the
zerolog output with the rest of the application logs:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewStoreMonitorService(store, 30*time.Second))
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	err = tree.Serve(ctx)

The service adapters live in the services subpackage.
*/
package supervisor
