// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

// Package logging provides centralized zerolog-based structured logging for Aerys.
//
// JSON output is the default and is meant for production. Console output is
// human-readable and meant for development.
//
// # Quick Start
//
//	import "github.com/tomtom215/aerys/internal/logging"
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("layer_id", id).Msg("Layer uploaded")
//	logging.Error().Err(err).Msg("Failed to load layers")
//
// # Configuration
//
//	LOG_LEVEL   - trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - json, console (default: json)
//	LOG_CALLER  - include caller file:line (default: false)
//
// The variables are read by the config package and passed to Init.
//
// # Request Context
//
// The request ID middleware stores the request ID in the context. Ctx returns
// a logger that carries it, so every line logged for a request can be joined:
//
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("Invalid upload")
//
// # slog Adapter
//
// The suture supervisor logs through log/slog. NewSlogLogger returns an
// *slog.Logger whose records are written by the global zerolog logger:
//
//	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), cfg)
//
// # Testing
//
// NewTestLogger writes to any io.Writer, and SetLogger replaces the global
// logger:
//
//	var buf bytes.Buffer
//	logging.SetLogger(logging.NewTestLogger(&buf))
package logging
