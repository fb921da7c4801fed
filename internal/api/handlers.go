// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

package api

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/aerys/internal/config"
	"github.com/tomtom215/aerys/internal/docstore"
	"github.com/tomtom215/aerys/internal/layers"
	"github.com/tomtom215/aerys/internal/location"
	"github.com/tomtom215/aerys/internal/logging"
	"github.com/tomtom215/aerys/internal/mapview"
	ws "github.com/tomtom215/aerys/internal/websocket"
)

// defaultMaxUploadBytes applies when upload.max_bytes is not set.
const defaultMaxUploadBytes = 16 << 20

// Handler handles all HTTP requests for the API
type Handler struct {
	location      *location.Store
	layers        *layers.Repository
	mapView       *mapview.Repository
	store         docstore.Store
	wsHub         *ws.Hub
	config        *config.Config
	startTime     time.Time
	indexTemplate *template.Template
}

// NewHandler creates a new Handler. cfg may be nil in tests, in which case
// defaults are used and websocket origins are not checked.
func NewHandler(
	cfg *config.Config,
	store docstore.Store,
	loc *location.Store,
	layerRepo *layers.Repository,
	mapViewRepo *mapview.Repository,
	wsHub *ws.Hub,
) *Handler {
	return &Handler{
		location:      loc,
		layers:        layerRepo,
		mapView:       mapViewRepo,
		store:         store,
		wsHub:         wsHub,
		config:        cfg,
		startTime:     time.Now(),
		indexTemplate: indexTemplate,
	}
}

func (h *Handler) maxUploadBytes() int64 {
	if h.config == nil || h.config.Upload.MaxBytes <= 0 {
		return defaultMaxUploadBytes
	}
	return h.config.Upload.MaxBytes
}

func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin accepts requests without an Origin header (the
// location reporting apps are not browsers) and browser origins allowed by
// the CORS configuration.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || h.config == nil {
		return true
	}

	for _, allowed := range h.config.Security.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
