// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/aerys/internal/config"
	"github.com/tomtom215/aerys/internal/logging"
	"github.com/tomtom215/aerys/internal/middleware"
)

// compressionLevel is the gzip level used for JSON and HTML responses.
const compressionLevel = 5

// Router wires the Handler into a Chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	staticDir     string
}

// NewRouter creates a Router. cfg may be nil, in which case middleware
// defaults apply and no static directory is served.
func NewRouter(handler *Handler, cfg *config.Config) *Router {
	router := &Router{handler: handler}
	if cfg == nil {
		router.chiMiddleware = NewChiMiddleware(nil)
		return router
	}
	router.chiMiddleware = NewChiMiddlewareFromConfig(cfg.Security)
	router.staticDir = cfg.Web.StaticDir
	return router
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()
	h := router.handler

	// Global middleware, applied to every route in order.
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	r.Route("/healthz", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitHealth))
		r.Use(APISecurityHeaders())
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chimiddleware.Compress(compressionLevel, "application/json", "text/html"))
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Get("/", h.Index)

		r.Post("/api/location", h.ReceiveLocation)
		r.Get("/api/location", h.GetLocation)
		r.Get("/api/geojson_names", h.GeoJSONNames)

		r.Get("/layers", h.Layers)
		r.Get("/layers/{layer_id}", h.Layer)
		r.Put("/layers/{layer_id}/update_attributes", h.UpdateAttributes)
		r.Post("/upload_geojson", h.UploadGeoJSON)
		r.Put("/update_styles", h.UpdateStyles)

		r.Post("/update_map_view", h.UpdateMapView)
		r.Get("/get_map_view", h.GetMapView)
	})

	// The websocket route hijacks the connection, so it stays out of the
	// compression group.
	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitWebSocket))
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Get("/ws", h.WebSocket)
	})

	r.Handle("/metrics", promhttp.Handler())

	if router.staticDir != "" {
		logging.Info().Str("dir", router.staticDir).Msg("Serving static assets under /static/")
		fileServer := http.StripPrefix("/static/", http.FileServer(http.Dir(router.staticDir)))
		r.Handle("/static/*", fileServer)
	}

	return r
}
