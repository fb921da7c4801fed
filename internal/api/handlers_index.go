// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

package api

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/tomtom215/aerys/internal/location"
	"github.com/tomtom215/aerys/internal/logging"
	"github.com/tomtom215/aerys/internal/models"
)

//go:embed templates/index.html.tmpl
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html.tmpl"))

// Shown on the index page until the first location report arrives.
const (
	defaultIndexLatitude  = 6
	defaultIndexLongitude = 5
)

type indexPageData struct {
	Location     models.LocationReport
	Layers       []models.IndexLayer
	MapView      models.MapView
	StaticAssets bool
}

// Index renders the map page with the latest location and every layer.
// A store failure is logged and the page is rendered without layers.
//
// Method: GET
// Endpoint: /
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	loc, err := h.location.Fetch()
	if errors.Is(err, location.ErrNoLocation) {
		loc = models.LocationReport{Latitude: defaultIndexLatitude, Longitude: defaultIndexLongitude}
	}

	layerList, err := h.layers.IndexLayers(ctx)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to load layers for index page")
		layerList = []models.IndexLayer{}
	}

	data := indexPageData{
		Location:     loc,
		Layers:       layerList,
		MapView:      h.mapView.Get(ctx),
		StaticAssets: h.config != nil && h.config.Web.StaticDir != "",
	}

	var buf bytes.Buffer
	if err := h.indexTemplate.Execute(&buf, data); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to execute index template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(buf.Bytes())
}
