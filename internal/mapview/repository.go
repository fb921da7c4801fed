// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

// Package mapview persists the single map viewport shown by the map client.
package mapview

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tomtom215/aerys/internal/docstore"
	"github.com/tomtom215/aerys/internal/logging"
	"github.com/tomtom215/aerys/internal/models"
)

// Collection holds at most one {lat, lng, zoom} document.
const Collection = "map_view"

// Defaults applied to missing fields and to an empty collection.
const (
	DefaultLat  = 6.0
	DefaultLng  = 5.0
	DefaultZoom = 13.0
)

// ErrInvalidData is returned by Set when a value is missing.
var ErrInvalidData = errors.New("invalid data")

// Repository reads and writes the map view.
type Repository struct {
	store docstore.Store

	// mu serializes Set so two first writes cannot both insert.
	mu sync.Mutex
}

// NewRepository creates a Repository over store.
func NewRepository(store docstore.Store) *Repository {
	return &Repository{store: store}
}

// Set stores the viewport, updating the existing record or inserting the
// first one. Nil values are rejected; zero is a valid value.
func (r *Repository) Set(ctx context.Context, lat, lng, zoom *float64) (models.MapView, error) {
	if lat == nil || lng == nil || zoom == nil {
		return models.MapView{}, ErrInvalidData
	}
	view := models.MapView{Lat: *lat, Lng: *lng, Zoom: *zoom}
	fields := docstore.Document{"lat": view.Lat, "lng": view.Lng, "zoom": view.Zoom}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, err := r.store.FindOne(ctx, Collection, nil)
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		if _, err := r.store.InsertOne(ctx, Collection, fields); err != nil {
			return models.MapView{}, fmt.Errorf("insert map view: %w", err)
		}
	case err != nil:
		return models.MapView{}, fmt.Errorf("find map view: %w", err)
	default:
		if _, err := r.store.UpdateOne(ctx, Collection, docstore.Filter{docstore.IDField: existing.ID()}, fields); err != nil {
			return models.MapView{}, fmt.Errorf("update map view: %w", err)
		}
	}

	logging.Ctx(ctx).Debug().
		Float64("lat", view.Lat).
		Float64("lng", view.Lng).
		Float64("zoom", view.Zoom).
		Msg("Map view updated")
	return view, nil
}

// Get returns the stored viewport with defaults for missing fields. It never
// fails: store errors are logged and the defaults are returned.
func (r *Repository) Get(ctx context.Context) models.MapView {
	view := models.MapView{Lat: DefaultLat, Lng: DefaultLng, Zoom: DefaultZoom}

	doc, err := r.store.FindOne(ctx, Collection, nil)
	if err != nil {
		if !errors.Is(err, docstore.ErrNotFound) {
			logging.Ctx(ctx).Warn().Err(err).Msg("Failed to read map view, using defaults")
		}
		return view
	}

	if v, ok := docstore.Float64(doc["lat"]); ok {
		view.Lat = v
	}
	if v, ok := docstore.Float64(doc["lng"]); ok {
		view.Lng = v
	}
	if v, ok := docstore.Float64(doc["zoom"]); ok {
		view.Zoom = v
	}
	return view
}
