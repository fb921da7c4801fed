// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/tomtom215/aerys/internal/mapview"
	"github.com/tomtom215/aerys/internal/models"
)

func getMapView(t *testing.T, env *testEnv) models.MapView {
	t.Helper()
	rec := env.do(t, http.MethodGet, "/get_map_view", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /get_map_view status = %d", rec.Code)
	}
	var view models.MapView
	decodeResponse(t, rec, &view)
	return view
}

func TestGetMapView_Defaults(t *testing.T) {
	t.Parallel()
	env := setupTestEnv(t, testConfig())

	want := models.MapView{Lat: 6, Lng: 5, Zoom: 13}
	if got := getMapView(t, env); got != want {
		t.Errorf("default map view = %+v, want %+v", got, want)
	}
}

func TestUpdateMapView_TwoSetsLeaveOneRecord(t *testing.T) {
	t.Parallel()
	env := setupTestEnv(t, testConfig())

	assertMessage(t, env.do(t, http.MethodPost, "/update_map_view", `{"lat":10,"lng":20,"zoom":5}`),
		http.StatusOK, "Map view updated successfully")
	assertMessage(t, env.do(t, http.MethodPost, "/update_map_view", `{"lat":-33.9,"lng":18.4,"zoom":11}`),
		http.StatusOK, "Map view updated successfully")

	want := models.MapView{Lat: -33.9, Lng: 18.4, Zoom: 11}
	if got := getMapView(t, env); got != want {
		t.Errorf("map view = %+v, want %+v", got, want)
	}

	docs, err := env.store.Find(context.Background(), mapview.Collection, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 {
		t.Errorf("map view records = %d, want 1", len(docs))
	}
}

func TestUpdateMapView_ZeroIsValid(t *testing.T) {
	t.Parallel()
	env := setupTestEnv(t, testConfig())

	assertMessage(t, env.do(t, http.MethodPost, "/update_map_view", `{"lat":0,"lng":0,"zoom":0}`),
		http.StatusOK, "Map view updated successfully")

	if got := getMapView(t, env); got != (models.MapView{}) {
		t.Errorf("map view = %+v, want all zero", got)
	}
}

func TestUpdateMapView_Invalid(t *testing.T) {
	t.Parallel()
	env := setupTestEnv(t, testConfig())

	tests := []struct {
		name string
		body string
	}{
		{"missing zoom", `{"lat":1,"lng":2}`},
		{"null lat", `{"lat":null,"lng":2,"zoom":3}`},
		{"string lng", `{"lat":1,"lng":"east","zoom":3}`},
		{"empty object", `{}`},
		{"malformed", `{"lat":`},
		{"empty body", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertError(t, env.do(t, http.MethodPost, "/update_map_view", tt.body), http.StatusBadRequest, "Invalid data")
		})
	}

	want := models.MapView{Lat: 6, Lng: 5, Zoom: 13}
	if got := getMapView(t, env); got != want {
		t.Errorf("map view after rejected updates = %+v, want defaults", got)
	}
}

func TestGetMapView_StoreFailureReturnsDefaults(t *testing.T) {
	t.Parallel()
	env := setupTestEnv(t, testConfig())

	env.do(t, http.MethodPost, "/update_map_view", `{"lat":1,"lng":2,"zoom":3}`)
	if err := env.store.Close(); err != nil {
		t.Fatal(err)
	}

	want := models.MapView{Lat: 6, Lng: 5, Zoom: 13}
	if got := getMapView(t, env); got != want {
		t.Errorf("map view with closed store = %+v, want defaults", got)
	}
}
