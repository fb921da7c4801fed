// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

package models

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestLayerWithStyles_FlattensEmbeddedLayer(t *testing.T) {
	t.Parallel()

	name := "parks"
	l := LayerWithStyles{
		Layer:  Layer{ID: "656565656565656565656565", Name: &name, GeoJSON: map[string]interface{}{"type": "FeatureCollection"}},
		Styles: map[string]interface{}{},
	}
	data, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	for _, key := range []string{"layer_id", "layer_name", "geojson_data", "styles"} {
		if _, ok := got[key]; !ok {
			t.Errorf("missing key %q in %s", key, data)
		}
	}
	if _, ok := got["Layer"]; ok {
		t.Errorf("embedded Layer should not be nested: %s", data)
	}
}

func TestLayer_UnnamedEncodesNull(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Layer{ID: "656565656565656565656565"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"layer_name":null`) {
		t.Errorf("Marshal() = %s, want layer_name null", data)
	}
}

func TestLocationReport_IntegralTimestampEncoding(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(LocationReport{Latitude: 51.5, Longitude: -0.1, Timestamp: 1700000000, ReadableTime: "2023-11-14 22:13:20"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"latitude":51.5,"longitude":-0.1,"timestamp":1700000000,"readable_time":"2023-11-14 22:13:20"}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}
