// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

package api

import (
	"net/http"
	"strings"
	"testing"
)

func TestIndex_DefaultLocation(t *testing.T) {
	t.Parallel()
	env := setupTestEnv(t, testConfig())

	rec := env.do(t, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}

	body := rec.Body.String()
	for _, want := range []string{"latitude:  6 ", "longitude:  5 ", "geojsonLayers: []"} {
		if !strings.Contains(body, want) {
			t.Errorf("index page missing %q", want)
		}
	}
	if strings.Contains(body, "last fix") {
		t.Error("index page shows a fix time before any report")
	}
}

func TestIndex_RendersLocationAndLayers(t *testing.T) {
	t.Parallel()
	env := setupTestEnv(t, testConfig())

	env.do(t, http.MethodPost, "/api/location", `{"latitude":51.5,"longitude":-0.1,"timestamp":1700000000}`)
	env.mustUpload(t, "parks", testFeatureCollection, `{"color":"green"}`)

	body := env.do(t, http.MethodGet, "/", "").Body.String()
	for _, want := range []string{
		"latitude:  51.5 ",
		"2023-11-14 22:13:20",
		`"layer_name":"parks"`,
		`"type":"FeatureCollection"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("index page missing %q", want)
		}
	}
}

func TestIndex_EscapesLayerNames(t *testing.T) {
	t.Parallel()
	env := setupTestEnv(t, testConfig())

	env.mustUpload(t, "</script><script>alert(1)</script>", testFeatureCollection, "")

	body := env.do(t, http.MethodGet, "/", "").Body.String()
	if strings.Contains(body, "<script>alert(1)") {
		t.Error("layer name was rendered unescaped")
	}
}

func TestIndex_StaticScriptOnlyWhenConfigured(t *testing.T) {
	t.Parallel()

	env := setupTestEnv(t, testConfig())
	if strings.Contains(env.do(t, http.MethodGet, "/", "").Body.String(), "/static/app.js") {
		t.Error("static script referenced without web.static_dir")
	}

	cfg := testConfig()
	cfg.Web.StaticDir = t.TempDir()
	env = setupTestEnv(t, cfg)
	if !strings.Contains(env.do(t, http.MethodGet, "/", "").Body.String(), "/static/app.js") {
		t.Error("static script missing with web.static_dir set")
	}
}
