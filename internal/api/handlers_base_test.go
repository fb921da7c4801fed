// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/aerys/internal/config"
	"github.com/tomtom215/aerys/internal/docstore"
	"github.com/tomtom215/aerys/internal/layers"
	"github.com/tomtom215/aerys/internal/location"
	"github.com/tomtom215/aerys/internal/logging"
	"github.com/tomtom215/aerys/internal/mapview"
	ws "github.com/tomtom215/aerys/internal/websocket"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "error",
		Format: "console",
		Output: io.Discard,
	})
}

// testConfig returns a config with rate limiting disabled.
func testConfig() *config.Config {
	return &config.Config{
		Upload: config.UploadConfig{
			MaxBytes:          1 << 20,
			AllowedExtensions: []string{".geojson", ".json"},
		},
		Security: config.SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: true,
		},
	}
}

// testEnv bundles a handler with the store it runs on.
type testEnv struct {
	handler *Handler
	store   docstore.Store
	hub     *ws.Hub
	router  http.Handler
}

func setupTestEnv(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()

	store, err := docstore.OpenBadger(docstore.BadgerOptions{InMemory: true})
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	hub := ws.NewHub()
	h := NewHandler(
		cfg,
		store,
		location.NewStore(),
		layers.NewRepository(store, cfg.Upload.AllowedExtensions),
		mapview.NewRepository(store),
		hub,
	)
	return &testEnv{
		handler: h,
		store:   store,
		hub:     hub,
		router:  NewRouter(h, cfg).SetupChi(),
	}
}

// runHub starts the environment's hub until the test ends.
func (e *testEnv) runHub(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = e.hub.RunWithContext(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// upload posts a multipart upload. An empty filename omits the file part.
func (e *testEnv) upload(t *testing.T, filename, content, layerName, styles string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, filename, content, layerName, styles)
	req := httptest.NewRequest(http.MethodPost, "/upload_geojson", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// mustUpload uploads a layer and returns its id.
func (e *testEnv) mustUpload(t *testing.T, layerName, geojson, styles string) string {
	t.Helper()
	rec := e.upload(t, "layer.geojson", geojson, layerName, styles)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp map[string]interface{}
	decodeResponse(t, rec, &resp)
	id, _ := resp["layer_id"].(string)
	if id == "" {
		t.Fatalf("upload response has no layer_id: %s", rec.Body.String())
	}
	return id
}

func multipartBody(t *testing.T, filename, content, layerName, styles string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if layerName != "" {
		if err := mw.WriteField("layer_name", layerName); err != nil {
			t.Fatal(err)
		}
	}
	if styles != "" {
		if err := mw.WriteField("styles", styles); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// assertError checks status and the {"error": ...} body.
func assertError(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int, wantMessage string) {
	t.Helper()
	if rec.Code != wantStatus {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, wantStatus, rec.Body.String())
	}
	var resp map[string]interface{}
	decodeResponse(t, rec, &resp)
	if resp["error"] != wantMessage {
		t.Errorf("error = %v, want %q", resp["error"], wantMessage)
	}
}

// assertMessage checks status and the {"message": ...} body.
func assertMessage(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int, wantMessage string) {
	t.Helper()
	if rec.Code != wantStatus {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, wantStatus, rec.Body.String())
	}
	var resp map[string]interface{}
	decodeResponse(t, rec, &resp)
	if resp["message"] != wantMessage {
		t.Errorf("message = %v, want %q", resp["message"], wantMessage)
	}
}

const testFeatureCollection = `{
	"type": "FeatureCollection",
	"features": [
		{"type": "Feature", "geometry": {"type": "Point", "coordinates": [5, 6]}, "properties": {"name": "a"}},
		{"type": "Feature", "geometry": {"type": "Point", "coordinates": [7, 8]}, "properties": {"name": "b"}}
	]
}`
