// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

// Package layers manages GeoJSON layers and their style documents.
//
// Layers and styles live in separate collections joined by the style's
// layer_id field. A layer has zero or one style document.
package layers

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/aerys/internal/docstore"
	"github.com/tomtom215/aerys/internal/logging"
	"github.com/tomtom215/aerys/internal/metrics"
	"github.com/tomtom215/aerys/internal/models"
)

const (
	// LayersCollection holds {layer_name, geojson_data} documents.
	LayersCollection = "layers"
	// StylesCollection holds {layer_id, styles} documents.
	StylesCollection = "styles"

	// DefaultLayerName is reported by Names for layers without a name.
	DefaultLayerName = "Unnamed Layer"
)

// DefaultAllowedExtensions is used when NewRepository is given no extensions.
var DefaultAllowedExtensions = []string{".geojson", ".json"}

var (
	ErrLayerNotFound     = errors.New("layer not found")
	ErrInvalidFormat     = errors.New("invalid file format")
	ErrMalformedGeoJSON  = errors.New("malformed GeoJSON")
	ErrMalformedStyles   = errors.New("malformed styles")
	ErrMissingAttributes = errors.New("no attributes to update")
	ErrInvalidFeatures   = errors.New("geojson_data.features is not an array of objects")
)

// Outcome is the result of an update-if-exists operation.
type Outcome int

const (
	// OutcomeNotFound means no document matched.
	OutcomeNotFound Outcome = iota
	// OutcomeUnchanged means a document matched but already held the values.
	OutcomeUnchanged
	// OutcomeUpdated means a document matched and was modified.
	OutcomeUpdated
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNotFound:
		return "not_found"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeUpdated:
		return "updated"
	default:
		return "unknown"
	}
}

func outcomeOf(res docstore.UpdateResult) Outcome {
	switch {
	case res.MatchedCount == 0:
		return OutcomeNotFound
	case res.ModifiedCount == 0:
		return OutcomeUnchanged
	default:
		return OutcomeUpdated
	}
}

// Upload is a layer file submitted for storage.
type Upload struct {
	Filename string
	Content  []byte
	// LayerName is nil when no name was submitted. The layer is then stored
	// without a layer_name field.
	LayerName *string
	// Styles is the raw JSON text of the styles form field. Empty means {}.
	Styles string
}

// Repository provides the layer operations on top of a docstore.Store.
type Repository struct {
	store      docstore.Store
	extensions map[string]bool
}

// NewRepository creates a Repository. Extensions are matched case-insensitively
// and must include the leading dot.
func NewRepository(store docstore.Store, allowedExtensions []string) *Repository {
	if len(allowedExtensions) == 0 {
		allowedExtensions = DefaultAllowedExtensions
	}
	exts := make(map[string]bool, len(allowedExtensions))
	for _, e := range allowedExtensions {
		exts[strings.ToLower(e)] = true
	}
	return &Repository{store: store, extensions: exts}
}

// Upload validates and stores a new layer together with its style document
// and returns the layer id.
//
// The layer and style inserts are separate writes. If the style insert fails
// the layer is deleted again so no layer is left without a style.
func (r *Repository) Upload(ctx context.Context, up Upload) (string, error) {
	if !r.extensions[strings.ToLower(filepath.Ext(up.Filename))] {
		metrics.RecordLayerUpload("invalid_format", int64(len(up.Content)))
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, up.Filename)
	}

	var geojson interface{}
	if err := docstore.DecodeJSON(up.Content, &geojson); err != nil {
		metrics.RecordLayerUpload("malformed", int64(len(up.Content)))
		return "", fmt.Errorf("%w: %v", ErrMalformedGeoJSON, err)
	}

	var styles interface{} = map[string]interface{}{}
	if strings.TrimSpace(up.Styles) != "" {
		if err := docstore.DecodeJSON([]byte(up.Styles), &styles); err != nil {
			metrics.RecordLayerUpload("malformed", int64(len(up.Content)))
			return "", fmt.Errorf("%w: %v", ErrMalformedStyles, err)
		}
	}

	layerDoc := docstore.Document{"geojson_data": geojson}
	if up.LayerName != nil {
		layerDoc["layer_name"] = *up.LayerName
	}
	layerID, err := r.store.InsertOne(ctx, LayersCollection, layerDoc)
	if err != nil {
		metrics.RecordLayerUpload("error", int64(len(up.Content)))
		return "", fmt.Errorf("insert layer: %w", err)
	}

	if _, err := r.store.InsertOne(ctx, StylesCollection, docstore.Document{
		"layer_id": layerID,
		"styles":   styles,
	}); err != nil {
		metrics.RecordLayerUpload("error", int64(len(up.Content)))
		// Use a fresh context so a cancelled request still compensates.
		if _, delErr := r.store.DeleteOne(context.WithoutCancel(ctx), LayersCollection, docstore.Filter{docstore.IDField: layerID}); delErr != nil {
			logging.Ctx(ctx).Error().Err(delErr).Str("layer_id", layerID).Msg("Failed to remove layer after style insert failure")
		}
		return "", fmt.Errorf("insert styles: %w", err)
	}

	metrics.RecordLayerUpload("success", int64(len(up.Content)))
	logging.Ctx(ctx).Info().Str("layer_id", layerID).Str("layer_name", displayName(up.LayerName)).Int("bytes", len(up.Content)).Msg("Layer uploaded")
	return layerID, nil
}

// List returns every layer joined with its styles, in store order.
func (r *Repository) List(ctx context.Context) ([]models.LayerWithStyles, error) {
	layerDocs, err := r.store.Find(ctx, LayersCollection, nil)
	if err != nil {
		return nil, fmt.Errorf("list layers: %w", err)
	}
	styleDocs, err := r.store.Find(ctx, StylesCollection, nil)
	if err != nil {
		return nil, fmt.Errorf("list styles: %w", err)
	}

	out := make([]models.LayerWithStyles, 0, len(layerDocs))
	for _, doc := range layerDocs {
		l := layerFromDocument(doc)
		var styles interface{} = map[string]interface{}{}
		for _, s := range styleDocs {
			if idString(s["layer_id"]) == l.ID {
				styles = s["styles"]
				break
			}
		}
		out = append(out, models.LayerWithStyles{Layer: l, Styles: styles})
	}
	return out, nil
}

// Get returns one layer without its styles.
func (r *Repository) Get(ctx context.Context, layerID string) (models.Layer, error) {
	id, err := docstore.ParseID(layerID)
	if err != nil {
		return models.Layer{}, err
	}

	doc, err := r.store.FindOne(ctx, LayersCollection, docstore.Filter{docstore.IDField: id})
	if errors.Is(err, docstore.ErrNotFound) {
		return models.Layer{}, ErrLayerNotFound
	}
	if err != nil {
		return models.Layer{}, fmt.Errorf("get layer: %w", err)
	}
	return layerFromDocument(doc), nil
}

// UpdateStyles replaces the styles of an existing style document. It never
// creates a style document.
func (r *Repository) UpdateStyles(ctx context.Context, layerID string, styles interface{}) (Outcome, error) {
	id, err := docstore.ParseID(layerID)
	if err != nil {
		return OutcomeNotFound, err
	}

	res, err := r.store.UpdateOne(ctx, StylesCollection,
		docstore.Filter{"layer_id": id},
		docstore.Document{"styles": styles},
	)
	if err != nil {
		return OutcomeNotFound, fmt.Errorf("update styles: %w", err)
	}
	return outcomeOf(res), nil
}

// UpdateAttributes sets the properties of every feature in the layer to
// attrs. Every feature ends up sharing the same properties object.
// Layers without a geojson_data.features field are reported as not found.
func (r *Repository) UpdateAttributes(ctx context.Context, layerID string, attrs interface{}) (Outcome, error) {
	id, err := docstore.ParseID(layerID)
	if err != nil {
		return OutcomeNotFound, err
	}
	if isEmpty(attrs) {
		return OutcomeNotFound, ErrMissingAttributes
	}

	filter := docstore.Filter{docstore.IDField: id}
	doc, err := r.store.FindOne(ctx, LayersCollection, filter)
	if errors.Is(err, docstore.ErrNotFound) {
		return OutcomeNotFound, nil
	}
	if err != nil {
		return OutcomeNotFound, fmt.Errorf("get layer: %w", err)
	}

	geojson, ok := doc["geojson_data"].(map[string]interface{})
	if !ok {
		return OutcomeNotFound, nil
	}
	rawFeatures, ok := geojson["features"]
	if !ok {
		return OutcomeNotFound, nil
	}
	features, ok := rawFeatures.([]interface{})
	if !ok {
		return OutcomeNotFound, ErrInvalidFeatures
	}

	updated := make([]interface{}, len(features))
	for i, f := range features {
		feature, ok := f.(map[string]interface{})
		if !ok {
			return OutcomeNotFound, ErrInvalidFeatures
		}
		copied := make(map[string]interface{}, len(feature)+1)
		for k, v := range feature {
			copied[k] = v
		}
		copied["properties"] = attrs
		updated[i] = copied
	}

	newGeoJSON := make(map[string]interface{}, len(geojson))
	for k, v := range geojson {
		newGeoJSON[k] = v
	}
	newGeoJSON["features"] = updated

	res, err := r.store.UpdateOne(ctx, LayersCollection, filter, docstore.Document{"geojson_data": newGeoJSON})
	if err != nil {
		return OutcomeNotFound, fmt.Errorf("update attributes: %w", err)
	}
	return outcomeOf(res), nil
}

// Names returns the name of every layer in store order.
func (r *Repository) Names(ctx context.Context) ([]string, error) {
	docs, err := r.store.Find(ctx, LayersCollection, nil)
	if err != nil {
		return nil, fmt.Errorf("list layers: %w", err)
	}

	log := logging.Ctx(ctx)
	names := make([]string, 0, len(docs))
	for _, doc := range docs {
		name, ok := doc["layer_name"].(string)
		if !ok {
			name = DefaultLayerName
		}
		log.Debug().Str("layer_name", name).Msg("Layer name")
		names = append(names, name)
	}
	return names, nil
}

// IndexLayers returns the name and GeoJSON of every layer for the index page.
func (r *Repository) IndexLayers(ctx context.Context) ([]models.IndexLayer, error) {
	docs, err := r.store.Find(ctx, LayersCollection, nil)
	if err != nil {
		return nil, fmt.Errorf("list layers: %w", err)
	}
	out := make([]models.IndexLayer, 0, len(docs))
	for _, doc := range docs {
		l := layerFromDocument(doc)
		out = append(out, models.IndexLayer{Name: displayName(l.Name), GeoJSON: l.GeoJSON})
	}
	return out, nil
}

func layerFromDocument(doc docstore.Document) models.Layer {
	l := models.Layer{
		ID:      doc.ID(),
		GeoJSON: doc["geojson_data"],
	}
	if name, ok := doc["layer_name"].(string); ok {
		l.Name = &name
	}
	return l
}

// displayName returns name, or DefaultLayerName for a layer stored without one.
func displayName(name *string) string {
	if name == nil {
		return DefaultLayerName
	}
	return *name
}

func idString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// isEmpty reports whether an attributes payload carries nothing to set.
func isEmpty(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case map[string]interface{}:
		return len(t) == 0
	case []interface{}:
		return len(t) == 0
	case string:
		return t == ""
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 0
	case float64:
		return t == 0
	case bool:
		return !t
	default:
		return false
	}
}
