// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

// Package docstore is a small schemaless document store abstraction with an
// embedded BadgerDB driver and a MongoDB driver.
//
// Documents are JSON-shaped maps. Every document carries a string "_id"
// holding a 24 character hex ObjectID, generated on insert when absent.
// Filters match on equality of top-level fields. Numbers read back from a
// store are json.Number (Mongo doubles stay float64); use Float64 to read them.
package docstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IDField is the primary key field of every document.
const IDField = "_id"

var (
	// ErrNotFound is returned by FindOne when no document matches.
	ErrNotFound = errors.New("document not found")

	// ErrInvalidID is returned when an identifier is not a 24 character hex ObjectID.
	ErrInvalidID = errors.New("invalid document id")

	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("document store closed")
)

// Document is a single stored record. Values are JSON types:
// nil, bool, float64, string, []interface{} and map[string]interface{}.
type Document map[string]interface{}

// ID returns the document's "_id" as a string, or "".
func (d Document) ID() string {
	id, _ := d[IDField].(string)
	return id
}

// Filter selects documents whose top-level fields equal every given value.
// A nil or empty filter matches everything.
type Filter map[string]interface{}

// UpdateResult reports how many documents an update matched and changed.
type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
}

// Store is implemented by every driver.
type Store interface {
	// InsertOne stores doc and returns its id.
	InsertOne(ctx context.Context, collection string, doc Document) (string, error)

	// Find returns all matching documents in insertion order.
	Find(ctx context.Context, collection string, filter Filter) ([]Document, error)

	// FindOne returns the first matching document or ErrNotFound.
	FindOne(ctx context.Context, collection string, filter Filter) (Document, error)

	// UpdateOne sets the given top-level fields on the first matching
	// document. It never inserts.
	UpdateOne(ctx context.Context, collection string, filter Filter, set Document) (UpdateResult, error)

	// DeleteOne removes the first matching document and reports how many were removed.
	DeleteOne(ctx context.Context, collection string, filter Filter) (int64, error)

	Ping(ctx context.Context) error
	Close() error
}

// NewID generates a new ObjectID hex string.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ParseID validates s as an ObjectID hex string and returns its canonical
// lower-case form.
func ParseID(s string) (string, error) {
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return oid.Hex(), nil
}

// DecodeJSON decodes a single JSON value from data into v. Numbers decoded
// into interface{} become json.Number so integers beyond 2^53 keep every
// digit. Trailing non-whitespace data is an error.
func DecodeJSON(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	var extra interface{}
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return errors.New("invalid character after top-level value")
	}
	return nil
}

// Normalize converts v into its plain JSON representation so values coming
// from different sources compare equal with reflect.DeepEqual. Numbers come
// back as json.Number.
func Normalize(v interface{}) (interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("normalize value: %w", err)
	}
	var out interface{}
	if err := DecodeJSON(data, &out); err != nil {
		return nil, fmt.Errorf("normalize value: %w", err)
	}
	return out, nil
}

// Float64 reads a numeric document value as returned by either driver.
func Float64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func normalizeDocument(doc Document) (Document, error) {
	n, err := Normalize(map[string]interface{}(doc))
	if err != nil {
		return nil, err
	}
	m, ok := n.(map[string]interface{})
	if !ok {
		return Document{}, nil
	}
	return Document(m), nil
}

// Matches reports whether doc satisfies filter.
func (f Filter) Matches(doc Document) bool {
	for k, want := range f {
		got, ok := doc[k]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// normalized returns a copy of f whose values are plain JSON types.
func (f Filter) normalized() (Filter, error) {
	if len(f) == 0 {
		return f, nil
	}
	out := make(Filter, len(f))
	for k, v := range f {
		n, err := Normalize(v)
		if err != nil {
			return nil, err
		}
		out[k] = n
	}
	return out, nil
}
