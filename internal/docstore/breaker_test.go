// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

package docstore

import (
	"context"
	"errors"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

// failingStore returns err from every operation.
type failingStore struct {
	err   error
	calls int
}

func (f *failingStore) InsertOne(context.Context, string, Document) (string, error) {
	f.calls++
	return "", f.err
}

func (f *failingStore) Find(context.Context, string, Filter) ([]Document, error) {
	f.calls++
	return nil, f.err
}

func (f *failingStore) FindOne(context.Context, string, Filter) (Document, error) {
	f.calls++
	return nil, f.err
}

func (f *failingStore) UpdateOne(context.Context, string, Filter, Document) (UpdateResult, error) {
	f.calls++
	return UpdateResult{}, f.err
}

func (f *failingStore) DeleteOne(context.Context, string, Filter) (int64, error) {
	f.calls++
	return 0, f.err
}

func (f *failingStore) Ping(context.Context) error {
	f.calls++
	return f.err
}

func (f *failingStore) Close() error { return nil }

func TestBreakerStore_OpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	inner := &failingStore{err: errors.New("connection refused")}
	b := NewBreakerStore(inner, BreakerOptions{Name: "test-open", MaxFailures: 2, Timeout: time.Minute})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := b.Ping(ctx); err == nil || errors.Is(err, ErrUnavailable) {
			t.Fatalf("Ping() #%d error = %v, want backend error", i, err)
		}
	}
	if b.State() != gobreaker.StateOpen {
		t.Fatalf("State() = %v, want open", b.State())
	}

	_, err := b.Find(ctx, "layers", nil)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Find() while open error = %v, want ErrUnavailable", err)
	}
	if inner.calls != 2 {
		t.Errorf("inner store called %d times, want 2", inner.calls)
	}
}

func TestBreakerStore_NotFoundIsNotAFailure(t *testing.T) {
	t.Parallel()

	inner := &failingStore{err: ErrNotFound}
	b := NewBreakerStore(inner, BreakerOptions{Name: "test-notfound", MaxFailures: 1})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := b.FindOne(ctx, "layers", Filter{IDField: NewID()}); !errors.Is(err, ErrNotFound) {
			t.Fatalf("FindOne() error = %v, want ErrNotFound", err)
		}
	}
	if b.State() != gobreaker.StateClosed {
		t.Errorf("State() = %v, want closed", b.State())
	}
}

func TestBreakerStore_PassesThroughResults(t *testing.T) {
	t.Parallel()

	inner := newTestBadgerStore(t)
	b := NewBreakerStore(inner, BreakerOptions{Name: "test-pass"})
	ctx := context.Background()

	id, err := b.InsertOne(ctx, "layers", Document{"layer_name": "roads"})
	if err != nil {
		t.Fatalf("InsertOne() error = %v", err)
	}
	doc, err := b.FindOne(ctx, "layers", Filter{IDField: id})
	if err != nil || doc["layer_name"] != "roads" {
		t.Fatalf("FindOne() = %v, %v", doc, err)
	}
	res, err := b.UpdateOne(ctx, "layers", Filter{IDField: id}, Document{"layer_name": "rails"})
	if err != nil || res.ModifiedCount != 1 {
		t.Fatalf("UpdateOne() = %+v, %v", res, err)
	}
	docs, err := b.Find(ctx, "layers", nil)
	if err != nil || len(docs) != 1 {
		t.Fatalf("Find() = %v, %v", docs, err)
	}
	n, err := b.DeleteOne(ctx, "layers", Filter{IDField: id})
	if err != nil || n != 1 {
		t.Fatalf("DeleteOne() = %d, %v", n, err)
	}
}
