// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

package docstore

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/aerys/internal/logging"
	"github.com/tomtom215/aerys/internal/metrics"
)

// ErrUnavailable is returned while the circuit breaker is open.
var ErrUnavailable = errors.New("document store unavailable")

// BreakerOptions configures NewBreakerStore.
type BreakerOptions struct {
	Name string
	// MaxFailures is the number of consecutive failures that opens the circuit.
	MaxFailures uint32
	// Timeout is how long the circuit stays open before probing again.
	Timeout time.Duration
}

// BreakerStore guards a Store with a circuit breaker so a dead backend fails
// fast instead of stalling every request.
type BreakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker[any]
	name string
}

// NewBreakerStore wraps next. Lookups that simply miss (ErrNotFound) and
// cancelled requests do not count as failures.
func NewBreakerStore(next Store, opts BreakerOptions) *BreakerStore {
	if opts.Name == "" {
		opts.Name = "docstore"
	}
	if opts.MaxFailures == 0 {
		opts.MaxFailures = 5
	}

	metrics.CircuitBreakerState.WithLabelValues(opts.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        opts.Name,
		MaxRequests: 1,
		Timeout:     opts.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			trip := counts.ConsecutiveFailures >= opts.MaxFailures
			if trip {
				logging.Warn().Str("breaker", opts.Name).Uint32("consecutive_failures", counts.ConsecutiveFailures).Msg("Opening circuit")
			}
			return trip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, ErrInvalidID) ||
				errors.Is(err, context.Canceled)
		},
	})

	return &BreakerStore{next: next, cb: cb, name: opts.Name}
}

// State returns the breaker state.
func (b *BreakerStore) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerStore) execute(fn func() (any, error)) (any, error) {
	result, err := b.cb.Execute(fn)
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		return nil, errors.Join(ErrUnavailable, err)
	case err != nil:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		return result, err
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
		return result, nil
	}
}

func (b *BreakerStore) InsertOne(ctx context.Context, collection string, doc Document) (string, error) {
	r, err := b.execute(func() (any, error) { return b.next.InsertOne(ctx, collection, doc) })
	id, _ := r.(string)
	return id, err
}

func (b *BreakerStore) Find(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	r, err := b.execute(func() (any, error) { return b.next.Find(ctx, collection, filter) })
	docs, _ := r.([]Document)
	return docs, err
}

func (b *BreakerStore) FindOne(ctx context.Context, collection string, filter Filter) (Document, error) {
	r, err := b.execute(func() (any, error) { return b.next.FindOne(ctx, collection, filter) })
	doc, _ := r.(Document)
	return doc, err
}

func (b *BreakerStore) UpdateOne(ctx context.Context, collection string, filter Filter, set Document) (UpdateResult, error) {
	r, err := b.execute(func() (any, error) { return b.next.UpdateOne(ctx, collection, filter, set) })
	res, _ := r.(UpdateResult)
	return res, err
}

func (b *BreakerStore) DeleteOne(ctx context.Context, collection string, filter Filter) (int64, error) {
	r, err := b.execute(func() (any, error) { return b.next.DeleteOne(ctx, collection, filter) })
	n, _ := r.(int64)
	return n, err
}

func (b *BreakerStore) Ping(ctx context.Context) error {
	_, err := b.execute(func() (any, error) { return nil, b.next.Ping(ctx) })
	return err
}

// Close bypasses the breaker.
func (b *BreakerStore) Close() error {
	return b.next.Close()
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
