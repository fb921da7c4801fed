// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

package docstore

import (
	"context"
	"fmt"

	"github.com/tomtom215/aerys/internal/config"
	"github.com/tomtom215/aerys/internal/logging"
)

// Open builds the configured driver and, when enabled, wraps it in a
// circuit breaker.
func Open(ctx context.Context, cfg *config.StoreConfig) (Store, error) {
	var (
		store Store
		err   error
	)

	switch cfg.Driver {
	case config.DriverBadger:
		store, err = OpenBadger(BadgerOptions{Path: cfg.Badger.Path, InMemory: cfg.Badger.InMemory})
		if err == nil {
			logging.Info().Str("path", cfg.Badger.Path).Bool("in_memory", cfg.Badger.InMemory).Msg("Opened BadgerDB document store")
		}
	case config.DriverMongo:
		store, err = OpenMongo(ctx, MongoOptions{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  cfg.Mongo.Timeout,
		})
		if err == nil {
			logging.Info().Str("database", cfg.Mongo.Database).Msg("Connected to MongoDB document store")
		}
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if !cfg.Breaker.Enabled {
		return store, nil
	}
	return NewBreakerStore(store, BreakerOptions{
		Name:        "docstore-" + cfg.Driver,
		MaxFailures: cfg.Breaker.MaxFailures,
		Timeout:     cfg.Breaker.Timeout,
	}), nil
}
