// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

package services

import (
	"context"
	"time"

	"github.com/tomtom215/aerys/internal/logging"
	"github.com/tomtom215/aerys/internal/metrics"
)

// Pinger is implemented by docstore.Store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreMonitorService periodically pings the document store. The result is
// exported as the store_up gauge; changes between healthy and unhealthy are
// logged once per transition.
type StoreMonitorService struct {
	store    Pinger
	interval time.Duration
	timeout  time.Duration
	name     string

	healthy *bool
}

// NewStoreMonitorService creates a monitor that pings every interval.
// A non-positive interval means 30s.
func NewStoreMonitorService(store Pinger, interval time.Duration) *StoreMonitorService {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	timeout := interval / 2
	if timeout > 5*time.Second {
		timeout = 5 * time.Second
	}
	return &StoreMonitorService{
		store:    store,
		interval: interval,
		timeout:  timeout,
		name:     "store-monitor",
	}
}

// Serve checks the store immediately and then on every tick until ctx is
// cancelled. Ping failures are not returned: a restart would not help.
func (s *StoreMonitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.check(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

func (s *StoreMonitorService) check(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, s.timeout)
	err := s.store.Ping(pingCtx)
	cancel()

	if ctx.Err() != nil {
		return
	}

	healthy := err == nil
	if healthy {
		metrics.StoreUp.Set(1)
	} else {
		metrics.StoreUp.Set(0)
	}

	if s.healthy != nil && *s.healthy == healthy {
		return
	}
	first := s.healthy == nil
	s.healthy = &healthy

	switch {
	case !healthy:
		logging.Error().Err(err).Msg("Document store health check failed")
	case !first:
		logging.Info().Msg("Document store recovered")
	default:
		logging.Debug().Msg("Document store healthy")
	}
}

func (s *StoreMonitorService) String() string {
	return s.name
}
