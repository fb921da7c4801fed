// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/aerys/internal/api"
	"github.com/tomtom215/aerys/internal/config"
	"github.com/tomtom215/aerys/internal/docstore"
	"github.com/tomtom215/aerys/internal/layers"
	"github.com/tomtom215/aerys/internal/location"
	"github.com/tomtom215/aerys/internal/logging"
	"github.com/tomtom215/aerys/internal/mapview"
	"github.com/tomtom215/aerys/internal/supervisor"
	"github.com/tomtom215/aerys/internal/supervisor/services"
	ws "github.com/tomtom215/aerys/internal/websocket"
)

const storeMonitorInterval = 30 * time.Second

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("store_driver", cfg.Store.Driver).
		Int("port", cfg.Server.Port).
		Bool("rate_limit", !cfg.Security.RateLimitDisabled).
		Msg("Starting Aerys")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Aerys stopped with an error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	openCtx, cancel := context.WithTimeout(ctx, cfg.Store.Mongo.Timeout+5*time.Second)
	store, err := docstore.Open(openCtx, &cfg.Store)
	cancel()
	if err != nil {
		return fmt.Errorf("open document store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing document store")
		}
	}()

	wsHub := ws.NewHub()
	handler := api.NewHandler(
		cfg,
		store,
		location.NewStore(),
		layers.NewRepository(store, cfg.Upload.AllowedExtensions),
		mapview.NewRepository(store),
		wsHub,
	)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	// Supervisor events go through the slog adapter into zerolog.
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	tree.AddDataService(services.NewStoreMonitorService(store, storeMonitorInterval))
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	err = tree.Serve(ctx)

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}
	return nil
}
