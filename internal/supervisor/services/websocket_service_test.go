// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	ws "github.com/tomtom215/aerys/internal/websocket"
)

type mockContextHub struct {
	err     error
	started chan struct{}
}

func (m *mockContextHub) RunWithContext(ctx context.Context) error {
	close(m.started)
	if m.err != nil {
		return m.err
	}
	<-ctx.Done()
	return ctx.Err()
}

var (
	_ suture.Service = (*WebSocketHubService)(nil)
	_ ContextHub     = (*ws.Hub)(nil)
)

func TestWebSocketHubService_Serve(t *testing.T) {
	t.Run("runs until cancelled", func(t *testing.T) {
		hub := &mockContextHub{started: make(chan struct{})}
		svc := NewWebSocketHubService(hub)
		if svc.String() != "websocket-hub" {
			t.Errorf("String() = %q", svc.String())
		}

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		<-hub.started
		cancel()
		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Serve() error = %v", err)
			}
		case <-time.After(time.Second):
			t.Fatal("Serve() did not return")
		}
	})

	t.Run("propagates hub errors", func(t *testing.T) {
		hub := &mockContextHub{started: make(chan struct{}), err: errors.New("hub crashed")}
		if err := NewWebSocketHubService(hub).Serve(context.Background()); !errors.Is(err, hub.err) {
			t.Errorf("Serve() error = %v, want %v", err, hub.err)
		}
	})
}

func TestWebSocketHubService_RealHub(t *testing.T) {
	svc := NewWebSocketHubService(ws.NewHub())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop after context deadline")
	}
}
