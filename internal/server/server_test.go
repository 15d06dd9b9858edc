package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"pizza-dashboard/internal/charts"
	"pizza-dashboard/internal/config"
	"pizza-dashboard/internal/models"
	"pizza-dashboard/internal/services"
	"pizza-dashboard/internal/session"
	"pizza-dashboard/internal/views"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            0,
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			ShutdownTimeout: 2 * time.Second,
		},
		Session: config.SessionConfig{TTL: time.Hour, MaxSessions: 10, ClickRPS: 10, ClickBurst: 10},
		View:    config.ViewConfig{TimelineYDomain: config.YDomainDynamic, TimelineYMax: 110, Palette: "deep"},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := testConfig()
	logger := testLogger()

	records := []models.SalesRecord{
		{OrderID: "1", Date: time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), Quantity: 2, PizzaName: "Hawaiian", Category: "Classic"},
		{OrderID: "2", Date: time.Date(2015, 2, 1, 0, 0, 0, 0, time.UTC), Quantity: 1, PizzaName: "Five Cheese", Category: "Veggie"},
	}
	dataset := services.NewDataset(t.TempDir())
	dataset.SetRecords(records)

	return NewServer(
		dataset,
		views.NewSynchronizer(records, cfg.View, logger),
		session.NewStore(cfg.Session, 0),
		charts.PaletteByName(cfg.View.Palette),
		logger,
	)
}

func TestServer_Routes(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/admin/stats", http.StatusOK},
		{http.MethodGet, "/api/pizzas", http.StatusOK},
		{http.MethodGet, "/api/categories", http.StatusOK},
		{http.MethodGet, "/api/hierarchy", http.StatusOK},
		{http.MethodGet, "/api/top-today", http.StatusOK},
		{http.MethodGet, "/sse/top-today", http.StatusOK},
		{http.MethodGet, "/missing", http.StatusNotFound},
		{http.MethodGet, "/sse/reset", http.StatusMethodNotAllowed},
		{http.MethodDelete, "/api/pizzas", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

// Session-scoped routes rely on the session middleware; without it they fail
// rather than mutate shared state.
func TestServer_SessionRoutesRequireSession(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sse/reset", nil))
	if w.Code == http.StatusOK {
		t.Error("reset without a session should not succeed")
	}
}

func TestGracefulServer_RunsHooksOnShutdown(t *testing.T) {
	cfg := testConfig()
	httpServer := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	gs := NewGracefulServer(httpServer, testLogger(), cfg)

	var ran atomic.Int32
	gs.RegisterShutdownHook("first", func(ctx context.Context) error {
		ran.Add(1)
		return nil
	})
	gs.RegisterShutdownHook("second", func(ctx context.Context) error {
		ran.Add(1)
		return errors.New("flush failed")
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gs.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected the failing hook's error")
		}
		if got := err.Error(); got != `shutdown hook "second" failed: flush failed` {
			t.Errorf("unexpected error: %q", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	if ran.Load() != 2 {
		t.Errorf("ran %d hooks, want 2", ran.Load())
	}
}

func TestGracefulServer_ListenError(t *testing.T) {
	httpServer := &http.Server{Addr: "256.0.0.1:bad", Handler: http.NotFoundHandler()}
	gs := NewGracefulServer(httpServer, testLogger(), testConfig())

	if err := gs.Serve(context.Background()); err == nil {
		t.Error("expected an error for an invalid listen address")
	}
}
