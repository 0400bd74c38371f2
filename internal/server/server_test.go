package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/JustJay7/court-case-lookup/internal/config"
	"github.com/JustJay7/court-case-lookup/internal/database"
	"github.com/JustJay7/court-case-lookup/internal/lookup"
	"github.com/JustJay7/court-case-lookup/internal/metrics"
	"github.com/JustJay7/court-case-lookup/internal/scraper"
	"github.com/JustJay7/court-case-lookup/internal/store"
	"github.com/JustJay7/court-case-lookup/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()

	db, err := database.Initialize(database.Options{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "server.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := &config.Config{Host: "127.0.0.1", Port: "0", LogLevel: "info"}
	log := logger.NewNop()
	registry := scraper.NewRegistry()
	service := lookup.NewService(store.New(db, nil), registry, opts.Metrics, log, lookup.Options{})

	return New(cfg, service, log, opts)
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t, Options{})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, w.Header().Get(requestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, Options{})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/search", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	srv := newTestServer(t, Options{Metrics: m, Gatherer: reg})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/download", nil))
		require.Equal(t, http.StatusBadRequest, w.Code)
	}

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/download", "400")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestServeShutsDownAndClosesResources(t *testing.T) {
	closed := make(chan struct{})
	srv := newTestServer(t, Options{Closers: []io.Closer{closerFunc(func() error {
		close(closed)
		return nil
	})}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	select {
	case <-closed:
	default:
		t.Fatal("closer was not called")
	}
}

func TestServeReportsListenError(t *testing.T) {
	srv := newTestServer(t, Options{})
	srv.cfg.Port = "not-a-port"

	err := srv.Serve(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, http.ErrServerClosed))
}
