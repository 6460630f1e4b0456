package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cricket-data-service/internal/config"
	"cricket-data-service/internal/metrics"
)

func testConfig() config.Config {
	return config.Config{
		Port: "0",
		SportMonks: config.UpstreamConfig{
			BaseURL:  "https://scores.test/api/v2.0",
			Token:    "test-token",
			TokenEnv: "SPORTMONKS_API_TOKEN",
		},
		CMS: config.UpstreamConfig{
			BaseURL:  "https://cms.test",
			Token:    "test-token",
			TokenEnv: "CMS_API_TOKEN",
		},
		Cache: config.CacheConfig{
			LiveTTL:      time.Minute,
			CountriesTTL: 24 * time.Hour,
		},
	}
}

func TestNewWiresRouter(t *testing.T) {
	srv := newServerWithMetrics(testConfig(), nil, metrics.NewRecorder())

	if srv.Handler() == nil {
		t.Fatal("expected a router to be mounted")
	}

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("healthz status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestRouterRejectsUnknownRoute(t *testing.T) {
	srv := newServerWithMetrics(testConfig(), nil, metrics.NewRecorder())

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unknown route status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

type fakeHTTPServer struct {
	listenErr error
	shutdowns int
	started   chan struct{}
}

func (f *fakeHTTPServer) ListenAndServe() error {
	if f.started != nil {
		close(f.started)
	}
	if f.listenErr != nil {
		return f.listenErr
	}
	return http.ErrServerClosed
}

func (f *fakeHTTPServer) Shutdown(context.Context) error {
	f.shutdowns++
	return nil
}

func (f *fakeHTTPServer) Addr() string          { return ":0" }
func (f *fakeHTTPServer) Handler() http.Handler { return nil }

func TestRunShutsDownOnContextCancel(t *testing.T) {
	fake := &fakeHTTPServer{started: make(chan struct{})}
	srv := &Server{cfg: testConfig(), httpServer: fake}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		srv.Run(ctx, cancel)
		close(done)
	}()

	<-fake.started
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	if fake.shutdowns != 1 {
		t.Fatalf("shutdowns = %d, want 1", fake.shutdowns)
	}
}

func TestListenFailureStopsRun(t *testing.T) {
	fake := &fakeHTTPServer{listenErr: http.ErrHandlerTimeout}
	srv := &Server{cfg: testConfig(), httpServer: fake}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		srv.Run(ctx, cancel)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after listen failure")
	}
}
