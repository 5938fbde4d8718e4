package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"media-source/internal/database"
	"media-source/internal/handlers"
	"media-source/internal/indexer"
	"media-source/internal/mediasource"
	"media-source/internal/mediaurl"
	"media-source/internal/startup"
)

func setupTestRouter(t *testing.T) http.Handler {
	t.Helper()

	mediaDir := t.TempDir()
	db, err := database.New(context.Background(), filepath.Join(t.TempDir(), "media.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	idx := indexer.New(db, mediaDir, 0)
	t.Cleanup(idx.Stop)

	registry, err := mediasource.NewRegistry(mediasource.NewLocalSource(db, mediaDir))
	if err != nil {
		t.Fatal(err)
	}
	signer := mediaurl.NewProcessor([]byte("test-secret-test-secret-test-sec"), time.Hour, "")
	h := handlers.New(db, idx, registry, signer, &startup.Config{MediaDir: mediaDir})

	return setupRouter(h)
}

func TestSetupRouter(t *testing.T) {
	router := setupTestRouter(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/livez", http.StatusOK},
		{http.MethodHead, "/livez", http.StatusOK},
		{http.MethodGet, "/version", http.StatusOK},
		{http.MethodGet, "/api/auth/setup-required", http.StatusOK},
		{http.MethodGet, "/api/media/playlist/playlist.m3u?media=x", http.StatusUnauthorized},
		{http.MethodGet, "/api/media/browse", http.StatusUnauthorized},
		{http.MethodGet, "/api/file/a.mp3", http.StatusUnauthorized},
		{http.MethodPost, "/api/reindex", http.StatusUnauthorized},
		{http.MethodGet, "/api/unknown", http.StatusNotFound},
		{http.MethodPost, "/version", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRouterListsRoutes(t *testing.T) {
	router := setupRouter(handlers.New(nil, nil, nil, nil, &startup.Config{}))

	routes, err := startup.GetRoutes(router)
	if err != nil {
		t.Fatalf("GetRoutes() failed: %v", err)
	}

	found := false
	for _, r := range routes {
		if r.Path == "/api/media/playlist/playlist.m3u" && r.Method == http.MethodGet {
			found = true
		}
	}
	if !found {
		t.Errorf("playlist route missing from %+v", routes)
	}
}

func TestNewMetricsServer(t *testing.T) {
	srv := newMetricsServer("9999", promhttp.Handler())

	if srv.Addr != ":9999" {
		t.Errorf("Addr = %q", srv.Addr)
	}

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("/metrics status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("/ status = %d, want 404", rec.Code)
	}
}

func TestCleanExpiredSessionsStops(t *testing.T) {
	db, err := database.New(context.Background(), filepath.Join(t.TempDir(), "media.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		cleanExpiredSessions(ctx, db)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("cleanExpiredSessions did not return after cancel")
	}
}
