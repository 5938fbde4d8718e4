package handlers

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"media-source/internal/catalog"
	"media-source/internal/database"
	"media-source/internal/indexer"
	"media-source/internal/mediasource"
	"media-source/internal/mediaurl"
	"media-source/internal/playlist"
	"media-source/internal/startup"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

// testEnv is a handler set over a real sqlite index of a temporary media directory.
type testEnv struct {
	h        *Handlers
	db       *database.Database
	idx      *indexer.Indexer
	signer   *mediaurl.Processor
	mediaDir string
}

// setupTestHandlers writes files (relative path -> content), indexes them and
// wires handlers around them. A nil source selects the local media source.
func setupTestHandlers(t *testing.T, files map[string]string, source playlist.Source) *testEnv {
	t.Helper()

	mediaDir := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(mediaDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	db, err := database.New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	idx := indexer.New(db, mediaDir, 0)
	t.Cleanup(idx.Stop)
	if len(files) > 0 {
		if err := idx.Index(context.Background()); err != nil {
			t.Fatalf("Index() failed: %v", err)
		}
	}

	if source == nil {
		registry, err := mediasource.NewRegistry(mediasource.NewLocalSource(db, mediaDir))
		if err != nil {
			t.Fatalf("NewRegistry() failed: %v", err)
		}
		source = registry
	}

	signer := mediaurl.NewProcessor(testSecret, time.Hour, "")
	config := &startup.Config{
		MediaDir:        mediaDir,
		MaxCatalogDepth: playlist.DefaultMaxDepth,
	}

	return &testEnv{
		h:        New(db, idx, source, signer, config),
		db:       db,
		idx:      idx,
		signer:   signer,
		mediaDir: mediaDir,
	}
}

// router mirrors the production routes that the tests exercise.
func (e *testEnv) router() *mux.Router {
	r := mux.NewRouter()
	r.Use(e.h.AuthMiddleware)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/setup", e.h.Setup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", e.h.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", e.h.Logout).Methods(http.MethodPost)
	api.HandleFunc("/auth/check", e.h.CheckAuth).Methods(http.MethodGet)
	api.HandleFunc("/media/playlist/playlist.m3u", e.h.GetPlaylistM3U).Methods(http.MethodGet)
	api.HandleFunc("/media/browse", e.h.BrowseMedia).Methods(http.MethodGet)
	api.HandleFunc("/file/{path:.*}", e.h.GetFile).Methods(http.MethodGet, http.MethodHead)
	api.HandleFunc("/reindex", e.h.TriggerReindex).Methods(http.MethodPost)
	api.HandleFunc("/stats", e.h.GetStats).Methods(http.MethodGet)

	r.HandleFunc("/health", e.h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/livez", e.h.LivenessCheck).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/readyz", e.h.ReadinessCheck).Methods(http.MethodGet)
	r.HandleFunc("/version", e.h.GetVersion).Methods(http.MethodGet)
	return r
}

// sessionCookie creates the user (if needed) and a session for it.
func (e *testEnv) sessionCookie(t *testing.T) *http.Cookie {
	t.Helper()

	ctx := context.Background()
	if !e.db.HasUsers(ctx) {
		if err := e.db.CreateUser(ctx, "secret123"); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	user, err := e.db.ValidatePassword(ctx, "secret123")
	if err != nil {
		t.Fatalf("ValidatePassword() failed: %v", err)
	}
	session, err := e.db.CreateSession(ctx, user.ID)
	if err != nil {
		t.Fatalf("CreateSession() failed: %v", err)
	}
	return &http.Cookie{Name: SessionCookieName, Value: session.Token}
}

// fakeSource is an in-memory catalog.
type fakeSource struct {
	nodes      map[string]*catalog.Node
	browseErr  map[string]error
	resolveErr map[string]error
	// beforeBrowse runs on every Browse call
	beforeBrowse func(id string)
}

func (f *fakeSource) Browse(ctx context.Context, id string) (*catalog.Node, error) {
	if f.beforeBrowse != nil {
		f.beforeBrowse(id)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.browseErr[id]; ok {
		return nil, err
	}
	n, ok := f.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", catalog.ErrNotFound, id)
	}
	return n, nil
}

func (f *fakeSource) Resolve(ctx context.Context, id string) (*catalog.ResolvedMedia, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.resolveErr[id]; ok {
		return nil, err
	}
	return &catalog.ResolvedMedia{URL: "http://cdn.example/" + id, MimeType: "audio/mpeg"}, nil
}

func leaf(id, title string) *catalog.Node {
	return &catalog.Node{Identifier: id, Title: title, CanPlay: true}
}

func container(id, title string, children ...*catalog.Node) *catalog.Node {
	return &catalog.Node{Identifier: id, Title: title, CanExpand: true, Children: children}
}

// newFakeSource registers every container (recursively) under its identifier.
func newFakeSource(roots ...*catalog.Node) *fakeSource {
	f := &fakeSource{
		nodes:      make(map[string]*catalog.Node),
		browseErr:  make(map[string]error),
		resolveErr: make(map[string]error),
	}
	var add func(n *catalog.Node)
	add = func(n *catalog.Node) {
		f.nodes[n.Identifier] = n
		for _, c := range n.Children {
			add(c)
		}
	}
	for _, r := range roots {
		add(r)
	}
	return f
}

func TestNewHandlersWithoutSigner(t *testing.T) {
	src := newFakeSource(container("mix", "Mix", leaf("a", "A")))
	h := New(nil, nil, src, nil, &startup.Config{})

	if h.signer != nil {
		t.Error("signer should be nil")
	}
	pl, err := h.builder.Build(context.Background(), "mix")
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if got := pl.Entries[0].URL; got != "http://cdn.example/a" {
		t.Errorf("URL = %q, want unprocessed", got)
	}
}
