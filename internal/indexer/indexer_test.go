package indexer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"media-source/internal/database"
	"media-source/internal/mediatypes"
)

func setupTestIndexer(t *testing.T) (*Indexer, *database.Database, string) {
	t.Helper()

	db, err := database.New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mediaDir := t.TempDir()
	idx := New(db, mediaDir, 0)
	t.Cleanup(idx.Stop)
	return idx, db, mediaDir
}

func writeFile(t *testing.T, root, rel string) {
	t.Helper()

	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, []byte("data"), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func TestIndexBuildsLibrary(t *testing.T) {
	idx, db, mediaDir := setupTestIndexer(t)
	ctx := context.Background()

	writeFile(t, mediaDir, "Rock/Album/01.mp3")
	writeFile(t, mediaDir, "Rock/Album/cover.jpg")
	writeFile(t, mediaDir, "Rock/Album/notes.txt")
	writeFile(t, mediaDir, "Rock/clip.MKV")
	writeFile(t, mediaDir, "Mix.wpl")
	writeFile(t, mediaDir, ".hidden/secret.mp3")
	writeFile(t, mediaDir, ".dotfile.mp3")

	if err := idx.Index(ctx); err != nil {
		t.Fatalf("Index() failed: %v", err)
	}

	tests := []struct {
		path     string
		wantType mediatypes.FileType
		parent   string
	}{
		{"Rock", mediatypes.FileTypeFolder, ""},
		{"Rock/Album", mediatypes.FileTypeFolder, "Rock"},
		{"Rock/Album/01.mp3", mediatypes.FileTypeAudio, "Rock/Album"},
		{"Rock/clip.MKV", mediatypes.FileTypeVideo, "Rock"},
		{"Mix.wpl", mediatypes.FileTypePlaylist, ""},
	}
	for _, tt := range tests {
		got, err := db.GetFileByPath(ctx, tt.path)
		if err != nil {
			t.Errorf("GetFileByPath(%s) failed: %v", tt.path, err)
			continue
		}
		if got.Type != tt.wantType || got.ParentPath != tt.parent {
			t.Errorf("%s: type=%s parent=%q, want %s %q", tt.path, got.Type, got.ParentPath, tt.wantType, tt.parent)
		}
	}

	for _, skipped := range []string{"Rock/Album/cover.jpg", "Rock/Album/notes.txt", ".hidden", ".hidden/secret.mp3", ".dotfile.mp3"} {
		if _, err := db.GetFileByPath(ctx, skipped); !errors.Is(err, database.ErrFileNotFound) {
			t.Errorf("%s should not be indexed (err=%v)", skipped, err)
		}
	}

	status := idx.GetHealthStatus()
	if !status.Ready || status.Indexing {
		t.Errorf("status after index = %+v", status)
	}
	if status.FilesIndexed != 3 || status.FoldersIndexed != 2 {
		t.Errorf("counted %d files and %d folders, want 3 and 2", status.FilesIndexed, status.FoldersIndexed)
	}
	if idx.LastIndexTime().IsZero() {
		t.Error("LastIndexTime() not set")
	}

	last, err := db.GetLastIndexRun(ctx)
	if err != nil || last.IsZero() {
		t.Errorf("last index run not persisted: %v %v", last, err)
	}
}

func TestIndexRemovesMissingFiles(t *testing.T) {
	idx, db, mediaDir := setupTestIndexer(t)
	ctx := context.Background()

	writeFile(t, mediaDir, "a.mp3")
	writeFile(t, mediaDir, "gone/b.mp3")

	if err := idx.Index(ctx); err != nil {
		t.Fatalf("first Index() failed: %v", err)
	}

	if err := os.RemoveAll(filepath.Join(mediaDir, "gone")); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)

	if err := idx.Index(ctx); err != nil {
		t.Fatalf("second Index() failed: %v", err)
	}

	if _, err := db.GetFileByPath(ctx, "a.mp3"); err != nil {
		t.Errorf("a.mp3 lost: %v", err)
	}
	for _, p := range []string{"gone", "gone/b.mp3"} {
		if _, err := db.GetFileByPath(ctx, p); !errors.Is(err, database.ErrFileNotFound) {
			t.Errorf("%s still indexed: %v", p, err)
		}
	}
}

func TestIndexMissingMediaDirKeepsLibrary(t *testing.T) {
	idx, db, mediaDir := setupTestIndexer(t)
	ctx := context.Background()

	writeFile(t, mediaDir, "a.mp3")
	if err := idx.Index(ctx); err != nil {
		t.Fatalf("Index() failed: %v", err)
	}

	idx.mediaDir = filepath.Join(mediaDir, "unmounted")
	if err := idx.Index(ctx); err == nil {
		t.Fatal("Index() should fail when the media directory is missing")
	}

	if _, err := db.GetFileByPath(ctx, "a.mp3"); err != nil {
		t.Errorf("library emptied after failed run: %v", err)
	}
}

func TestIndexCanceled(t *testing.T) {
	idx, _, mediaDir := setupTestIndexer(t)
	writeFile(t, mediaDir, "a.mp3")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := idx.Index(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Index() error = %v, want context.Canceled", err)
	}
	if idx.IsIndexing() {
		t.Error("IsIndexing() still true after canceled run")
	}
}

func TestIndexInProgress(t *testing.T) {
	idx, _, _ := setupTestIndexer(t)

	if !idx.tryStartIndexing() {
		t.Fatal("tryStartIndexing() failed on idle indexer")
	}
	if err := idx.Index(context.Background()); !errors.Is(err, ErrIndexInProgress) {
		t.Errorf("Index() error = %v, want ErrIndexInProgress", err)
	}
	if idx.TriggerIndex() {
		t.Error("TriggerIndex() should refuse while a run is active")
	}
	idx.finishIndexing()
}

func TestStartAndTrigger(t *testing.T) {
	idx, db, mediaDir := setupTestIndexer(t)
	writeFile(t, mediaDir, "a.mp3")

	done := make(chan struct{}, 2)
	idx.SetOnIndexComplete(func() { done <- struct{}{} })

	if idx.IsReady() {
		t.Fatal("IsReady() before first index")
	}
	if err := idx.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("initial index did not complete")
	}
	if !idx.IsReady() {
		t.Error("IsReady() = false after initial index")
	}

	writeFile(t, mediaDir, "b.mp3")
	for !idx.TriggerIndex() {
		time.Sleep(10 * time.Millisecond)
	}
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("triggered index did not complete")
	}

	if _, err := db.GetFileByPath(context.Background(), "b.mp3"); err != nil {
		t.Errorf("b.mp3 not indexed by triggered run: %v", err)
	}
}

func TestStartReadyFromPreviousRun(t *testing.T) {
	idx, db, _ := setupTestIndexer(t)

	if err := db.SetLastIndexRun(context.Background(), time.Now().Add(-time.Hour)); err != nil {
		t.Fatal(err)
	}

	// Hold the run lock so the initial index cannot finish first.
	idx.tryStartIndexing()
	if err := idx.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if !idx.IsReady() {
		t.Error("IsReady() = false with a persisted previous run")
	}
	idx.finishIndexing()
}
