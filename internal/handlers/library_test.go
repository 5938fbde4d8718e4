package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetStats(t *testing.T) {
	env := setupTestHandlers(t, map[string]string{
		"a.mp3":     "a",
		"Sub/b.mp4": "b",
	}, nil)

	rec := httptest.NewRecorder()
	env.h.GetStats(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp LibraryStatsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Audio != 1 || resp.Videos != 1 || resp.Folders != 1 {
		t.Errorf("stats = %+v", resp)
	}
	if resp.LastIndexed == "" {
		t.Error("lastIndexed missing")
	}
}

func TestTriggerReindex(t *testing.T) {
	env := setupTestHandlers(t, map[string]string{"a.mp3": "a"}, nil)

	if err := os.WriteFile(filepath.Join(env.mediaDir, "new.flac"), []byte("n"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	env.h.TriggerReindex(rec, httptest.NewRequest(http.MethodPost, "/api/reindex", nil))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, err := env.db.GetFileByPath(context.Background(), "new.flac"); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("re-index did not pick up new.flac")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestTriggerReindexConflict(t *testing.T) {
	env := setupTestHandlers(t, map[string]string{"a.mp3": "a"}, nil)

	if !env.idx.TriggerIndex() {
		t.Fatal("first trigger refused")
	}

	// The background run may finish quickly; only a refused trigger is checked.
	rec := httptest.NewRecorder()
	env.h.TriggerReindex(rec, httptest.NewRequest(http.MethodPost, "/api/reindex", nil))
	if rec.Code != http.StatusAccepted && rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 202 or 409", rec.Code)
	}
	if rec.Code == http.StatusConflict {
		var body map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if body["status"] != "already_running" {
			t.Errorf("body = %v", body)
		}
	}
}
