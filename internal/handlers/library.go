package handlers

import (
	"net/http"

	"media-source/internal/logging"
)

// LibraryStatsResponse summarizes the library index.
type LibraryStatsResponse struct {
	Folders     int    `json:"folders"`
	Audio       int    `json:"audio"`
	Videos      int    `json:"videos"`
	Playlists   int    `json:"playlists"`
	LastIndexed string `json:"lastIndexed,omitempty"`
	Indexing    bool   `json:"indexing"`
}

// GetStats returns counts of the indexed library
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.db.LibraryStats(r.Context())
	if err != nil {
		logging.Error("Failed to read library stats: %v", err)
		http.Error(w, "Failed to get stats", http.StatusInternalServerError)
		return
	}

	response := LibraryStatsResponse{
		Folders:   stats.Folders,
		Audio:     stats.Audio,
		Videos:    stats.Video,
		Playlists: stats.Playlists,
		Indexing:  h.indexer.IsIndexing(),
	}
	if last := h.indexer.LastIndexTime(); !last.IsZero() {
		response.LastIndexed = last.UTC().Format("2006-01-02T15:04:05Z")
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, response)
}

// TriggerReindex starts a background index run unless one is already going
func (h *Handlers) TriggerReindex(w http.ResponseWriter, _ *http.Request) {
	if !h.indexer.TriggerIndex() {
		writeJSONStatus(w, http.StatusConflict, "already_running", "Indexing is already in progress")
		return
	}

	logging.Info("Manual re-index requested")
	writeJSONStatus(w, http.StatusAccepted, "started", "Re-indexing started")
}
