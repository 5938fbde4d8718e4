package handlers

import (
	"net/http"

	"media-source/internal/logging"
	"media-source/internal/mediasource"
)

// BrowseMedia returns one level of the catalog as JSON. Without a media
// parameter it lists the registered sources.
func (h *Handlers) BrowseMedia(w http.ResponseWriter, r *http.Request) {
	media := r.URL.Query().Get("media")
	if media == "" {
		media = mediasource.URIScheme
	}

	node, err := h.catalog.Browse(r.Context(), media)
	if err != nil {
		if clientGone(r, err) {
			return
		}
		status := catalogStatus(err)
		if status == http.StatusInternalServerError {
			logging.Error("Failed to browse %s: %v", media, err)
		}
		writeJSONError(w, http.StatusText(status), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, node)
}
