package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"time"

	"media-source/internal/catalog"
	"media-source/internal/logging"
	"media-source/internal/metrics"
	"media-source/internal/playlist"
)

// GetPlaylistM3U renders the catalog subtree named by the media query
// parameter as an extended M3U document.
func (h *Handlers) GetPlaylistM3U(w http.ResponseWriter, r *http.Request) {
	media := r.URL.Query().Get("media")
	if media == "" {
		metrics.PlaylistRequestsTotal.WithLabelValues(metrics.OutcomeInvalidRequest).Inc()
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	start := time.Now()
	pl, err := h.builder.Build(r.Context(), media)
	metrics.PlaylistBuildDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		if clientGone(r, err) {
			metrics.PlaylistRequestsTotal.WithLabelValues(metrics.OutcomeCanceled).Inc()
			logging.Debug("Playlist request for %s canceled by client", media)
			return
		}

		status := catalogStatus(err)
		metrics.PlaylistRequestsTotal.WithLabelValues(playlistOutcome(err)).Inc()
		if status == http.StatusInternalServerError {
			logging.Error("Failed to build playlist for %s: %v", media, err)
		} else {
			logging.Warn("Playlist for %s rejected (%d): %v", media, status, err)
		}
		// No partial document on failure
		w.WriteHeader(status)
		return
	}

	var buf bytes.Buffer
	if err := pl.WriteM3U(&buf); err != nil {
		metrics.PlaylistRequestsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		logging.Error("Failed to render playlist for %s: %v", media, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	metrics.PlaylistRequestsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	metrics.PlaylistEntries.Observe(float64(len(pl.Entries)))
	logging.Debug("Built playlist %q for %s with %d entries", pl.Title, media, len(pl.Entries))

	w.Header().Set("Content-Type", playlist.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logging.Debug("Failed to write playlist for %s: %v", media, err)
	}
}

func playlistOutcome(err error) string {
	switch {
	case errors.Is(err, catalog.ErrInvalidRequest):
		return metrics.OutcomeInvalidRequest
	case errors.Is(err, catalog.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, catalog.ErrUnresolvable):
		return metrics.OutcomeUnresolvable
	case errors.Is(err, catalog.ErrCyclicCatalog), errors.Is(err, catalog.ErrCatalogTooDeep):
		return metrics.OutcomeCyclic
	default:
		return metrics.OutcomeError
	}
}
