package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"media-source/internal/catalog"
	"media-source/internal/logging"
)

// writeJSON encodes v as JSON and writes it to the response writer.
// Any encoding or write errors are logged since we typically cannot
// recover from them in an HTTP handler context.
func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes an error response as JSON with the given status code.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, map[string]string{"error": message})
}

// writeJSONStatus writes a simple status response as JSON.
func writeJSONStatus(w http.ResponseWriter, statusCode int, status, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, map[string]string{"status": status, "message": message})
}

// catalogStatus maps a catalog error to its HTTP status code.
func catalogStatus(err error) int {
	switch {
	case errors.Is(err, catalog.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrUnresolvable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, catalog.ErrCyclicCatalog), errors.Is(err, catalog.ErrCatalogTooDeep):
		return http.StatusLoopDetected
	default:
		return http.StatusInternalServerError
	}
}

// clientGone reports whether err comes from the client abandoning the request.
func clientGone(r *http.Request, err error) bool {
	return errors.Is(err, context.Canceled) || r.Context().Err() != nil
}
