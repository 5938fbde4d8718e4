package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"

	"media-source/internal/database"
	"media-source/internal/filesystem"
	"media-source/internal/logging"
	"media-source/internal/mediatypes"
)

// GetFile serves an indexed media file with Range support. Only paths present
// in the library index are served, so nothing outside MEDIA_DIR is reachable.
func (h *Handlers) GetFile(w http.ResponseWriter, r *http.Request) {
	filePath := mux.Vars(r)["path"]
	if filePath == "" {
		http.Error(w, "Path is required", http.StatusBadRequest)
		return
	}

	file, err := h.db.GetFileByPath(r.Context(), filePath)
	if err != nil {
		if errors.Is(err, database.ErrFileNotFound) {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		logging.Error("Failed to look up %s: %v", filePath, err)
		http.Error(w, "Failed to access file", http.StatusInternalServerError)
		return
	}

	if file.IsFolder() {
		http.Error(w, "Path is a directory", http.StatusBadRequest)
		return
	}

	fullPath := filepath.Join(h.mediaDir, filepath.FromSlash(file.Path))
	f, err := filesystem.OpenWithRetry(fullPath, filesystem.DefaultRetryConfig())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		logging.Error("Failed to open %s: %v", fullPath, err)
		http.Error(w, "Failed to access file", http.StatusInternalServerError)
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			logging.Debug("Failed to close %s: %v", fullPath, err)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		logging.Error("Failed to stat %s: %v", fullPath, err)
		http.Error(w, "Failed to access file", http.StatusInternalServerError)
		return
	}

	contentType := file.MimeType
	if contentType == "" {
		contentType = mediatypes.GetMimeType(filepath.Ext(file.Name))
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, max-age=3600")

	http.ServeContent(w, r, file.Name, info.ModTime(), f)
}
