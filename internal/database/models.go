package database

import (
	"time"

	"media-source/internal/mediatypes"
)

// MediaFile is one indexed library entry. Paths are relative to the media
// directory and always use forward slashes; top-level entries have an empty
// ParentPath.
type MediaFile struct {
	ID         int64               `json:"id"`
	Name       string              `json:"name"`
	Path       string              `json:"path"`
	ParentPath string              `json:"parentPath"`
	Type       mediatypes.FileType `json:"type"`
	Size       int64               `json:"size"`
	ModTime    time.Time           `json:"modTime"`
	MimeType   string              `json:"mimeType,omitempty"`
}

// IsFolder reports whether the entry is a directory.
func (f *MediaFile) IsFolder() bool {
	return f.Type == mediatypes.FileTypeFolder
}
