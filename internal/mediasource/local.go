package mediasource

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"media-source/internal/catalog"
	"media-source/internal/database"
	"media-source/internal/logging"
	"media-source/internal/mediatypes"
	"media-source/internal/playlist"
)

// Media classes reported on catalog nodes.
const (
	MediaClassDirectory = "directory"
	MediaClassMusic     = "music"
	MediaClassVideo     = "video"
	MediaClassPlaylist  = "playlist"
)

// LocalDomain is the domain of the indexed media directory.
const LocalDomain = "local"

// FileURLPrefix is where the HTTP server exposes library files.
const FileURLPrefix = "/api/file/"

// LocalSource browses the indexed media directory. Folders and WPL playlists
// are containers; audio and video files are leaves.
type LocalSource struct {
	db       *database.Database
	mediaDir string
	name     string
}

// NewLocalSource returns a source over the library indexed from mediaDir.
func NewLocalSource(db *database.Database, mediaDir string) *LocalSource {
	return &LocalSource{db: db, mediaDir: mediaDir, name: "Local Media"}
}

// Domain implements Source.
func (s *LocalSource) Domain() string { return LocalDomain }

// Name implements Source.
func (s *LocalSource) Name() string { return s.name }

// Browse implements Source.
func (s *LocalSource) Browse(ctx context.Context, p string) (*catalog.Node, error) {
	p = cleanLibraryPath(p)

	if p == "" {
		node := &catalog.Node{
			Identifier: ID(LocalDomain, ""),
			Title:      s.name,
			CanExpand:  true,
			MediaClass: MediaClassDirectory,
		}
		return node, s.addFolderChildren(ctx, node, "")
	}

	file, err := s.lookup(ctx, p)
	if err != nil {
		return nil, err
	}

	node := fileNode(file)
	switch file.Type {
	case mediatypes.FileTypeFolder:
		err = s.addFolderChildren(ctx, node, file.Path)
	case mediatypes.FileTypePlaylist:
		err = s.addPlaylistChildren(ctx, node, file)
	}
	if err != nil {
		return nil, err
	}
	return node, nil
}

// Resolve implements Source.
func (s *LocalSource) Resolve(ctx context.Context, p string) (*catalog.ResolvedMedia, error) {
	p = cleanLibraryPath(p)
	if p == "" {
		return nil, fmt.Errorf("%w: the library root is not playable", catalog.ErrUnresolvable)
	}

	file, err := s.db.GetFileByPath(ctx, p)
	if errors.Is(err, database.ErrFileNotFound) {
		return nil, fmt.Errorf("%w: %s is not in the library", catalog.ErrUnresolvable, p)
	}
	if err != nil {
		return nil, fmt.Errorf("look up %s: %w", p, err)
	}

	if !mediatypes.IsPlayable(file.Type) {
		return nil, fmt.Errorf("%w: %s is a %s", catalog.ErrUnresolvable, p, file.Type)
	}

	return &catalog.ResolvedMedia{
		URL:      FileURL(file.Path),
		MimeType: file.MimeType,
	}, nil
}

func (s *LocalSource) lookup(ctx context.Context, p string) (*database.MediaFile, error) {
	file, err := s.db.GetFileByPath(ctx, p)
	if errors.Is(err, database.ErrFileNotFound) {
		return nil, fmt.Errorf("%w: %s", catalog.ErrNotFound, p)
	}
	if err != nil {
		return nil, fmt.Errorf("look up %s: %w", p, err)
	}
	return file, nil
}

func (s *LocalSource) addFolderChildren(ctx context.Context, node *catalog.Node, p string) error {
	files, err := s.db.ListChildren(ctx, p)
	if err != nil {
		return err
	}

	node.Children = make([]*catalog.Node, 0, len(files))
	for i := range files {
		node.Children = append(node.Children, fileNode(&files[i]))
	}
	return nil
}

// addPlaylistChildren lists the playlist's entries that are in the library,
// in playlist order. Entries are kept even when repeated.
func (s *LocalSource) addPlaylistChildren(ctx context.Context, node *catalog.Node, file *database.MediaFile) error {
	wpl, err := playlist.ParseWPL(filepath.Join(s.mediaDir, filepath.FromSlash(file.Path)), s.mediaDir)
	if err != nil {
		// An unreadable playlist is browsable but empty.
		logging.Warn("Failed to read playlist %s: %v", file.Path, err)
		node.Children = []*catalog.Node{}
		return nil
	}

	node.Title = wpl.Title
	node.Children = make([]*catalog.Node, 0, len(wpl.Items))
	for _, item := range wpl.Items {
		if !item.Exists {
			logging.Debug("Playlist %s: entry %s not found under media directory", file.Path, item.OrigPath)
			continue
		}

		entry, err := s.db.GetFileByPath(ctx, item.Path)
		if errors.Is(err, database.ErrFileNotFound) {
			logging.Debug("Playlist %s: entry %s is not indexed", file.Path, item.Path)
			continue
		}
		if err != nil {
			return fmt.Errorf("look up playlist entry %s: %w", item.Path, err)
		}
		if !mediatypes.IsPlayable(entry.Type) && entry.Type != mediatypes.FileTypePlaylist {
			continue
		}
		node.Children = append(node.Children, fileNode(entry))
	}
	return nil
}

func fileNode(f *database.MediaFile) *catalog.Node {
	node := &catalog.Node{
		Identifier: ID(LocalDomain, f.Path),
		Title:      f.Name,
		CanExpand:  mediatypes.IsBrowsable(f.Type),
		CanPlay:    mediatypes.IsPlayable(f.Type),
		MimeType:   f.MimeType,
	}

	switch f.Type {
	case mediatypes.FileTypeFolder:
		node.MediaClass = MediaClassDirectory
	case mediatypes.FileTypePlaylist:
		node.MediaClass = MediaClassPlaylist
		node.Title = strings.TrimSuffix(f.Name, path.Ext(f.Name))
	case mediatypes.FileTypeAudio:
		node.MediaClass = MediaClassMusic
	case mediatypes.FileTypeVideo:
		node.MediaClass = MediaClassVideo
	}
	return node
}

// FileURL returns the server-relative URL of a library file.
func FileURL(libraryPath string) string {
	segments := strings.Split(libraryPath, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return FileURLPrefix + strings.Join(segments, "/")
}

// cleanLibraryPath normalizes p into a library path that cannot climb out of
// the media directory.
func cleanLibraryPath(p string) string {
	return strings.Trim(path.Clean("/"+p), "/")
}
