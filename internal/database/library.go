package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"media-source/internal/mediatypes"
	"media-source/internal/metrics"
)

// ErrFileNotFound is returned when no entry exists at a path.
var ErrFileNotFound = errors.New("file not found")

const fileColumns = `id, name, path, parent_path, type, size, mod_time, mime_type`

// ListChildren returns the browsable and playable entries directly under
// parentPath: folders first, then everything else, each group ordered by
// name case-insensitively. Use "" for the library root.
func (d *Database) ListChildren(ctx context.Context, parentPath string) ([]MediaFile, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("browse_children", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := d.db.QueryContext(ctx, `
		SELECT `+fileColumns+`
		FROM files
		WHERE parent_path = ? AND type IN (?, ?, ?, ?)
		ORDER BY (CASE WHEN type = ? THEN 0 ELSE 1 END), name COLLATE NOCASE, name
	`, parentPath,
		mediatypes.FileTypeFolder, mediatypes.FileTypeAudio, mediatypes.FileTypeVideo, mediatypes.FileTypePlaylist,
		mediatypes.FileTypeFolder,
	)
	if err != nil {
		err = fmt.Errorf("list %q: %w", parentPath, err)
		return nil, err
	}
	defer rows.Close()

	var files []MediaFile
	for rows.Next() {
		var f MediaFile
		if err = scanFile(rows, &f); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return files, nil
}

// GetFileByPath retrieves a single entry by its library path.
// It returns ErrFileNotFound when nothing is indexed there.
func (d *Database) GetFileByPath(ctx context.Context, path string) (*MediaFile, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("get_file_by_path", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var file MediaFile
	err = scanFile(d.db.QueryRowContext(ctx, `SELECT `+fileColumns+` FROM files WHERE path = ?`, path), &file)
	if errors.Is(err, sql.ErrNoRows) {
		// not a query failure
		err = nil
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// LibraryStats counts indexed entries by type. It satisfies
// metrics.StatsProvider.
func (d *Database) LibraryStats(ctx context.Context) (metrics.LibraryStats, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("calculate_stats", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	stats := metrics.LibraryStats{OpenConns: d.db.Stats().OpenConnections}

	rows, err := d.db.QueryContext(ctx, `SELECT type, COUNT(*) FROM files GROUP BY type`)
	if err != nil {
		return stats, err
	}
	defer rows.Close()

	for rows.Next() {
		var fileType string
		var count int
		if err = rows.Scan(&fileType, &count); err != nil {
			return stats, err
		}
		switch mediatypes.FileType(fileType) {
		case mediatypes.FileTypeFolder:
			stats.Folders = count
		case mediatypes.FileTypeAudio:
			stats.Audio = count
		case mediatypes.FileTypeVideo:
			stats.Video = count
		case mediatypes.FileTypePlaylist:
			stats.Playlists = count
		}
	}
	err = rows.Err()
	return stats, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(row rowScanner, f *MediaFile) error {
	var fileType string
	var modTime int64
	if err := row.Scan(&f.ID, &f.Name, &f.Path, &f.ParentPath, &fileType, &f.Size, &modTime, &f.MimeType); err != nil {
		return err
	}
	f.Type = mediatypes.FileType(fileType)
	f.ModTime = time.Unix(modTime, 0)
	return nil
}
