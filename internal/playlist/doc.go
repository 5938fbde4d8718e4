// Package playlist turns a catalog subtree into an ordered, playable playlist.
//
// Building a playlist happens in three steps:
//
//  1. Flatten walks the subtree depth first, left to right, browsing every expandable
//     child as it is reached and collecting leaves in traversal order.
//  2. Resolve turns every leaf into a playable URL and applies URL post-processing.
//     Any failure aborts the whole playlist; partial playlists are never produced.
//  3. WriteM3U serializes the result as an extended M3U document.
//
// The walk is guarded against catalogs that loop back on themselves and against
// unreasonably deep trees, reporting catalog.ErrCyclicCatalog and
// catalog.ErrCatalogTooDeep instead of recursing forever.
//
// The package also reads WPL (Windows Media Player) playlist files so that playlists
// stored in the media library can be browsed as containers. WPL entries may use UNC
// paths, drive-letter paths or relative paths; they are matched against the media
// directory relative to the playlist file first, then by file name at the library root.
package playlist
