// Package database provides SQLite storage for the media library index and
// for authentication state.
//
// It handles storage and retrieval of:
//   - Indexed library entries (folders, audio, video, playlists)
//   - The single user account and its hashed session tokens
//   - Small key/value metadata such as the last index run
//
// The database uses WAL mode for concurrent readers and creates its schema
// on open.
package database
