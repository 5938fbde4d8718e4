// Package indexer keeps the library database in step with the media
// directory.
//
// A run walks MEDIA_DIR depth first and records every folder, audio file,
// video file and WPL playlist it finds. Entries are written in batches, and
// entries not seen during a successful run are removed afterwards. Hidden
// files and directories (prefixed with '.') are skipped, as are symlinked
// directories.
//
// Runs happen once at startup, then every index interval, and on demand via
// TriggerIndex. Only one run is active at a time.
package indexer
