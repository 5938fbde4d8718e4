// Package metrics declares the Prometheus metrics exported by the media source server.
//
// All metrics are registered with the default registry through promauto and carry the
// media_source_ prefix. They fall into these groups:
//
//   - HTTP: request counts, latency and in-flight requests (recorded by middleware)
//   - Playlist: playlist builds by outcome, entries per playlist and build latency
//   - Media source: browse and resolve calls per source and outcome
//   - Database: query counts and latency, open connections, transaction latency
//   - Indexer: runs, duration, processed files and folders, errors
//   - Library: folder, track and playlist totals refreshed by the Collector
//   - Filesystem: NFS stale handle retries
//   - Auth: login attempts by result
//
// InitializeMetrics pre-populates label combinations so dashboards see zero values
// instead of missing series on the first scrape.
package metrics
