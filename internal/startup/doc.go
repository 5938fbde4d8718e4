// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// All configuration is loaded from environment variables via [LoadConfig]:
//
//   - MEDIA_DIR: Path to media directory (default: /media)
//   - DATABASE_DIR: Path to database directory (default: /database)
//   - PORT: HTTP server port (default: 8080)
//   - METRICS_PORT: Prometheus metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable or disable metrics server (default: true)
//   - INDEX_INTERVAL: Full re-index interval as Go duration, 0 disables (default: 30m)
//   - EXTERNAL_URL: Base URL prefixed to signed media links (default: none)
//   - SIGNING_SECRET: Key for signed media links (default: random per process)
//   - SIGNED_URL_TTL: Lifetime of signed media links (default: 24h)
//   - MAX_CATALOG_DEPTH: Nesting limit when flattening playlists (default: 64)
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//   - LOG_STATIC_FILES: Log media file requests (default: false)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: true)
//
// Invalid values are logged and replaced by their defaults.
//
// # Directory Setup
//
// The media directory is created if missing; problems with it are warnings
// because the indexer retries on every run. The database directory must
// exist (or be creatable) and be writable, otherwise LoadConfig fails.
package startup
