// Package main provides the entry point for the media source server.
//
// The server indexes a media directory into SQLite, exposes it as a catalog
// of media-source:// identifiers, and renders any catalog subtree as an
// extended M3U playlist whose entries are signed, directly playable URLs.
//
// # Application Lifecycle
//
//  1. Configuration Loading: Reads environment variables and validates directories
//  2. Database Initialization: Opens the SQLite library index and session store
//  3. Component Initialization:
//     - Indexer: Walks the media directory and keeps the index current
//     - Media Sources: Registers the local library under the "local" domain
//     - URL Signer: Issues authSig tokens for playlist entries
//     - Metrics Collector: Refreshes library gauges
//  4. HTTP Server Setup: Configures routes, middleware, and starts servers
//  5. Graceful Shutdown: Handles SIGINT/SIGTERM and stops components in order
//
// # HTTP Servers
//
//  1. Main Server (default port 8080):
//     - GET /api/media/playlist/playlist.m3u?media=<id>
//     - GET /api/media/browse?media=<id>
//     - GET /api/file/{path} (session cookie or authSig)
//     - Authentication, re-indexing, health and version endpoints
//
//  2. Metrics Server (default port 9090, optional):
//     - Prometheus metrics endpoint (/metrics)
//
// # Environment Variables
//
//   - MEDIA_DIR: Root directory containing media files (default: /media)
//   - DATABASE_DIR: Directory for the SQLite database (default: /database)
//   - PORT: Main HTTP server port (default: 8080)
//   - METRICS_PORT: Metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable metrics server (default: true)
//   - INDEX_INTERVAL: Media directory scan interval (default: 30m)
//   - EXTERNAL_URL: Origin prefixed to playlist URLs (default: none)
//   - SIGNING_SECRET: Key for signed media URLs (default: random per process)
//   - SIGNED_URL_TTL: Lifetime of signed media URLs (default: 24h)
//   - MAX_CATALOG_DEPTH: Nesting limit when flattening (default: 64)
//   - LOG_LEVEL: Logging level (debug/info/warn/error)
//
// # Build Requirements
//
// CGO is required for SQLite (github.com/mattn/go-sqlite3).
//
// # Related Packages
//
//   - [media-source/internal/playlist]: Flattening and M3U rendering
//   - [media-source/internal/mediasource]: Identifiers, registry, local source
//   - [media-source/internal/mediaurl]: Signed media URLs
//   - [media-source/internal/handlers]: HTTP request handlers
//   - [media-source/internal/indexer]: Media directory scanning
//   - [media-source/internal/database]: SQLite library index and auth
//   - [media-source/internal/middleware]: HTTP middleware
//   - [media-source/internal/startup]: Configuration and initialization
package main
