// Package handlers provides HTTP request handlers for the media source API.
//
// It includes handlers for:
//   - M3U playlist generation for catalog identifiers
//   - Catalog browsing and media file serving
//   - User authentication, sessions and signed media URLs
//   - Manual re-indexing, library stats and health checks
package handlers
