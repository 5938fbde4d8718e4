// Package middleware provides HTTP middleware for the media source server.
//
// It includes:
//   - Request IDs (X-Request-ID), generated with google/uuid when absent
//   - Request logging in W3C Extended Log Format, with signed-URL tokens redacted
//   - Prometheus request metrics keyed by route template
//   - gzip compression of text responses, M3U playlists included
package middleware
