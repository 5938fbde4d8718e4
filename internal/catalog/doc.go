// Package catalog defines the browsable media catalog consumed by the playlist builder.
//
// A catalog is a tree of nodes. Containers group other nodes and must be browsed to
// discover their children; leaves are directly playable and resolve to a URL.
//
// The package holds no implementation of its own. Browsing and resolution are provided
// by media sources (see media-source/internal/mediasource), and URL post-processing by
// media-source/internal/mediaurl. Everything here is request scoped and read only.
//
// # Error Kinds
//
// Implementations report failures with the sentinel errors below, wrapped with context:
//
//   - ErrInvalidRequest: the caller did not supply a usable identifier
//   - ErrNotFound: an identifier does not exist or cannot be browsed
//   - ErrUnresolvable: a leaf cannot be turned into a playable URL
//   - ErrCyclicCatalog: a container browses back to one of its ancestors
//   - ErrCatalogTooDeep: the tree is deeper than the configured limit
package catalog
