package catalog

import (
	"context"
	"errors"
)

var (
	// ErrInvalidRequest is returned when a required identifier is missing.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotFound is returned when an identifier does not exist in the catalog.
	ErrNotFound = errors.New("media not found")
	// ErrUnresolvable is returned when a leaf has no playable source.
	ErrUnresolvable = errors.New("media cannot be resolved")
	// ErrCyclicCatalog is returned when a container is reached again through its own descendants.
	ErrCyclicCatalog = errors.New("cyclic catalog")
	// ErrCatalogTooDeep is returned when the traversal exceeds the depth limit.
	ErrCatalogTooDeep = errors.New("catalog too deep")
)

// Kind distinguishes containers from leaves.
type Kind int

const (
	// KindLeaf is a directly playable node.
	KindLeaf Kind = iota
	// KindContainer is a node whose children must be browsed.
	KindContainer
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if k == KindContainer {
		return "container"
	}
	return "leaf"
}

// Node is a single entry in the catalog as returned by a browse call.
//
// Children is only meaningful for containers, and only on the node that was browsed
// directly. Child nodes carry summary data; an expandable child must be browsed itself
// to learn its own children.
type Node struct {
	Identifier string  `json:"mediaContentId"`
	Title      string  `json:"title"`
	CanExpand  bool    `json:"canExpand"`
	CanPlay    bool    `json:"canPlay"`
	MediaClass string  `json:"mediaClass,omitempty"`
	MimeType   string  `json:"mimeType,omitempty"`
	Children   []*Node `json:"children,omitempty"`
}

// Kind reports whether the node is a container or a leaf.
func (n *Node) Kind() Kind {
	if n.CanExpand {
		return KindContainer
	}
	return KindLeaf
}

// ResolvedMedia is the playable source for a leaf.
type ResolvedMedia struct {
	URL      string `json:"url"`
	MimeType string `json:"mimeType"`
}

// Browser returns a node and, for containers, its immediate children.
type Browser interface {
	Browse(ctx context.Context, identifier string) (*Node, error)
}

// Resolver turns a leaf identifier into a fetchable URL.
type Resolver interface {
	Resolve(ctx context.Context, identifier string) (*ResolvedMedia, error)
}

// URLProcessor rewrites a resolved URL, for example into an externally reachable form.
// Implementations must not fail.
type URLProcessor interface {
	ProcessURL(rawURL string) string
}

// URLProcessorFunc adapts a plain function to URLProcessor.
type URLProcessorFunc func(string) string

// ProcessURL calls f(rawURL).
func (f URLProcessorFunc) ProcessURL(rawURL string) string {
	return f(rawURL)
}

// IdentityURL leaves URLs untouched.
var IdentityURL URLProcessor = URLProcessorFunc(func(s string) string { return s })
