package mediasource

import (
	"fmt"
	"strings"

	"media-source/internal/catalog"
)

// URIScheme prefixes every media source identifier.
const URIScheme = "media-source://"

// Identifier is a parsed media source identifier.
type Identifier struct {
	Domain string
	Path   string
}

// ParseIdentifier splits id into its domain and path. An id equal to
// URIScheme yields the zero Identifier, which addresses the root listing.
func ParseIdentifier(id string) (Identifier, error) {
	rest, ok := strings.CutPrefix(id, URIScheme)
	if !ok {
		return Identifier{}, fmt.Errorf("%w: invalid media source URI %q", catalog.ErrNotFound, id)
	}

	domain, p, _ := strings.Cut(rest, "/")
	if domain == "" && p != "" {
		return Identifier{}, fmt.Errorf("%w: media source URI %q has no domain", catalog.ErrNotFound, id)
	}
	return Identifier{Domain: domain, Path: strings.Trim(p, "/")}, nil
}

// IsRoot reports whether the identifier addresses the list of sources.
func (i Identifier) IsRoot() bool {
	return i.Domain == ""
}

// String formats the identifier back into its URI form.
func (i Identifier) String() string {
	return ID(i.Domain, i.Path)
}

// ID builds the identifier for path within domain.
func ID(domain, path string) string {
	if path == "" {
		return URIScheme + domain
	}
	return URIScheme + domain + "/" + path
}
