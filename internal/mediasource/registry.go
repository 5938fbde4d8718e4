package mediasource

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"media-source/internal/catalog"
	"media-source/internal/metrics"
)

// Source serves one domain of the catalog. Paths passed to a Source have the
// identifier prefix and domain removed.
type Source interface {
	Domain() string
	Name() string
	Browse(ctx context.Context, path string) (*catalog.Node, error)
	Resolve(ctx context.Context, path string) (*catalog.ResolvedMedia, error)
}

// RootTitle is the title of the node listing all sources.
const RootTitle = "Media Sources"

// Registry dispatches identifiers to the registered sources.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]Source
	order   []string
}

// NewRegistry returns a registry holding sources, in order.
func NewRegistry(sources ...Source) (*Registry, error) {
	r := &Registry{sources: make(map[string]Source)}
	for _, s := range sources {
		if err := r.Register(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a source. Domains must be unique and non-empty.
func (r *Registry) Register(s Source) error {
	domain := s.Domain()
	if domain == "" {
		return errors.New("media source has an empty domain")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sources[domain]; exists {
		return fmt.Errorf("media source %q already registered", domain)
	}
	r.sources[domain] = s
	r.order = append(r.order, domain)
	return nil
}

// Domains lists registered domains in registration order.
func (r *Registry) Domains() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

func (r *Registry) source(domain string) (Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sources[domain]
	if !ok {
		return nil, fmt.Errorf("%w: unknown media source %q", catalog.ErrNotFound, domain)
	}
	return s, nil
}

// Browse implements catalog.Browser.
func (r *Registry) Browse(ctx context.Context, identifier string) (*catalog.Node, error) {
	id, err := ParseIdentifier(identifier)
	if err != nil {
		return nil, err
	}
	if id.IsRoot() {
		return r.root(), nil
	}

	s, err := r.source(id.Domain)
	if err != nil {
		return nil, err
	}

	node, err := s.Browse(ctx, id.Path)
	metrics.BrowseTotal.WithLabelValues(id.Domain, browseStatus(err)).Inc()
	return node, err
}

// Resolve implements catalog.Resolver.
func (r *Registry) Resolve(ctx context.Context, identifier string) (*catalog.ResolvedMedia, error) {
	id, err := ParseIdentifier(identifier)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", catalog.ErrUnresolvable, err)
	}
	if id.IsRoot() {
		return nil, fmt.Errorf("%w: the source listing is not playable", catalog.ErrUnresolvable)
	}

	s, err := r.source(id.Domain)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", catalog.ErrUnresolvable, err)
	}

	media, err := s.Resolve(ctx, id.Path)
	metrics.ResolveTotal.WithLabelValues(id.Domain, resolveStatus(err)).Inc()
	return media, err
}

func (r *Registry) root() *catalog.Node {
	r.mu.RLock()
	defer r.mu.RUnlock()

	node := &catalog.Node{
		Identifier: URIScheme,
		Title:      RootTitle,
		CanExpand:  true,
		MediaClass: MediaClassDirectory,
		Children:   make([]*catalog.Node, 0, len(r.order)),
	}
	for _, domain := range r.order {
		node.Children = append(node.Children, &catalog.Node{
			Identifier: ID(domain, ""),
			Title:      r.sources[domain].Name(),
			CanExpand:  true,
			MediaClass: MediaClassDirectory,
		})
	}
	return node
}

func browseStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, catalog.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func resolveStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, catalog.ErrUnresolvable):
		return "unresolvable"
	default:
		return "error"
	}
}
