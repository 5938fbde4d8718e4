package playlist

import (
	"context"
	"fmt"
	"strings"

	"media-source/internal/catalog"
)

// Source is a catalog that can both browse and resolve.
type Source interface {
	catalog.Browser
	catalog.Resolver
}

// Builder produces playlists for media identifiers.
type Builder struct {
	source    Source
	processor catalog.URLProcessor
	flattener *Flattener
}

// NewBuilder returns a Builder over source. processor may be nil.
func NewBuilder(source Source, processor catalog.URLProcessor, maxDepth int) *Builder {
	if processor == nil {
		processor = catalog.IdentityURL
	}
	return &Builder{
		source:    source,
		processor: processor,
		flattener: NewFlattener(source, maxDepth),
	}
}

// Build browses identifier, flattens the subtree below it and resolves every leaf.
func (b *Builder) Build(ctx context.Context, identifier string) (*Playlist, error) {
	if strings.TrimSpace(identifier) == "" {
		return nil, fmt.Errorf("%w: media identifier is required", catalog.ErrInvalidRequest)
	}

	root, err := b.source.Browse(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("browse %q: %w", identifier, err)
	}

	leaves, err := b.flattener.Flatten(ctx, root)
	if err != nil {
		return nil, err
	}

	return Resolve(ctx, b.source, b.processor, root.Title, leaves)
}
