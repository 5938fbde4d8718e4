package playlist

import (
	"context"
	"fmt"

	"media-source/internal/catalog"
)

// fakeCatalog is an in-memory Source keyed by identifier.
type fakeCatalog struct {
	nodes       map[string]*catalog.Node
	urls        map[string]string
	failResolve map[string]bool
	browsed     []string
	resolved    []string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		nodes:       make(map[string]*catalog.Node),
		urls:        make(map[string]string),
		failResolve: make(map[string]bool),
	}
}

func (f *fakeCatalog) container(id, title string, children ...*catalog.Node) *catalog.Node {
	n := &catalog.Node{Identifier: id, Title: title, CanExpand: true, Children: children}
	f.nodes[id] = n
	return n
}

func (f *fakeCatalog) leaf(id, title, url string) *catalog.Node {
	n := &catalog.Node{Identifier: id, Title: title, CanPlay: true}
	f.nodes[id] = n
	f.urls[id] = url
	return n
}

// summary returns the copy of a node as a parent listing would carry it.
func summary(n *catalog.Node) *catalog.Node {
	return &catalog.Node{Identifier: n.Identifier, Title: n.Title, CanExpand: n.CanExpand, CanPlay: n.CanPlay}
}

func (f *fakeCatalog) Browse(_ context.Context, id string) (*catalog.Node, error) {
	f.browsed = append(f.browsed, id)
	n, ok := f.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", catalog.ErrNotFound, id)
	}
	return n, nil
}

func (f *fakeCatalog) Resolve(_ context.Context, id string) (*catalog.ResolvedMedia, error) {
	f.resolved = append(f.resolved, id)
	if f.failResolve[id] {
		return nil, fmt.Errorf("%w: %s", catalog.ErrUnresolvable, id)
	}
	url, ok := f.urls[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", catalog.ErrUnresolvable, id)
	}
	return &catalog.ResolvedMedia{URL: url, MimeType: "audio/mpeg"}, nil
}

func identifiers(nodes []*catalog.Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.Identifier
	}
	return ids
}
