package playlist

import (
	"context"
	"fmt"

	"media-source/internal/catalog"
)

// DefaultMaxDepth bounds how many containers may be nested below the root.
const DefaultMaxDepth = 64

// Flattener walks a catalog subtree and collects its leaves in play order.
type Flattener struct {
	browser  catalog.Browser
	maxDepth int
}

// NewFlattener returns a Flattener browsing through b.
// A maxDepth of zero or less selects DefaultMaxDepth.
func NewFlattener(b catalog.Browser, maxDepth int) *Flattener {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Flattener{browser: b, maxDepth: maxDepth}
}

// Flatten returns the leaves below root, depth first and left to right.
//
// A leaf root yields itself. A container with no children yields nothing.
// Expandable children are browsed one at a time, in order, because the copy held
// by the parent only carries summary data.
func (f *Flattener) Flatten(ctx context.Context, root *catalog.Node) ([]*catalog.Node, error) {
	if root.Kind() == catalog.KindLeaf {
		return []*catalog.Node{root}, nil
	}

	w := &walk{
		Flattener: f,
		path:      make(map[string]struct{}),
		leaves:    []*catalog.Node{},
	}
	if err := w.visit(ctx, root, 0); err != nil {
		return nil, err
	}
	return w.leaves, nil
}

// walk holds the state of one Flatten call.
type walk struct {
	*Flattener
	path   map[string]struct{} // containers on the current branch
	leaves []*catalog.Node
}

func (w *walk) visit(ctx context.Context, node *catalog.Node, depth int) error {
	if depth > w.maxDepth {
		return fmt.Errorf("%w: more than %d nested containers below the root", catalog.ErrCatalogTooDeep, w.maxDepth)
	}
	if _, seen := w.path[node.Identifier]; seen {
		return fmt.Errorf("%w: %q contains itself", catalog.ErrCyclicCatalog, node.Identifier)
	}
	w.path[node.Identifier] = struct{}{}
	defer delete(w.path, node.Identifier)

	for _, child := range node.Children {
		if err := ctx.Err(); err != nil {
			return err
		}

		if child.Kind() == catalog.KindLeaf {
			w.leaves = append(w.leaves, child)
			continue
		}

		if _, seen := w.path[child.Identifier]; seen {
			return fmt.Errorf("%w: %q contains itself", catalog.ErrCyclicCatalog, child.Identifier)
		}

		expanded, err := w.browser.Browse(ctx, child.Identifier)
		if err != nil {
			return fmt.Errorf("browse %q: %w", child.Identifier, err)
		}

		if expanded.Kind() == catalog.KindLeaf {
			// The catalog changed between the two browse calls; play what it is now.
			w.leaves = append(w.leaves, expanded)
			continue
		}
		if err := w.visit(ctx, expanded, depth+1); err != nil {
			return err
		}
	}

	return nil
}
