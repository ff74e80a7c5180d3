package set

import (
	"context"
	"fmt"

	"github.com/eaugeas/bstree/container/tree"
	"github.com/eaugeas/bstree/rpcs"
	"github.com/xlab/treeprint"
)

// ShapeResponse is the response with the rendering of the tree
type ShapeResponse struct {
	Shape string `json:"shape"`
	Stats
}

// Shape renders the tree holding the set, one node per line
// with its children below it
func (s *Service) Shape(ctx context.Context) (string, Stats) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return renderShape(s.values.Root()), s.stats()
}

func renderShape(root tree.Node[int]) string {
	if root == nil {
		return ""
	}

	printer := treeprint.NewWithRoot(root.Value())
	addChildren(printer, root)
	return printer.String()
}

func addChildren(printer treeprint.Tree, n tree.Node[int]) {
	for _, d := range []tree.Direction{tree.Left, tree.Right} {
		child := n.Child(d)
		if child == nil {
			continue
		}

		label := fmt.Sprintf("%s: %d", d, child.Value())
		if child.IsLeaf() {
			printer.AddNode(label)
		} else {
			addChildren(printer.AddBranch(label), child)
		}
	}
}

// ShapeHandler handles the rendering of the tree
func (s *Service) ShapeHandler() rpcs.Handler {
	return rpcs.HandlerFunc(func(ctx context.Context, body interface{}) (interface{}, error) {
		shape, stats := s.Shape(ctx)
		return ShapeResponse{Shape: shape, Stats: stats}, nil
	})
}
