package tree

// removal records the neighbourhood of a node removed from the tree
type removal[V any] struct {
	up          Attachment[V]
	left        Node[V]
	right       Node[V]
	replacement Node[V]
}

// removeSubtreeRoot detaches n from the tree and splices the
// subtrees it leaves behind back into its place
func (t *Tree[V]) removeSubtreeRoot(n Node[V]) removal[V] {
	wasRoot := t.root == n

	up, left, right := n.Extract()
	if !up.Attached() && !wasRoot {
		panic(corrupted("delete", "node %v has no parent but is not the root", n.Value()))
	}

	var replacement Node[V]
	switch {
	case left == nil && right == nil:
	case left == nil:
		replacement = right
	case right == nil:
		replacement = left
	default:
		replacement = t.promote(left, right)
	}

	if up.Attached() {
		attach(up.Parent, up.Direction, replacement)
	}

	if wasRoot {
		t.root = replacement
	}

	return removal[V]{up: up, left: left, right: right, replacement: replacement}
}

// promote joins the two orphaned subtrees of a removed node under a
// single root and returns it. The coin picks the donor side: Left
// promotes the maximum of the left subtree, Right the minimum of the
// right subtree.
func (t *Tree[V]) promote(left, right Node[V]) Node[V] {
	d := t.coin.Flip()
	donor, other := left, right
	if d == Right {
		donor, other = right, left
	}

	// inner is the side of the donor facing the removed node
	inner := d.Flip()
	if donor.Child(inner) == nil {
		attach(donor, inner, other)
		return donor
	}

	extremum := Extreme(donor, inner)
	up, orphan, rest := extremum.Extract()
	if d == Right {
		orphan, rest = rest, orphan
	}

	if rest != nil {
		panic(corrupted("delete", "extremum %v has a child on its inner side", extremum.Value()))
	}

	// the extremum is deeper than the donor, so it always had a parent
	attach(up.Parent, up.Direction, orphan)

	attach(extremum, d, donor)
	attach(extremum, inner, other)
	return extremum
}

// assertReleased panics if any node that surrounded n still links
// to it after its removal
func (r removal[V]) assertReleased(t *Tree[V], n Node[V]) {
	if t.root == n {
		panic(corrupted("delete", "removed node %v is still the root", n.Value()))
	}

	for _, other := range []Node[V]{r.up.Parent, r.left, r.right, r.replacement} {
		if other == nil {
			continue
		}

		if other.Parent() == n || other.Child(Left) == n || other.Child(Right) == n {
			panic(corrupted("delete", "removed node %v is still linked from %v", n.Value(), other.Value()))
		}
	}
}
