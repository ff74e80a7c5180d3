package tree

// Iterator yields the values of a tree in ascending order. It holds
// copies of the values it returns, so they remain valid after the
// tree changes, but the tree must not be modified while the iterator
// is in use.
type Iterator[V any] struct {
	next Node[V]
}

// Iter returns an iterator positioned at the minimum of the tree.
// Each call returns a new iterator starting over.
func (t *Tree[V]) Iter() *Iterator[V] {
	return &Iterator[V]{next: t.Min()}
}

// Next returns the next value. The second return value is false
// once the iterator is exhausted, and stays false from then on.
func (it *Iterator[V]) Next() (V, bool) {
	if it.next == nil {
		var zero V
		return zero, false
	}

	curr := it.next
	it.next = Successor(curr)
	return curr.Value(), true
}

// Values returns all the values of the tree in ascending order
func (t *Tree[V]) Values() []V {
	values := make([]V, 0, t.len)
	t.InOrderWalk(func(v V) {
		values = append(values, v)
	})

	return values
}

// InOrderWalk calls fn for every value in ascending order
func (t *Tree[V]) InOrderWalk(fn func(V)) {
	for it := t.Iter(); ; {
		v, ok := it.Next()
		if !ok {
			return
		}

		fn(v)
	}
}

// PreOrderWalk calls fn for every node before its children,
// left subtree first
func (t *Tree[V]) PreOrderWalk(fn func(V)) {
	for curr := t.root; curr != nil; curr = preOrderNext(curr) {
		fn(curr.Value())
	}
}

func preOrderNext[V any](n Node[V]) Node[V] {
	if left := n.Child(Left); left != nil {
		return left
	}

	if right := n.Child(Right); right != nil {
		return right
	}

	// climb until coming up from a left child whose
	// sibling has not been visited yet
	for curr := n; curr.Parent() != nil; curr = curr.Parent() {
		if curr.IsChildOf(Left) {
			if right := curr.Parent().Child(Right); right != nil {
				return right
			}
		}
	}

	return nil
}

// PostOrderWalk calls fn for every node after its children,
// left subtree first
func (t *Tree[V]) PostOrderWalk(fn func(V)) {
	if t.root == nil {
		return
	}

	for curr := firstPostOrder(t.root); curr != nil; curr = postOrderNext(curr) {
		fn(curr.Value())
	}
}

func firstPostOrder[V any](n Node[V]) Node[V] {
	curr := n
	for !curr.IsLeaf() {
		if left := curr.Child(Left); left != nil {
			curr = left
		} else {
			curr = curr.Child(Right)
		}
	}

	return curr
}

func postOrderNext[V any](n Node[V]) Node[V] {
	parent := n.Parent()
	if parent == nil {
		return nil
	}

	if n.IsChildOf(Left) {
		if right := parent.Child(Right); right != nil {
			return firstPostOrder(right)
		}
	}

	return parent
}

// Height returns the number of nodes in the longest path
// from the root to a leaf
func (t *Tree[V]) Height() int {
	return height(t.root)
}

func height[V any](n Node[V]) int {
	if n == nil {
		return 0
	}

	left, right := height(n.Child(Left)), height(n.Child(Right))
	if left > right {
		return left + 1
	}

	return right + 1
}

// Verify checks that the links of the tree describe a valid binary
// search tree: children point back to their parents, the root has no
// parent, there are no cycles, values are strictly ascending in order
// and the number of nodes matches Len. It returns a *CorruptionError
// describing the first violation found.
func (t *Tree[V]) Verify() error {
	if t.root == nil {
		if t.len != 0 {
			return corrupted("verify", "empty tree reports %d nodes", t.len)
		}
		return nil
	}

	if t.root.Parent() != nil {
		return corrupted("verify", "root %v has a parent", t.root.Value())
	}

	var (
		stack   []Node[V]
		prev    Node[V]
		visited int
	)

	for curr := t.root; curr != nil || len(stack) > 0; {
		for ; curr != nil; curr = curr.Child(Left) {
			if visited+len(stack) >= t.len {
				return corrupted("verify", "more nodes reachable than the %d inserted", t.len)
			}

			for _, d := range []Direction{Left, Right} {
				if child := curr.Child(d); child != nil && child.Parent() != curr {
					return corrupted("verify", "%s child %v of %v does not link back to it",
						d, child.Value(), curr.Value())
				}
			}

			stack = append(stack, curr)
		}

		curr, stack = stack[len(stack)-1], stack[:len(stack)-1]
		if prev != nil {
			if d, ok := prev.DirectionToward(curr.Value()); !ok || d != Right {
				return corrupted("verify", "%v is not greater than its predecessor %v",
					curr.Value(), prev.Value())
			}
		}

		prev = curr
		visited++
		curr = curr.Child(Right)
	}

	if visited != t.len {
		return corrupted("verify", "%d nodes reachable but %d inserted", visited, t.len)
	}

	return nil
}
