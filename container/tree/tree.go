package tree

import "time"

// TreeOpts are the options to configure a Tree
type TreeOpts[V any] struct {
	// Coin is flipped to pick the side that donates the replacement
	// when a node with two children is deleted. Defaults to a fair
	// coin seeded with the current time
	Coin Coin

	// Factory creates the node for every inserted value. Defaults to
	// LinkedNodeFactory
	Factory NodeFactory[V]
}

// Tree represents a binary search tree without duplicate values.
// It applies no balancing strategy; to avoid skewing the tree in a
// systematic way, deleting a node with two children replaces it with
// either its predecessor or its successor, chosen at random.
//
// A Tree is not safe for concurrent use. Find, Iter and the walks can
// run concurrently with each other, but not with Insert or Delete.
type Tree[V any] struct {
	root    Node[V]
	coin    Coin
	factory NodeFactory[V]
	len     int
}

// NewTree creates a new empty tree ordered by cmp
func NewTree[V any](cmp Lesser[V]) *Tree[V] {
	return NewTreeWithOpts(cmp, TreeOpts[V]{})
}

// NewTreeWithOpts creates a new empty tree ordered by cmp with
// the provided options
func NewTreeWithOpts[V any](cmp Lesser[V], opts TreeOpts[V]) *Tree[V] {
	if cmp == nil {
		panic("comparator must be set")
	}

	if opts.Coin == nil {
		opts.Coin = NewRandomCoin(time.Now().UnixNano())
	}

	if opts.Factory == nil {
		opts.Factory = LinkedNodeFactory(cmp)
	}

	return &Tree[V]{coin: opts.Coin, factory: opts.Factory}
}

// Len returns the number of nodes in the tree
func (t *Tree[V]) Len() int {
	return t.len
}

// Empty returns true if the tree has no nodes
func (t *Tree[V]) Empty() bool {
	return t.root == nil
}

// Root returns the root of the tree. It returns
// nil for an empty tree
func (t *Tree[V]) Root() Node[V] {
	return t.root
}

// Min returns the node in the tree with the
// lowest value. It returns nil if the tree
// is empty
func (t *Tree[V]) Min() Node[V] {
	return Extreme(t.root, Left)
}

// Max returns the node in the tree with the
// highest value. It returns nil if the tree
// is empty
func (t *Tree[V]) Max() Node[V] {
	return Extreme(t.root, Right)
}

// Find returns the node in the tree that contains
// a value equal to the one provided, or nil
func (t *Tree[V]) Find(v V) Node[V] {
	for curr := t.root; curr != nil; {
		d, ok := curr.DirectionToward(v)
		if !ok {
			return curr
		}

		curr = curr.Child(d)
	}

	return nil
}

// Contains returns true if the tree contains a node with value v
func (t *Tree[V]) Contains(v V) bool {
	return t.Find(v) != nil
}

// Higher returns the node in the tree that has the
// smallest order which is higher than or equal to v
func (t *Tree[V]) Higher(v V) Node[V] {
	var higher Node[V]

	for curr := t.root; curr != nil; {
		d, ok := curr.DirectionToward(v)
		if !ok {
			return curr
		}

		if d == Left {
			higher = curr
		}

		curr = curr.Child(d)
	}

	return higher
}

// Lower returns the node in the tree that has the
// highest order which is lower than or equal to v
func (t *Tree[V]) Lower(v V) Node[V] {
	var lower Node[V]

	for curr := t.root; curr != nil; {
		d, ok := curr.DirectionToward(v)
		if !ok {
			return curr
		}

		if d == Right {
			lower = curr
		}

		curr = curr.Child(d)
	}

	return lower
}

// Insert a value into the tree. Inserting a value that is already
// present leaves the tree untouched and returns false
func (t *Tree[V]) Insert(v V) bool {
	var parent Node[V]
	var dir Direction

	for curr := t.root; curr != nil; {
		d, ok := curr.DirectionToward(v)
		if !ok {
			return false
		}

		parent, dir = curr, d
		curr = curr.Child(d)
	}

	n := t.factory(v)
	if parent == nil {
		t.root = n
	} else {
		attach(parent, dir, n)
	}

	t.len++
	return true
}

// Delete the node on the tree that has value equal to v and
// return its value. It returns false if there is no such node
func (t *Tree[V]) Delete(v V) (V, bool) {
	n := t.Find(v)
	if n == nil {
		var zero V
		return zero, false
	}

	r := t.removeSubtreeRoot(n)
	r.assertReleased(t, n)
	t.len--

	return n.IntoValue(), true
}
