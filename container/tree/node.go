package tree

// Node is the set of capabilities the Tree requires from a node.
// The Tree only ever reaches the structure through these methods, so
// any representation of the links can be plugged in through a
// NodeFactory. An absent link is the nil Node. Implementations must
// be pointer types, since the tree compares nodes by identity when
// it verifies that a removed node was fully released.
type Node[V any] interface {
	// Value returns the value stored in the node
	Value() V

	// IntoValue consumes the node and returns its value. It panics
	// if the node still has any link set
	IntoValue() V

	// Child returns the child in the given direction, or nil
	Child(d Direction) Node[V]

	// Parent returns the parent of the node, or nil
	Parent() Node[V]

	// SetChild overwrites the child link in the given direction. The
	// caller is responsible for updating the parent link of the child
	SetChild(d Direction, child Node[V])

	// SetParent overwrites the parent link. The caller is responsible
	// for updating the child link of the parent
	SetParent(parent Node[V])

	// IsLeaf returns true if the node has no children
	IsLeaf() bool

	// IsRoot returns true if the node has no parent
	IsRoot() bool

	// IsChildOf returns true if the node has a parent and the
	// parent's child in direction d has the same value as the node
	IsChildOf(d Direction) bool

	// DirectionToward returns the direction in which v has to be
	// looked for starting at this node. ok is false when v is equal
	// to the node's value
	DirectionToward(v V) (d Direction, ok bool)

	// Extract severs the links between the node and its parent and
	// children, in both directions. It returns where the node was
	// attached and the two children it left orphaned
	Extract() (up Attachment[V], left Node[V], right Node[V])
}

// Attachment describes the position a node occupied under its parent
// before it was extracted. Parent is nil if the node had none.
type Attachment[V any] struct {
	Direction Direction
	Parent    Node[V]
}

// Attached returns true if the extracted node had a parent
func (a Attachment[V]) Attached() bool {
	return a.Parent != nil
}

// NodeFactory creates a new isolated node holding v
type NodeFactory[V any] func(v V) Node[V]

func sameValue[V any](a, b Node[V]) bool {
	_, ok := a.DirectionToward(b.Value())
	return !ok
}

func isLeaf[V any](n Node[V]) bool {
	return n.Child(Left) == nil && n.Child(Right) == nil
}

func isRoot[V any](n Node[V]) bool {
	return n.Parent() == nil
}

func isLinked[V any](n Node[V]) bool {
	return !isLeaf(n) || !isRoot(n)
}

func isChildOf[V any](n Node[V], d Direction) bool {
	parent := n.Parent()
	if parent == nil {
		return false
	}

	child := parent.Child(d)
	if child == nil {
		return false
	}

	return sameValue(child, n)
}

func extract[V any](n Node[V]) (Attachment[V], Node[V], Node[V]) {
	var up Attachment[V]
	parent := n.Parent()
	left := n.Child(Left)
	right := n.Child(Right)

	if parent != nil {
		n.SetParent(nil)
		d, ok := parent.DirectionToward(n.Value())
		if !ok {
			panic(corrupted("extract", "parent holds the same value as its child"))
		}

		parent.SetChild(d, nil)
		up = Attachment[V]{Direction: d, Parent: parent}
	}

	if left != nil {
		left.SetParent(nil)
		n.SetChild(Left, nil)
	}

	if right != nil {
		right.SetParent(nil)
		n.SetChild(Right, nil)
	}

	return up, left, right
}

// attach links child under parent in direction d, updating both ends.
// A nil child clears the slot.
func attach[V any](parent Node[V], d Direction, child Node[V]) {
	parent.SetChild(d, child)
	if child != nil {
		child.SetParent(parent)
	}
}

// Extreme returns the node reached by following the links in
// direction d from n until there is no further child. Extreme(n, Left)
// is the minimum of the subtree rooted at n.
func Extreme[V any](n Node[V], d Direction) Node[V] {
	if n == nil {
		return nil
	}

	curr := n
	for next := curr.Child(d); next != nil; next = curr.Child(d) {
		curr = next
	}

	return curr
}

// Successor finds the successor of the node in its tree. That is,
// the node of the lowest order that is strictly greater than n. It
// returns nil if n holds the maximum.
func Successor[V any](n Node[V]) Node[V] {
	return adjacent(n, Right)
}

// Predecessor finds the predecessor of the node in its tree. That is,
// the node of the highest order that is strictly smaller than n. It
// returns nil if n holds the minimum.
func Predecessor[V any](n Node[V]) Node[V] {
	return adjacent(n, Left)
}

// adjacent returns the in-order neighbour of n in direction d
func adjacent[V any](n Node[V], d Direction) Node[V] {
	if child := n.Child(d); child != nil {
		return Extreme(child, d.Flip())
	}

	curr := n
	for curr.IsChildOf(d) {
		curr = curr.Parent()
	}

	if curr.IsChildOf(d.Flip()) {
		return curr.Parent()
	}

	if curr.Parent() != nil {
		panic(corrupted("adjacent", "parent of %v does not hold it as a child", curr.Value()))
	}

	return nil
}
