package tree

import "fmt"

// link is a mutable cell holding a reference to another node
type link[V any] struct {
	node Node[V]
}

func (l *link[V]) get() Node[V] {
	return l.node
}

func (l *link[V]) set(n Node[V]) {
	// a typed nil stored in the interface would read back as a live link
	if ln, ok := n.(*LinkedNode[V]); ok && ln == nil {
		n = nil
	}

	l.node = n
}

// LinkedNode is the default Node implementation. It keeps its parent
// and both children in independent link cells. Two LinkedNodes are
// considered equal when they hold equal values, regardless of their
// position in a tree.
type LinkedNode[V any] struct {
	value V
	cmp   Lesser[V]

	parent link[V]
	left   link[V]
	right  link[V]
}

// NewLinkedNode creates an isolated node holding v
func NewLinkedNode[V any](v V, cmp Lesser[V]) *LinkedNode[V] {
	if cmp == nil {
		panic("comparator must be set")
	}

	return &LinkedNode[V]{value: v, cmp: cmp}
}

// LinkedNodeFactory returns a NodeFactory that creates LinkedNodes
// ordered by cmp
func LinkedNodeFactory[V any](cmp Lesser[V]) NodeFactory[V] {
	return func(v V) Node[V] {
		return NewLinkedNode(v, cmp)
	}
}

// Value returns the value stored in the node
func (n *LinkedNode[V]) Value() V {
	return n.value
}

// IntoValue returns the value of a node that has been fully detached
func (n *LinkedNode[V]) IntoValue() V {
	if n.left.get() != nil {
		panic(corrupted("into value", "left child is set before node consumption"))
	}

	if n.right.get() != nil {
		panic(corrupted("into value", "right child is set before node consumption"))
	}

	if n.parent.get() != nil {
		panic(corrupted("into value", "parent is set before node consumption"))
	}

	return n.value
}

func (n *LinkedNode[V]) cell(d Direction) *link[V] {
	if d == Left {
		return &n.left
	}

	return &n.right
}

// Child returns the node's child in direction d
func (n *LinkedNode[V]) Child(d Direction) Node[V] {
	return n.cell(d).get()
}

// Parent returns the node's parent
func (n *LinkedNode[V]) Parent() Node[V] {
	return n.parent.get()
}

// SetChild sets the node's child in direction d
func (n *LinkedNode[V]) SetChild(d Direction, child Node[V]) {
	n.cell(d).set(child)
}

// SetParent sets the node's parent
func (n *LinkedNode[V]) SetParent(parent Node[V]) {
	n.parent.set(parent)
}

// IsLeaf returns true if the node has no children
func (n *LinkedNode[V]) IsLeaf() bool {
	return isLeaf[V](n)
}

// IsRoot returns true if the node has no parent
func (n *LinkedNode[V]) IsRoot() bool {
	return isRoot[V](n)
}

// IsChildOf returns true if the node is the child in direction d
// of its parent
func (n *LinkedNode[V]) IsChildOf(d Direction) bool {
	return isChildOf[V](n, d)
}

// DirectionToward returns the direction in which v is found
// relative to the node, or false if the node holds v
func (n *LinkedNode[V]) DirectionToward(v V) (Direction, bool) {
	switch c := n.cmp.Less(v, n.value); {
	case c < 0:
		return Left, true
	case c > 0:
		return Right, true
	default:
		return Left, false
	}
}

// Extract removes the links to and from the node's neighbours
func (n *LinkedNode[V]) Extract() (Attachment[V], Node[V], Node[V]) {
	return extract[V](n)
}

// Compare orders two nodes by their values
func (n *LinkedNode[V]) Compare(other Node[V]) int {
	return n.cmp.Less(n.value, other.Value())
}

// Equal returns true if both nodes hold equal values
func (n *LinkedNode[V]) Equal(other Node[V]) bool {
	return n.Compare(other) == 0
}

func (n *LinkedNode[V]) String() string {
	show := func(other Node[V]) string {
		if other == nil {
			return "nil"
		}

		return fmt.Sprintf("%v", other.Value())
	}

	return fmt.Sprintf("LinkedNode{%v, l: %s, r: %s, p: %s}",
		n.value, show(n.left.get()), show(n.right.get()), show(n.parent.get()))
}
