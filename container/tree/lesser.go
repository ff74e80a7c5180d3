package tree

import "cmp"

// Lesser compares two values
type Lesser[V any] interface {
	// Less returns:
	//
	//	-1 if a < b
	//	 0 if a == b
	//	 1 if a > b
	Less(a, b V) int
}

// LesserFunc allows a function to act as a Lesser
type LesserFunc[V any] func(a, b V) int

// Less is the implementation of Lesser for LesserFunc
func (f LesserFunc[V]) Less(a, b V) int {
	return f(a, b)
}

// OrderedLesser implementation of the Lesser interface for
// any type that supports the ordering operators
type OrderedLesser[V cmp.Ordered] struct{}

// Less is the implementation of Lesser for OrderedLesser
func (OrderedLesser[V]) Less(a, b V) int {
	return cmp.Compare(a, b)
}

// IntLesser implementation of the Lesser interface for
// integers
type IntLesser = OrderedLesser[int]

// StringLesser implementation of the Lesser interface for
// strings
type StringLesser = OrderedLesser[string]
