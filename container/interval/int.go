package interval

import (
	"fmt"

	"github.com/eaugeas/bstree/container/tree"
)

// IntLesser orders intervals within a tree by their
// minimum only. Two intervals in the same IntSet never share
// a minimum, since they are disjoint
type IntLesser struct{}

// Less is the implementation of tree.Lesser for IntLesser
func (IntLesser) Less(a, b Int) int {
	return tree.IntLesser{}.Less(a.min, b.min)
}

// Int represents an interval with integers. An interval
// is represented by two integers a, b such that
// [a, b]. An interval is immutable.
type Int struct {
	min int
	max int
}

// NewInt returns a new interval
func NewInt(min, max int) Int {
	if min > max {
		panic("min cannot be greater than max")
	}

	return Int{min: min, max: max}
}

// Min returns the a of the interval [a, b]
func (i Int) Min() int {
	return i.min
}

// Max returns the b of the interval [a, b]
func (i Int) Max() int {
	return i.max
}

// Len returns the length of the interval
func (i Int) Len() int {
	return i.max - i.min + 1
}

// String formats the interval as [a, b]
func (i Int) String() string {
	return fmt.Sprintf("[%d, %d]", i.min, i.max)
}

// Contains returns true if the interval represented
// by j is contained by i
func (i Int) Contains(j Int) bool {
	return i.min <= j.min && j.max <= i.max
}

// Disjoints returns true if the intersection between
// i and j is empty
func (i Int) Disjoints(j Int) bool {
	return i.max < j.min || j.max < i.min
}

// Intersection returns the interval of intersection
// between i and j. It panics if they are disjoint
func (i Int) Intersection(j Int) Int {
	if i.Disjoints(j) {
		panic("intersection between two disjoint intervals")
	}

	return Int{min: max(i.min, j.min), max: min(i.max, j.max)}
}

// CanMerge returns true if the both intervals can be
// merged into one. That is, if i and j are not disjoints
// or they share a boundary. For example, i = [a, b] and
// j = [b + 1, c], in which case the resulting merged
// interval would be k = [a, c]
func (i Int) CanMerge(j Int) bool {
	return !i.Disjoints(j) || i.min == j.max+1 || i.max+1 == j.min
}

// Merge merges two intervals and returns the result
// in a new interval. If j cannot be merged with i,
// Merge will panic
func (i Int) Merge(j Int) Int {
	if !i.CanMerge(j) {
		panic("cannot merge intervals")
	}

	return Int{min: min(i.min, j.min), max: max(i.max, j.max)}
}

// IntSet represents a set of disjoint intervals. Adjacent or
// overlapping intervals are merged on insertion, so that
// inserting [1, 2], [3, 3] and [5, 5] keeps [1, 3] and [5, 5]
// instead of every single number.
//
// A use case for this is to keep track of message offsets
// that are continuous, where most insertions extend the
// highest interval. The intervals are kept in a tree.Tree,
// so the set is not safe for concurrent use.
type IntSet struct {
	intervals *tree.Tree[Int]
}

// NewIntSet creates a new instance of a interval set
func NewIntSet() *IntSet {
	return NewIntSetWithOpts(tree.TreeOpts[Int]{})
}

// NewIntSetWithOpts creates a new interval set whose
// tree is configured with opts
func NewIntSetWithOpts(opts tree.TreeOpts[Int]) *IntSet {
	return &IntSet{intervals: tree.NewTreeWithOpts[Int](IntLesser{}, opts)}
}

// Len returns the number of disjoint intervals
func (s *IntSet) Len() int {
	return s.intervals.Len()
}

// Intervals returns the disjoint intervals in ascending order
func (s *IntSet) Intervals() []Int {
	return s.intervals.Values()
}

// Contains returns true if the set contains
// any interval which contains the interval
func (s *IntSet) Contains(i Int) bool {
	lower, ok := s.lower(i)
	return ok && lower.Contains(i)
}

// Insert inserts an interval to the set. Any interval already in
// the set that can be merged with i is removed and merged into it
func (s *IntSet) Insert(i Int) {
	if lower, ok := s.lower(i); ok && i.CanMerge(lower) {
		i = i.Merge(s.remove(lower))
	}

	for {
		higher, ok := s.higher(i)
		if !ok || !i.CanMerge(higher) {
			break
		}

		i = i.Merge(s.remove(higher))
	}

	if !s.intervals.Insert(i) {
		panic(fmt.Sprintf("interval %v overlaps an interval in the set", i))
	}
}

// Verify checks the consistency of the underlying tree and that
// no two intervals in the set could have been merged
func (s *IntSet) Verify() error {
	if err := s.intervals.Verify(); err != nil {
		return err
	}

	intervals := s.Intervals()
	for k := 1; k < len(intervals); k++ {
		if intervals[k-1].CanMerge(intervals[k]) {
			return fmt.Errorf("intervals %v and %v should have been merged",
				intervals[k-1], intervals[k])
		}
	}

	return nil
}

func (s *IntSet) remove(i Int) Int {
	removed, ok := s.intervals.Delete(i)
	if !ok {
		panic(fmt.Sprintf("failed to delete interval %v", i))
	}

	return removed
}

func (s *IntSet) higher(i Int) (Int, bool) {
	node := s.intervals.Higher(i)
	if node == nil {
		return Int{}, false
	}

	return node.Value(), true
}

func (s *IntSet) lower(i Int) (Int, bool) {
	node := s.intervals.Lower(i)
	if node == nil {
		return Int{}, false
	}

	return node.Value(), true
}
