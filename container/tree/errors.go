package tree

import "fmt"

// CorruptionError is the value the package panics with when it
// detects that the links between nodes no longer describe a valid
// binary search tree. It signals a programming error, so it is
// never returned from the tree operations, only raised.
type CorruptionError struct {
	// Op is the operation that detected the corruption
	Op string

	// Reason describes the violated property
	Reason string
}

// Error is the implementation of go's error interface for CorruptionError
func (e *CorruptionError) Error() string {
	return fmt.Sprintf("tree corrupted during %s: %s", e.Op, e.Reason)
}

func corrupted(op string, format string, args ...interface{}) *CorruptionError {
	return &CorruptionError{Op: op, Reason: fmt.Sprintf(format, args...)}
}
