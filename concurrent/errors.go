package concurrent

import "fmt"

// ErrSupplierPanic is the error of a result whose supplier
// panicked instead of returning
type ErrSupplierPanic struct {
	Value interface{}
}

// Error implementation of error for ErrSupplierPanic
func (e ErrSupplierPanic) Error() string {
	return fmt.Sprintf("supplier panicked: %v", e.Value)
}

// Unwrap returns the panic value when it is an error
func (e ErrSupplierPanic) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}
