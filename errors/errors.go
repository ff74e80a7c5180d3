package errors

import (
	"fmt"

	"github.com/eaugeas/bstree/logs"
)

// Codes identifying the errors the set service can return
const (
	ErrorCodeUnknown       = -1
	ErrorCodeInvalidValue  = 1001
	ErrorCodeValueMissing  = 1003
	ErrorCodeTreeCorrupted = 1004
)

// Error is the response returned by the server when it fails
// to satisfy a request
type Error struct {
	// ErrorCode is a unique identifier for the error that can be used to identify
	// the particular type of error encountered
	ErrorCode int `json:"errorCode"`

	// Description is a human-readable description of the error that occurred
	// to aid the client in debugging
	Description string `json:"description"`
}

// New creates a new error with a formatted description
func New(code int, format string, args ...interface{}) *Error {
	return &Error{ErrorCode: code, Description: fmt.Sprintf(format, args...)}
}

// Error is the implementation of go's error interface for Error
func (e *Error) Error() string {
	return e.Description
}

// Log is the implementation of logs.Loggable for Error
func (e *Error) Log(fields logs.Fields) {
	fields.Add("error_code", e.ErrorCode)
	fields.Add("description", e.Description)
}
