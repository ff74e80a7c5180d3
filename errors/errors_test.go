package errors

import (
	"testing"

	"github.com/eaugeas/bstree/logs"
	"github.com/stretchr/testify/assert"
)

func TestErrorNew(t *testing.T) {
	err := New(ErrorCodeValueMissing, "value %d not found", 4)

	assert.Equal(t, "value 4 not found", err.Error())
	assert.Equal(t, ErrorCodeValueMissing, err.ErrorCode)
}

func TestErrorLog(t *testing.T) {
	fields := make(logs.Fields)

	New(ErrorCodeTreeCorrupted, "broken").Log(fields)

	assert.Equal(t, logs.Fields{
		"error_code":  ErrorCodeTreeCorrupted,
		"description": "broken",
	}, fields)
}

func TestErrorCodesDistinct(t *testing.T) {
	codes := []int{
		ErrorCodeUnknown,
		ErrorCodeInvalidValue,
		ErrorCodeValueMissing,
		ErrorCodeTreeCorrupted,
	}

	seen := make(map[int]bool)
	for _, code := range codes {
		assert.False(t, seen[code], "code %d", code)
		seen[code] = true
	}
}
