package rpcs

import (
	"math/rand"
	"strconv"
)

// ParseTraceID parses the value of the trace id header. A missing
// or invalid value gets a new random trace id
func ParseTraceID(value string) int64 {
	if id, err := strconv.ParseInt(value, 10, 64); err == nil && id > 0 {
		return id
	}

	return rand.Int63n(1<<62) + 1
}
