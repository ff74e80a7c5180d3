package logs

import "context"

type contextKey string

// ContextKeyTraceID is the context key under which the trace id of
// a request is kept. Loggers add it to every message logged with
// that context
const ContextKeyTraceID contextKey = "trace_id"

// Fields accumulates the key value pairs of a log message
type Fields map[string]interface{}

// Add a new field. A field with the same key is overwritten
func (f Fields) Add(key string, value interface{}) {
	f[key] = value
}

// Loggable is implemented by any type that knows how to describe
// itself in a log message
type Loggable interface {
	// Log adds the fields that describe the instance
	Log(fields Fields)
}

// LoggableFunc allows functions to act as a Loggable
type LoggableFunc func(fields Fields)

// Log is the implementation of Loggable for LoggableFunc
func (f LoggableFunc) Log(fields Fields) {
	f(fields)
}

// MapFields is a Loggable made of plain key value pairs
type MapFields map[string]interface{}

// Log is the implementation of Loggable for MapFields
func (m MapFields) Log(fields Fields) {
	for k, v := range m {
		fields.Add(k, v)
	}
}

// Logger is the interface every component logs through
type Logger interface {
	// Debug logs a message at debug level
	Debug(ctx context.Context, msg string, loggables ...Loggable)

	// Info logs a message at info level
	Info(ctx context.Context, msg string, loggables ...Loggable)

	// Warn logs a message at warn level
	Warn(ctx context.Context, msg string, loggables ...Loggable)

	// Error logs a message at error level
	Error(ctx context.Context, msg string, loggables ...Loggable)

	// ForClass returns a logger that adds the package and the
	// class to all the messages it logs
	ForClass(pkg, class string) Logger
}

// GetTraceID returns the trace id stored in ctx, or 0
// if there is none
func GetTraceID(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}

	id, ok := ctx.Value(ContextKeyTraceID).(int64)
	if !ok {
		return 0
	}

	return id
}

// WithTraceID returns a copy of ctx that carries the trace id
func WithTraceID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, ContextKeyTraceID, id)
}
