package logs

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// LogrusLoggerProperties are the properties used to create
// a new logger backed by logrus
type LogrusLoggerProperties struct {
	// Level is the minimum level of the messages that are logged
	Level logrus.Level

	// Output is where messages are written. Defaults to stderr
	Output io.Writer

	// Formatter formats each message. Defaults to JSON
	Formatter logrus.Formatter
}

// LogrusLogger is the implementation of Logger on top of logrus
type LogrusLogger struct {
	entry *logrus.Entry
}

// NewLogrus creates a new logger backed by a new logrus instance
func NewLogrus(props LogrusLoggerProperties) *LogrusLogger {
	logger := logrus.New()
	logger.SetLevel(props.Level)

	if props.Output != nil {
		logger.SetOutput(props.Output)
	} else {
		logger.SetOutput(os.Stderr)
	}

	if props.Formatter != nil {
		logger.SetFormatter(props.Formatter)
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return &LogrusLogger{entry: logrus.NewEntry(logger)}
}

func (l *LogrusLogger) withFields(ctx context.Context, loggables []Loggable) *logrus.Entry {
	fields := make(Fields)
	if id := GetTraceID(ctx); id != 0 {
		fields.Add(string(ContextKeyTraceID), id)
	}

	for _, loggable := range loggables {
		if loggable != nil {
			loggable.Log(fields)
		}
	}

	return l.entry.WithFields(logrus.Fields(fields))
}

// Debug is the implementation of Logger for LogrusLogger
func (l *LogrusLogger) Debug(ctx context.Context, msg string, loggables ...Loggable) {
	l.withFields(ctx, loggables).Debug(msg)
}

// Info is the implementation of Logger for LogrusLogger
func (l *LogrusLogger) Info(ctx context.Context, msg string, loggables ...Loggable) {
	l.withFields(ctx, loggables).Info(msg)
}

// Warn is the implementation of Logger for LogrusLogger
func (l *LogrusLogger) Warn(ctx context.Context, msg string, loggables ...Loggable) {
	l.withFields(ctx, loggables).Warn(msg)
}

// Error is the implementation of Logger for LogrusLogger
func (l *LogrusLogger) Error(ctx context.Context, msg string, loggables ...Loggable) {
	l.withFields(ctx, loggables).Error(msg)
}

// ForClass is the implementation of Logger for LogrusLogger
func (l *LogrusLogger) ForClass(pkg, class string) Logger {
	return &LogrusLogger{entry: l.entry.WithFields(logrus.Fields{
		"package": pkg,
		"class":   class,
	})}
}
