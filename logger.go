package cvdnn

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with the attribute names used by the bindings
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.  If handler is nil a
// text handler writing Info and above to stderr is used.
func NewLogger(handler slog.Handler) *Logger {

	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that writes human readable records at or
// above level to stderr
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all output
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, nil))
}

// withOp returns a child logger tagged with the native entry point name
func (l *Logger) withOp(op string) *Logger {
	return &Logger{Logger: l.With(slog.String("op", op))}
}
