// Package trace provides leveled tracing for the driver and wrapper phases.
//
// Events stream to stderr as plain text. The wrapper phase runs once per
// rustc invocation in a fresh process, so its tracer is reconstructed from
// the CARGO_NOSTD_VERBOSE environment toggle rather than carried over.
package trace

import (
	"fmt"
	"io"
	"sync"
)

// Tracer is the main interface for emitting trace events.
type Tracer interface {
	// Emit records a trace event. Must be goroutine-safe.
	Emit(ev Event)

	// Flush ensures all buffered events are written.
	Flush() error

	// Level returns the current tracing level.
	Level() Level

	// Enabled returns true if tracing is active (Level > LevelOff).
	Enabled() bool
}

// StreamTracer writes events immediately to an io.Writer.
type StreamTracer struct {
	mu    sync.Mutex
	w     io.Writer
	level Level
}

// New creates a Tracer writing to w at the given level. LevelOff yields the
// nop tracer.
func New(w io.Writer, level Level) Tracer {
	if level == LevelOff {
		return Nop
	}
	return &StreamTracer{w: w, level: level}
}

// Emit writes an event to the output. Write errors are swallowed: tracing
// must never disrupt the run it observes.
func (t *StreamTracer) Emit(ev Event) {
	if ev.Level > t.level {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = fmt.Fprintf(t.w, "%s %s %s: %s\n",
		ev.Time.Format("15:04:05.000"), ev.Scope, ev.Name, ev.Detail)
}

// Flush forwards to the writer when it is flushable; events themselves are
// written immediately.
func (t *StreamTracer) Flush() error {
	if flusher, ok := t.w.(interface{ Flush() error }); ok {
		return flusher.Flush()
	}
	return nil
}

// Level returns the configured level.
func (t *StreamTracer) Level() Level {
	return t.level
}

// Enabled always returns true for a stream tracer.
func (t *StreamTracer) Enabled() bool {
	return true
}
