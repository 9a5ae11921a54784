package trace

import (
	"fmt"
	"time"
)

// Scope indicates which part of the run produced an event.
type Scope string

const (
	// ScopeDriver covers top-level driver operations.
	ScopeDriver Scope = "driver"
	// ScopeSysroot covers sysroot synthesis.
	ScopeSysroot Scope = "sysroot"
	// ScopeWrapper covers re-invoked wrapper operations.
	ScopeWrapper Scope = "wrapper"
)

// Event is a single trace event.
type Event struct {
	Time   time.Time // wall-clock timestamp
	Level  Level     // verbosity this event belongs to
	Scope  Scope     // producing subsystem
	Name   string    // e.g. "rewrite", "synthesize"
	Detail string    // optional detail message
}

// Emitf emits a formatted point event through t. It is a no-op when t is
// nil, disabled, or below level.
func Emitf(t Tracer, level Level, scope Scope, name, format string, args ...any) {
	if t == nil || !t.Enabled() || level > t.Level() {
		return
	}
	t.Emit(Event{
		Time:   time.Now(),
		Level:  level,
		Scope:  scope,
		Name:   name,
		Detail: fmt.Sprintf(format, args...),
	})
}
