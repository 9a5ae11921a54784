package main

import (
	"fmt"
	"os"

	"nostdcheck/internal/checkpipeline"
	"nostdcheck/internal/toolchain"
	"nostdcheck/internal/trace"
)

// newTracer builds the stderr tracer from the --trace-level value, falling
// back to the CARGO_NOSTD_VERBOSE environment toggle. The env fallback is
// what wrapper invocations rely on, since cargo does not forward our flags.
func newTracer(levelValue string, getenv toolchain.Getenv) (trace.Tracer, error) {
	if levelValue == "" {
		if getenv(checkpipeline.EnvVerbose) != "" {
			return trace.New(os.Stderr, trace.LevelDebug), nil
		}
		return trace.Nop, nil
	}
	level, err := trace.ParseLevel(levelValue)
	if err != nil {
		return nil, fmt.Errorf("--trace-level: %w", err)
	}
	return trace.New(os.Stderr, level), nil
}
