package main

import (
	"context"
	"fmt"
	"os"

	"nostdcheck/internal/argv"
	"nostdcheck/internal/checkpipeline"
	"nostdcheck/internal/trace"
)

// wrapperMain handles one re-invocation made by cargo in place of rustc.
// It returns the process exit code: the compiler's own code when it ran,
// 1 for fatal wrapper errors (including signal termination, which carries
// no code to propagate).
func wrapperMain() int {
	tracer, err := newTracer("", os.Getenv)
	if err != nil {
		tracer = trace.Nop
	}
	ctx := trace.WithTracer(context.Background(), tracer)

	status, err := checkpipeline.RunWrapper(ctx, argv.List(os.Args[1:]), os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "nostdcheck: %v\n", err)
		return 1
	}
	code, _ := status.Code()
	return code
}
