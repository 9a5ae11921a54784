package checkpipeline

import (
	"context"
	"errors"
	"fmt"

	"nostdcheck/internal/argv"
	"nostdcheck/internal/toolchain"
	"nostdcheck/internal/trace"
)

// WrapperEnv is the sentinel-carried state a wrapper invocation re-derives
// from its environment. Each wrapper process reads it independently, which
// keeps parallel invocations under cargo's own job scheduling idempotent.
type WrapperEnv struct {
	Target  string
	Sysroot string
}

// LoadWrapperEnv reads the real target and sysroot path set by the driver.
// A missing value means the environment was corrupted between the driver
// and this process, not user error.
func LoadWrapperEnv(getenv toolchain.Getenv) (WrapperEnv, error) {
	env := WrapperEnv{
		Target:  getenv(EnvTarget),
		Sysroot: getenv(EnvSysroot),
	}
	if env.Target == "" {
		return WrapperEnv{}, fmt.Errorf("missing %s in wrapper environment", EnvTarget)
	}
	if env.Sysroot == "" {
		return WrapperEnv{}, fmt.Errorf("missing %s in wrapper environment", EnvSysroot)
	}
	return env, nil
}

// Rewrite swaps the placeholder target for the real one and appends exactly
// one sysroot flag. The substitution is conditional: an invocation without
// the placeholder (cargo compiling a build script or proc macro for the
// host) passes through untouched, since pointing host tools at the filtered
// sysroot would break them.
func Rewrite(args argv.List, env WrapperEnv) (argv.List, bool) {
	value, span, ok := args.Lookup("--target")
	if !ok || value != PlaceholderTarget {
		return args, false
	}
	out := args.Splice(span, "--target="+env.Target)
	return out.Append("--sysroot", env.Sysroot), true
}

// RunWrapper performs one wrapper invocation: rewrite the argument vector,
// then run the real compiler (the vector's first element) with the
// remaining elements and 1:1 standard streams. The compiler's exit code is
// propagated verbatim through the returned status; termination by signal is
// surfaced as an error since no code exists to propagate.
func RunWrapper(ctx context.Context, args argv.List, getenv toolchain.Getenv) (toolchain.ExitStatus, error) {
	tr := trace.FromContext(ctx)
	if len(args) == 0 {
		return toolchain.ExitStatus{}, errors.New("expected rustc argument")
	}
	env, err := LoadWrapperEnv(getenv)
	if err != nil {
		return toolchain.ExitStatus{}, err
	}

	rewritten, changed := Rewrite(args, env)
	if changed {
		trace.Emitf(tr, trace.LevelDetail, trace.ScopeWrapper, "rewrite", "target=%s sysroot=%s", env.Target, env.Sysroot)
	} else {
		trace.Emitf(tr, trace.LevelDetail, trace.ScopeWrapper, "passthrough", "no placeholder target")
	}
	trace.Emitf(tr, trace.LevelDebug, trace.ScopeWrapper, "rustc", "%v", rewritten)

	status, err := toolchain.Run(ctx, rewritten[0], rewritten[1:], nil)
	if err != nil {
		return toolchain.ExitStatus{}, err
	}
	if _, ok := status.Code(); !ok {
		return status, errors.New("rustc exited with signal")
	}
	return status, nil
}
