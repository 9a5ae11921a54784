package checkpipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"nostdcheck/internal/argv"
	"nostdcheck/internal/sysroot"
	"nostdcheck/internal/toolchain"
	"nostdcheck/internal/trace"
)

// DriverOptions configures the driver phase.
type DriverOptions struct {
	// Args is the pass-through cargo argument vector, still carrying any
	// user-supplied --target flag.
	Args argv.List
	// Action is the cargo subcommand to launch: check or build.
	Action string
	// SysrootDir overrides sysroot placement. Empty selects the workspace
	// target directory; "tmp" selects a private temporary directory.
	SysrootDir string
	// Executable is the path of this binary, registered as RUSTC_WRAPPER.
	Executable string
	// Getenv resolves environment lookups.
	Getenv toolchain.Getenv
}

// Driver holds the state resolved up front for one check run: toolchain
// handles, the real target, the placeholder-bearing argument vector and the
// sysroot location. It is built once and drives the phases in order:
// PlanSysroot, Materialize, RunCargo.
type Driver struct {
	opts        DriverOptions
	rustc       toolchain.Rustc
	cargo       toolchain.Cargo
	meta        toolchain.VersionMeta
	args        argv.List
	realTarget  string
	sysrootPath string
}

// NewDriver validates the toolchain and resolves the target and sysroot
// placement. Unsupported release channels fail here, before any filesystem
// work.
func NewDriver(ctx context.Context, opts DriverOptions) (*Driver, error) {
	tr := trace.FromContext(ctx)
	if opts.Action == "" {
		opts.Action = "check"
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}

	rustc := toolchain.NewRustc(opts.Getenv)
	cargo := toolchain.NewCargo(opts.Getenv)

	meta, err := rustc.VersionMeta(ctx)
	if err != nil {
		return nil, err
	}
	switch meta.Channel {
	case toolchain.ChannelNightly, toolchain.ChannelDev:
	default:
		return nil, fmt.Errorf("%s channel not supported (a nightly or dev toolchain is required for -Z unstable-options)", meta.Channel)
	}
	trace.Emitf(tr, trace.LevelPhase, trace.ScopeDriver, "toolchain", "release=%s host=%s", meta.Release, meta.Host)

	args, realTarget := resolveTarget(opts.Args, meta.Host)
	trace.Emitf(tr, trace.LevelPhase, trace.ScopeDriver, "target", "real=%s placeholder=%s", realTarget, PlaceholderTarget)

	sysrootPath, err := resolveSysrootPath(ctx, cargo, opts.SysrootDir, args)
	if err != nil {
		return nil, err
	}

	return &Driver{
		opts:        opts,
		rustc:       rustc,
		cargo:       cargo,
		meta:        meta,
		args:        args,
		realTarget:  realTarget,
		sysrootPath: sysrootPath,
	}, nil
}

// resolveTarget swaps a user-supplied --target for the placeholder,
// remembering the real triple; without one, the host triple is used and a
// placeholder flag is appended.
func resolveTarget(args argv.List, host string) (argv.List, string) {
	if value, span, ok := args.Lookup("--target"); ok {
		return args.Splice(span, "--target="+PlaceholderTarget), value
	}
	return args.Append("--target", PlaceholderTarget), host
}

// resolveSysrootPath decides where to materialize the synthetic sysroot.
// Workspace-relative placement is canonical; an explicit directory or a
// private temporary directory can be selected through configuration.
func resolveSysrootPath(ctx context.Context, cargo toolchain.Cargo, override string, args argv.List) (string, error) {
	switch override {
	case "":
	case "tmp":
		dir, err := os.MkdirTemp("", "nostd_sysroot-")
		if err != nil {
			return "", fmt.Errorf("failed to create temporary sysroot dir: %w", err)
		}
		return dir, nil
	default:
		abs, err := filepath.Abs(override)
		if err != nil {
			return "", fmt.Errorf("failed to resolve sysroot dir %q: %w", override, err)
		}
		return abs, nil
	}

	manifestPath, _, _ := args.Lookup("--manifest-path")
	workspaceRoot, err := cargo.WorkspaceRoot(ctx, manifestPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(workspaceRoot, "target", "nostd_sysroot"), nil
}

// Target returns the resolved real target triple.
func (d *Driver) Target() string {
	return d.realTarget
}

// Host returns the compiler-reported host triple.
func (d *Driver) Host() string {
	return d.meta.Host
}

// SysrootPath returns where the synthetic sysroot is materialized.
func (d *Driver) SysrootPath() string {
	return d.sysrootPath
}

// PlanSysroot queries the compiler's installed root, wipes any stale
// synthetic sysroot and plans the filtered copy. The sysroot is rebuilt
// fresh on every invocation; nothing is cached or locked, so two concurrent
// runs against the same workspace race on this path.
func (d *Driver) PlanSysroot(ctx context.Context) (*sysroot.Plan, error) {
	src, err := d.rustc.Sysroot(ctx)
	if err != nil {
		return nil, err
	}
	trace.Emitf(trace.FromContext(ctx), trace.LevelPhase, trace.ScopeSysroot, "plan", "src=%s dst=%s", src, d.sysrootPath)

	_ = os.RemoveAll(d.sysrootPath)
	return sysroot.NewPlan(d.meta.Host, d.realTarget, src, d.sysrootPath)
}

// Materialize executes the plan and stores the no-std variant's target
// specification alongside it. It must complete before cargo is spawned;
// that strict sequencing is the only ordering guarantee wrapper invocations
// rely on.
func (d *Driver) Materialize(ctx context.Context, plan *sysroot.Plan, sink sysroot.ProgressSink) error {
	if err := sysroot.Synthesize(ctx, plan, sink); err != nil {
		return err
	}
	spec, err := d.rustc.TargetSpecJSON(ctx)
	if err != nil {
		return err
	}
	if err := sysroot.WriteTargetSpec(d.sysrootPath, d.realTarget+"-nostd", spec); err != nil {
		return err
	}
	trace.Emitf(trace.FromContext(ctx), trace.LevelPhase, trace.ScopeSysroot, "materialize", "copied %d files", plan.Total())
	return nil
}

// RunCargo launches the cargo action with the placeholder-bearing argument
// vector, the wrapper environment contract and this executable registered
// as RUSTC_WRAPPER. The child's exit status is returned verbatim.
func (d *Driver) RunCargo(ctx context.Context) (toolchain.ExitStatus, error) {
	args := append([]string{d.opts.Action}, d.args...)
	extraEnv := []string{
		EnvSentinel + "=1",
		EnvTarget + "=" + d.realTarget,
		EnvSysroot + "=" + d.sysrootPath,
		"RUSTC_WRAPPER=" + d.opts.Executable,
	}
	tr := trace.FromContext(ctx)
	if tr.Enabled() {
		extraEnv = append(extraEnv, EnvVerbose+"=1")
	}
	trace.Emitf(tr, trace.LevelDebug, trace.ScopeDriver, "cargo", "%s %v", d.cargo.Path(), args)
	return toolchain.Run(ctx, d.cargo.Path(), args, extraEnv)
}
