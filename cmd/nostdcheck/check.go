package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"nostdcheck/internal/argv"
	"nostdcheck/internal/checkpipeline"
	"nostdcheck/internal/config"
	"nostdcheck/internal/trace"
	"nostdcheck/internal/version"
)

var (
	creatingLabel = color.New(color.FgGreen, color.Bold)
	targetLabel   = color.New(color.FgYellow, color.Bold)
)

func checkExecution(cmd *cobra.Command, rawArgs []string) error {
	args := argv.List(rawArgs)

	// Help and version short-circuit before any sysroot or process work.
	if args.Find("--help") != -1 || args.Find("-h") != -1 {
		return cmd.Help()
	}
	if args.Find("--version") != -1 || args.Find("-V") != -1 {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "nostdcheck %s\n", version.Version)
		return err
	}

	cfg, _, err := config.Load(".")
	if err != nil {
		return err
	}

	// Flags consumed by this tool are removed from the pass-through vector;
	// everything else, including --target, stays for the driver to edit.
	args, uiValue := consumeFlag(args, "--ui", cfg.UI.Mode)
	args, traceValue := consumeFlag(args, "--trace-level", "")

	tracer, err := newTracer(traceValue, os.Getenv)
	if err != nil {
		return err
	}
	ctx := trace.WithTracer(cmd.Context(), tracer)

	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate own executable: %w", err)
	}

	driver, err := checkpipeline.NewDriver(ctx, checkpipeline.DriverOptions{
		Args:       args,
		Action:     cfg.Cargo.Action,
		SysrootDir: cfg.Sysroot.Dir,
		Executable: executable,
		Getenv:     os.Getenv,
	})
	if err != nil {
		return err
	}

	plan, err := driver.PlanSysroot(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "%s #![no_std] sysroot\n", creatingLabel.Sprintf("%12s", "Creating"))

	if shouldUseTUI(uiModeValue) && plan.Total() > 0 {
		err = materializeWithUI(ctx, driver, plan)
	} else {
		err = driver.Materialize(ctx, plan, nil)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "%s %s (sysroot: %s)\n",
		targetLabel.Sprintf("%12s", "Target"), driver.Target(), driver.SysrootPath())

	status, err := driver.RunCargo(ctx)
	if err != nil {
		return err
	}
	code, ok := status.Code()
	if !ok {
		return errors.New("cargo terminated by signal")
	}
	if code != 0 {
		// Propagate cargo's exit code verbatim: a failed check is the
		// child's verdict, not an internal error.
		os.Exit(code)
	}
	return nil
}

// consumeFlag extracts a tool-only flag from the pass-through vector,
// falling back to def when absent.
func consumeFlag(args argv.List, flag, def string) (argv.List, string) {
	if value, span, ok := args.Lookup(flag); ok {
		return args.Splice(span), value
	}
	return args, def
}
