// Package main implements the nostdcheck CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"nostdcheck/internal/checkpipeline"
	"nostdcheck/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "nostdcheck [--target=<triple>] [cargo flags...]",
	Short: "Check that a crate builds without the Rust standard library",
	Long: `nostdcheck verifies that a library crate compiles without libstd,
including through its transitive dependencies, by building it against a
synthetic sysroot with the standard runtime library removed.

Flags it does not recognize pass through to cargo unmodified.`,
	// Arguments are a pass-through vector for cargo; they are edited with
	// flag surgery instead of being parsed.
	DisableFlagParsing: true,
	Args:               cobra.ArbitraryArgs,
	SilenceUsage:       true,
	RunE:               checkExecution,
}

func main() {
	// The wrapper role is decided once, before any CLI handling: when cargo
	// re-invokes this executable in place of rustc, the argument vector is a
	// compiler command line, not our flags.
	if checkpipeline.DetectRole(os.Getenv) == checkpipeline.RoleWrapper {
		os.Exit(wrapperMain())
	}

	rootCmd.Version = version.Version
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
