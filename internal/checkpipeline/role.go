// Package checkpipeline implements the two-phase indirection that lets one
// executable act as both the cargo front-end (driver) and cargo's
// RUSTC_WRAPPER (wrapper).
//
// The driver synthesizes a no-std sysroot, injects a placeholder target into
// the argument vector and launches cargo with this same executable
// registered as the compiler wrapper. Every rustc invocation cargo would
// make then re-enters this program in the wrapper role, which swaps the
// placeholder back for the real target and points rustc at the synthetic
// sysroot. The role is decided exactly once at process entry from the
// sentinel environment variable; a process never changes role.
package checkpipeline

import "nostdcheck/internal/toolchain"

// Environment contract between the driver and its descendant wrapper
// processes.
const (
	// EnvSentinel marks descendant processes as wrapper invocations.
	EnvSentinel = "CARGO_NOSTD_CHECK"
	// EnvTarget carries the resolved real target triple.
	EnvTarget = "CARGO_NOSTD_TARGET"
	// EnvSysroot carries the synthetic sysroot path.
	EnvSysroot = "CARGO_NOSTD_SYSROOT"
	// EnvVerbose toggles tracing in both roles.
	EnvVerbose = "CARGO_NOSTD_VERBOSE"
)

// PlaceholderTarget is the fixed sentinel triple the driver substitutes
// into the argument vector. It must never reach the real compiler: every
// path that introduces it relies on the wrapper role removing it.
const PlaceholderTarget = "no_std-fake-target"

// Role selects the phase this process runs.
type Role uint8

const (
	// RoleDriver is the initial invocation launched by the user.
	RoleDriver Role = iota
	// RoleWrapper is a re-invocation made by cargo in place of rustc.
	RoleWrapper
)

// String returns the string representation of Role.
func (r Role) String() string {
	if r == RoleWrapper {
		return "wrapper"
	}
	return "driver"
}

// DetectRole inspects the sentinel environment variable. Absent means
// driver, present means wrapper.
func DetectRole(getenv toolchain.Getenv) Role {
	if getenv(EnvSentinel) != "" {
		return RoleWrapper
	}
	return RoleDriver
}
