// Package toolchain wraps the external rustc and cargo executables behind
// small typed front-ends: executable resolution honoring the RUSTC and CARGO
// environment overrides, stdout capture for query invocations, and a tagged
// exit status for pass-through invocations.
package toolchain

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Getenv is the environment lookup used to resolve executable overrides.
// It matches the signature of os.Getenv so tests can substitute a map.
type Getenv func(key string) string

func resolveExecutable(getenv Getenv, key, fallback string) string {
	if getenv != nil {
		if path := getenv(key); path != "" {
			return path
		}
	}
	return fallback
}

// CaptureStdout runs path with args, inheriting stderr, and returns the
// captured stdout. A non-zero exit is an error carrying what.
func CaptureStdout(ctx context.Context, what, path string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to %s: %w", what, err)
	}
	return stdout.Bytes(), nil
}

// Run spawns path with args and the given environment additions, wiring the
// child's standard streams 1:1 to this process, and blocks until it
// finishes. The returned ExitStatus reports how the child terminated; an
// error is returned only when the child could not be run at all.
func Run(ctx context.Context, path string, args []string, extraEnv []string) (ExitStatus, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if len(extraEnv) > 0 {
		cmd.Env = append(os.Environ(), extraEnv...)
	}
	status, err := statusFromRun(cmd.Run())
	if err != nil {
		return ExitStatus{}, fmt.Errorf("failed to run %s: %w", path, err)
	}
	return status, nil
}

func firstLine(b []byte) string {
	s := string(b)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
