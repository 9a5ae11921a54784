package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"nostdcheck/internal/toolchain"
)

// TestMain lets the test binary stand in for the installed tool: with the
// dispatch variable set, the process behaves exactly like nostdcheck,
// including the wrapper re-invocations cargo makes through RUSTC_WRAPPER.
func TestMain(m *testing.M) {
	if os.Getenv("NOSTDCHECK_RUN_MAIN") == "1" {
		main()
		return
	}
	os.Exit(m.Run())
}

func runTool(t *testing.T, dir string, args ...string) (int, string) {
	t.Helper()
	cmd := exec.Command(os.Args[0], args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "NOSTDCHECK_RUN_MAIN=1")
	out, err := cmd.CombinedOutput()
	if err == nil {
		return 0, string(out)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), string(out)
	}
	t.Fatalf("run tool: %v\n%s", err, out)
	return 0, ""
}

// requireNightlyToolchain skips the test unless a nightly or dev rust
// toolchain is on PATH.
func requireNightlyToolchain(t *testing.T) {
	t.Helper()
	for _, tool := range []string{"rustc", "cargo"} {
		if _, err := exec.LookPath(tool); err != nil {
			t.Skipf("%s not on PATH", tool)
		}
	}
	meta, err := toolchain.NewRustc(os.Getenv).VersionMeta(context.Background())
	if err != nil {
		t.Skipf("rustc -vV failed: %v", err)
	}
	switch meta.Channel {
	case toolchain.ChannelNightly, toolchain.ChannelDev:
	default:
		t.Skipf("nightly toolchain required, found %s channel", meta.Channel)
	}
}

func writeCrate(t *testing.T, dir, name, deps, lib string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, "src"), 0o750); err != nil {
		t.Fatal(err)
	}
	manifest := fmt.Sprintf("[package]\nname = %q\nversion = \"0.1.0\"\nedition = \"2021\"\n\n[dependencies]\n%s", name, deps)
	if err := os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte(manifest), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "src", "lib.rs"), []byte(lib), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestHelpAndVersionTouchNothing(t *testing.T) {
	dir := t.TempDir()
	for _, flag := range []string{"--help", "-h", "--version", "-V"} {
		code, out := runTool(t, dir, flag)
		if code != 0 {
			t.Errorf("%s exit code = %d, want 0\n%s", flag, code, out)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("help/version wrote into the working directory: %v", entries)
	}
}

func TestCheckPassesForNoStdCrate(t *testing.T) {
	requireNightlyToolchain(t)
	dir := t.TempDir()
	writeCrate(t, dir, "adds_no_std", "",
		"#![no_std]\n\npub fn add(a: u32, b: u32) -> u32 {\n    a + b\n}\n")

	if code, out := runTool(t, dir); code != 0 {
		t.Errorf("exit code = %d, want 0\n%s", code, out)
	}
}

func TestCheckFailsForStdCrate(t *testing.T) {
	requireNightlyToolchain(t)
	dir := t.TempDir()
	writeCrate(t, dir, "greets_with_std", "",
		"pub fn greet() -> String {\n    String::from(\"hello\")\n}\n")

	if code, out := runTool(t, dir); code == 0 {
		t.Errorf("exit code = 0, want failure against the filtered sysroot\n%s", out)
	}
}

func TestCheckFailsForTransitiveStdDependency(t *testing.T) {
	requireNightlyToolchain(t)
	root := t.TempDir()

	depDir := filepath.Join(root, "answers_with_std")
	writeCrate(t, depDir, "answers_with_std", "",
		"pub fn answer() -> String {\n    String::from(\"42\")\n}\n")

	crateDir := filepath.Join(root, "looks_no_std")
	writeCrate(t, crateDir, "looks_no_std",
		"answers_with_std = { path = \"../answers_with_std\" }\n",
		"#![no_std]\n\npub use answers_with_std::answer;\n")

	if code, out := runTool(t, crateDir); code == 0 {
		t.Errorf("exit code = 0, want failure for a std-using dependency\n%s", out)
	}
}
