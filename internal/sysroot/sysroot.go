// Package sysroot synthesizes a filtered copy of a rustc installation tree.
//
// The synthesized tree mirrors the compiler's own layout under
// lib/rustlib/<triple>/{bin,lib}, except that the standard runtime library
// (libstd) is omitted from the tree the checked target resolves against.
// Pointing rustc at the result makes any crate that transitively depends on
// std fail to resolve, while the compiler's own binaries and the host
// artifacts it needs keep working.
package sysroot

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// stdLib is the library name of the standard runtime, derived from a
// filename prefix up to the first '-' or '.'.
const stdLib = "libstd"

type copyEntry struct {
	src string
	dst string
}

// Plan is the ordered list of file copies that materializes one synthetic
// sysroot. It is computed up front so progress is reportable as a fraction
// of a known total.
type Plan struct {
	destRoot string
	entries  []copyEntry
}

// Total returns the number of planned file copies.
func (p *Plan) Total() int {
	return len(p.entries)
}

// DestRoot returns the sysroot directory the plan materializes into.
func (p *Plan) DestRoot() string {
	return p.destRoot
}

// NewPlan plans a synthetic sysroot under destRoot for the given check
// target.
//
// Binaries are planned unfiltered into the host bin mirror. The target's
// own installed lib subtree is planned into the target lib tree, omitting
// files whose derived library name is libstd. When target differs from
// host, a full host lib mirror is planned alongside so the compiler's host
// artifacts stay resolvable.
func NewPlan(host, target, srcRoot, destRoot string) (*Plan, error) {
	srcRustlib := filepath.Join(srcRoot, "lib", "rustlib")
	destRustlib := filepath.Join(destRoot, "lib", "rustlib")

	plan := &Plan{destRoot: destRoot}

	srcBin := filepath.Join(srcRustlib, host, "bin")
	destHostBin := filepath.Join(destRustlib, host, "bin")
	if err := planSubtree(srcBin, func(rel, src string) {
		plan.entries = append(plan.entries, copyEntry{src: src, dst: filepath.Join(destHostBin, rel)})
	}); err != nil {
		return nil, fmt.Errorf("failed to plan bin subtree: %w", err)
	}

	if target != host {
		srcHostLib := filepath.Join(srcRustlib, host, "lib")
		destHostLib := filepath.Join(destRustlib, host, "lib")
		if err := planSubtree(srcHostLib, func(rel, src string) {
			plan.entries = append(plan.entries, copyEntry{src: src, dst: filepath.Join(destHostLib, rel)})
		}); err != nil {
			return nil, fmt.Errorf("failed to plan host lib subtree: %w", err)
		}
	}

	// The check target's libraries must come from the target's own rustlib
	// directory: for a cross triple those are the cross-compiled core and
	// alloc, not the host's rlibs. A missing subtree means the target is not
	// installed in this toolchain.
	srcTargetLib := filepath.Join(srcRustlib, target, "lib")
	destTargetLib := filepath.Join(destRustlib, target, "lib")
	if err := planSubtree(srcTargetLib, func(rel, src string) {
		if libName(filepath.Base(rel)) != stdLib {
			plan.entries = append(plan.entries, copyEntry{src: src, dst: filepath.Join(destTargetLib, rel)})
		}
	}); err != nil {
		return nil, fmt.Errorf("failed to plan target lib subtree: %w", err)
	}

	return plan, nil
}

func planSubtree(root string, add func(rel, src string)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		add(rel, path)
		return nil
	})
}

// libName derives a library name from a filename: the prefix up to the
// first '-' or '.'. "libstd-a1b2.rlib" and "libstd.so" both map to "libstd".
func libName(filename string) string {
	if i := strings.IndexAny(filename, "-."); i >= 0 {
		return filename[:i]
	}
	return filename
}

// Synthesize executes the plan, creating parent directories on demand.
// The first I/O failure aborts the whole run; no partial tree is rolled
// back. One progress event is emitted per copied file.
func Synthesize(ctx context.Context, plan *Plan, sink ProgressSink) error {
	total := plan.Total()
	for i, entry := range plan.entries {
		if err := ctx.Err(); err != nil {
			emit(sink, Event{Status: StatusError, Copied: i, Total: total, Err: err})
			return err
		}
		rel, relErr := filepath.Rel(plan.destRoot, entry.dst)
		if relErr != nil {
			rel = entry.dst
		}
		emit(sink, Event{Path: rel, Copied: i, Total: total, Status: StatusWorking})
		if err := copyFile(entry.src, entry.dst); err != nil {
			emit(sink, Event{Path: rel, Copied: i, Total: total, Status: StatusError, Err: err})
			return err
		}
	}
	emit(sink, Event{Copied: total, Total: total, Status: StatusDone})
	return nil
}

// WriteTargetSpec stores the target specification JSON for the no-std
// variant triple in the sysroot root.
func WriteTargetSpec(destRoot, triple string, spec []byte) error {
	if err := os.MkdirAll(destRoot, 0o750); err != nil {
		return fmt.Errorf("failed to create sysroot dir: %w", err)
	}
	path := filepath.Join(destRoot, triple+".json")
	if err := os.WriteFile(path, spec, 0o600); err != nil {
		return fmt.Errorf("failed to write target spec: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat %q: %w", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return fmt.Errorf("failed to create %q: %w", filepath.Dir(dst), err)
	}
	in, err := os.Open(src) // #nosec G304 -- paths come from the walked toolchain tree
	if err != nil {
		return fmt.Errorf("failed to open %q: %w", src, err)
	}
	defer func() {
		_ = in.Close()
	}()
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm()) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy %q: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %q: %w", dst, err)
	}
	return nil
}
