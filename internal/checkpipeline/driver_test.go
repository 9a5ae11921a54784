package checkpipeline

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"nostdcheck/internal/argv"
	"nostdcheck/internal/toolchain"
)

const testHost = "x86_64-unknown-linux-gnu"

func TestResolveTargetExplicit(t *testing.T) {
	tests := []struct {
		name     string
		args     argv.List
		wantArgs argv.List
		wantReal string
	}{
		{
			name:     "separate form is replaced",
			args:     argv.List{"--target", "thumbv7em-none-eabihf", "--offline"},
			wantArgs: argv.List{"--target=" + PlaceholderTarget, "--offline"},
			wantReal: "thumbv7em-none-eabihf",
		},
		{
			name:     "equals form is replaced",
			args:     argv.List{"--target=thumbv7em-none-eabihf"},
			wantArgs: argv.List{"--target=" + PlaceholderTarget},
			wantReal: "thumbv7em-none-eabihf",
		},
		{
			name:     "absent flag falls back to host and appends",
			args:     argv.List{"--offline"},
			wantArgs: argv.List{"--offline", "--target", PlaceholderTarget},
			wantReal: testHost,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotArgs, gotReal := resolveTarget(tt.args, testHost)
			if gotReal != tt.wantReal {
				t.Errorf("real target = %q, want %q", gotReal, tt.wantReal)
			}
			if !reflect.DeepEqual(gotArgs, tt.wantArgs) {
				t.Errorf("args = %v, want %v", gotArgs, tt.wantArgs)
			}
			if gotArgs.Find(PlaceholderTarget) == -1 && !strings.Contains(strings.Join(gotArgs, " "), PlaceholderTarget) {
				t.Error("placeholder target missing from resolved vector")
			}
		})
	}
}

func TestResolveSysrootPathOverride(t *testing.T) {
	cargo := toolchain.NewCargo(func(string) string { return "" })

	dir := t.TempDir()
	got, err := resolveSysrootPath(context.Background(), cargo, dir, nil)
	if err != nil {
		t.Fatalf("resolveSysrootPath: %v", err)
	}
	if got != dir {
		t.Errorf("override path = %q, want %q", got, dir)
	}
}

func TestResolveSysrootPathTmp(t *testing.T) {
	cargo := toolchain.NewCargo(func(string) string { return "" })

	got, err := resolveSysrootPath(context.Background(), cargo, "tmp", nil)
	if err != nil {
		t.Fatalf("resolveSysrootPath: %v", err)
	}
	defer func() {
		_ = os.RemoveAll(got)
	}()
	if filepath.Base(got) == "tmp" {
		t.Errorf("tmp override produced a literal path: %q", got)
	}
	if info, err := os.Stat(got); err != nil || !info.IsDir() {
		t.Errorf("temporary sysroot dir not created: %v", err)
	}
}
