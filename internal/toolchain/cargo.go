package toolchain

import (
	"context"
	"encoding/json"
	"fmt"
)

// Cargo is a handle to the cargo executable. The CARGO environment variable
// overrides the executable path.
type Cargo struct {
	path string
}

// NewCargo resolves the cargo executable from the environment.
func NewCargo(getenv Getenv) Cargo {
	return Cargo{path: resolveExecutable(getenv, "CARGO", "cargo")}
}

// Path returns the resolved executable path.
func (c Cargo) Path() string {
	return c.path
}

type cargoMetadata struct {
	WorkspaceRoot string `json:"workspace_root"`
}

// WorkspaceRoot queries `cargo metadata` for the workspace root directory.
// manifestPath, when non-empty, is forwarded as --manifest-path.
func (c Cargo) WorkspaceRoot(ctx context.Context, manifestPath string) (string, error) {
	args := []string{"metadata", "--format-version", "1", "--no-deps"}
	if manifestPath != "" {
		args = append(args, "--manifest-path", manifestPath)
	}
	out, err := CaptureStdout(ctx, "query cargo metadata", c.path, args...)
	if err != nil {
		return "", err
	}
	var meta cargoMetadata
	if err := json.Unmarshal(out, &meta); err != nil {
		return "", fmt.Errorf("failed to parse cargo metadata: %w", err)
	}
	if meta.WorkspaceRoot == "" {
		return "", fmt.Errorf("cargo metadata reported no workspace root")
	}
	return meta.WorkspaceRoot, nil
}
