package toolchain

import (
	"context"
	"fmt"
	"strings"
)

// Channel is a rustc release channel.
type Channel string

const (
	ChannelStable  Channel = "stable"
	ChannelBeta    Channel = "beta"
	ChannelNightly Channel = "nightly"
	ChannelDev     Channel = "dev"
)

// VersionMeta is the metadata reported by `rustc -vV`.
type VersionMeta struct {
	Release string
	Channel Channel
	Host    string
	Commit  string
}

// Rustc is a handle to the rustc executable. The RUSTC environment variable
// overrides the executable path, matching cargo's own convention.
type Rustc struct {
	path string
}

// NewRustc resolves the rustc executable from the environment.
func NewRustc(getenv Getenv) Rustc {
	return Rustc{path: resolveExecutable(getenv, "RUSTC", "rustc")}
}

// Path returns the resolved executable path.
func (r Rustc) Path() string {
	return r.path
}

// VersionMeta queries and parses `rustc -vV`.
func (r Rustc) VersionMeta(ctx context.Context) (VersionMeta, error) {
	out, err := CaptureStdout(ctx, "get rustc version", r.path, "-vV")
	if err != nil {
		return VersionMeta{}, err
	}
	return parseVersionMeta(string(out))
}

// Sysroot queries the compiler's installed root via `--print sysroot`.
func (r Rustc) Sysroot(ctx context.Context) (string, error) {
	out, err := CaptureStdout(ctx, "get sysroot", r.path, "--print", "sysroot")
	if err != nil {
		return "", err
	}
	sysroot := firstLine(out)
	if sysroot == "" {
		return "", fmt.Errorf("rustc reported an empty sysroot")
	}
	return sysroot, nil
}

// TargetSpecJSON queries the host target specification. Requires a nightly
// or dev toolchain since `--print target-spec-json` is unstable.
func (r Rustc) TargetSpecJSON(ctx context.Context) ([]byte, error) {
	return CaptureStdout(ctx, "get target spec json", r.path,
		"-Z", "unstable-options", "--print", "target-spec-json")
}

// parseVersionMeta extracts release, channel, host and commit from the
// multi-line `rustc -vV` output.
func parseVersionMeta(out string) (VersionMeta, error) {
	var meta VersionMeta
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "release: "):
			meta.Release = strings.TrimPrefix(line, "release: ")
		case strings.HasPrefix(line, "host: "):
			meta.Host = strings.TrimPrefix(line, "host: ")
		case strings.HasPrefix(line, "commit-hash: "):
			meta.Commit = strings.TrimPrefix(line, "commit-hash: ")
		}
	}
	if meta.Release == "" || meta.Host == "" {
		return VersionMeta{}, fmt.Errorf("unexpected rustc -vV output: %q", out)
	}
	meta.Channel = channelFromRelease(meta.Release)
	return meta, nil
}

func channelFromRelease(release string) Channel {
	switch {
	case strings.Contains(release, "-nightly"):
		return ChannelNightly
	case strings.Contains(release, "-dev"):
		return ChannelDev
	case strings.Contains(release, "-beta"):
		return ChannelBeta
	default:
		return ChannelStable
	}
}
